// Package errors defines the coded errors shared by the ownergraph CLI and
// HTTP server.
//
// Every failure that reaches a user carries a [Code]. The CLI prints the
// message and code; the server maps the code to an HTTP status. Codes group
// by prefix:
//   - INVALID_*: bad input, the caller must change the request
//   - *_NOT_FOUND: unknown company, node or investigation
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: registry transport failures
//   - SEED_FETCH_FAILED, STALE_GENERATION, NOT_EXPANDABLE, NO_GRAPH:
//     investigation lifecycle
//
// Usage:
//
//	err := errors.Wrap(errors.ErrCodeSeedFetch, cause, "fetch company %s", number)
//	if errors.Is(err, errors.ErrCodeSeedFetch) {
//	    // the root company could not be loaded
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidCompany   Code = "INVALID_COMPANY_NUMBER"
	ErrCodeInvalidNode      Code = "INVALID_NODE"
	ErrCodeInvalidDepth     Code = "INVALID_DEPTH"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound              Code = "NOT_FOUND"
	ErrCodeCompanyNotFound       Code = "COMPANY_NOT_FOUND"
	ErrCodeNodeNotFound          Code = "NODE_NOT_FOUND"
	ErrCodeInvestigationNotFound Code = "INVESTIGATION_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Investigation lifecycle errors
	ErrCodeSeedFetch       Code = "SEED_FETCH_FAILED"
	ErrCodeStaleGeneration Code = "STALE_GENERATION"
	ErrCodeNotExpandable   Code = "NOT_EXPANDABLE"
	ErrCodeNoGraph         Code = "NO_GRAPH"

	// Authentication errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
