package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
	"github.com/matzehuels/ownergraph/pkg/registry"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    ogerrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := ogerrors.GetCode(err)
	if code == "" {
		code = ogerrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.opts.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.opts.Logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", code)
	}
	writeJSON(w, status, errorBody{Code: code, Message: ogerrors.UserMessage(err)})
}

// statusFor maps an error to an HTTP status by its code.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch ogerrors.GetCode(err) {
	case ogerrors.ErrCodeInvalidInput, ogerrors.ErrCodeInvalidCompany, ogerrors.ErrCodeInvalidNode,
		ogerrors.ErrCodeInvalidDepth, ogerrors.ErrCodeInvalidDirection, ogerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ogerrors.ErrCodeNotFound, ogerrors.ErrCodeCompanyNotFound, ogerrors.ErrCodeNodeNotFound,
		ogerrors.ErrCodeInvestigationNotFound:
		return http.StatusNotFound
	case ogerrors.ErrCodeStaleGeneration, ogerrors.ErrCodeNoGraph:
		return http.StatusConflict
	case ogerrors.ErrCodeNotExpandable:
		return http.StatusUnprocessableEntity
	case ogerrors.ErrCodeSeedFetch:
		if errors.Is(err, registry.ErrNotFound) {
			return http.StatusNotFound
		}
		return http.StatusBadGateway
	case ogerrors.ErrCodeNetwork, ogerrors.ErrCodeUnauthorized, ogerrors.ErrCodeRateLimited:
		return http.StatusBadGateway
	case ogerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ogerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into dst and validates its struct tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return ogerrors.Wrap(ogerrors.ErrCodeInvalidInput, err, "malformed request body")
	}
	if err := s.validate.Struct(dst); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ogerrors.Wrap(ogerrors.ErrCodeInvalidInput, err, "invalid request")
	}

	e := verrs[0]
	var msg string
	switch e.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = "must be at least " + e.Param()
	case "max":
		msg = "must not exceed " + e.Param()
	case "oneof":
		msg = "must be one of: " + e.Param()
	default:
		msg = fmt.Sprintf("failed %s validation", e.Tag())
	}
	return ogerrors.New(ogerrors.ErrCodeInvalidInput, "%s %s", e.Field(), msg)
}
