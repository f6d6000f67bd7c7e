package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "node %s not in graph", "officer-abc")
	if got, want := err.Error(), "NODE_NOT_FOUND: node officer-abc not in graph"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("status 503")
	wrapped := Wrap(ErrCodeSeedFetch, cause, "fetch company %s", "00000006")
	if got, want := wrapped.Error(), "SEED_FETCH_FAILED: fetch company 00000006: status 503"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should match its cause")
	}
}

func TestIsThroughChain(t *testing.T) {
	seed := Wrap(ErrCodeSeedFetch, errors.New("boom"), "fetch company 6")
	chained := fmt.Errorf("investigate: %w", seed)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"direct", seed, ErrCodeSeedFetch, true},
		{"through fmt.Errorf", chained, ErrCodeSeedFetch, true},
		{"other code", chained, ErrCodeNetwork, false},
		{"outermost code wins", Wrap(ErrCodeNetwork, New(ErrCodeTimeout, "slow"), "fetch"), ErrCodeTimeout, false},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	stale := New(ErrCodeStaleGeneration, "graph changed")
	if got := GetCode(fmt.Errorf("expand: %w", stale)); got != ErrCodeStaleGeneration {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeStaleGeneration)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidDepth, "depth must be between 1 and 3"), "depth must be between 1 and 3"},
		{"coded with cause", Wrap(ErrCodeNetwork, errors.New("dial tcp"), "search companies"), "search companies"},
		{"wrapped coded", fmt.Errorf("cli: %w", New(ErrCodeUnauthorized, "no API key")), "no API key"},
		{"plain", errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
