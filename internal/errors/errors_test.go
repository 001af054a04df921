package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

// TestNewFromCode tests creating errors from registered codes.
func TestNewFromCode(t *testing.T) {
	err := New("AS020")
	if err.Category != CategoryPrefs {
		t.Errorf("Category: got %v, want prefs", err.Category)
	}
	if !strings.Contains(err.Error(), "AS020") {
		t.Errorf("Error string missing code: %v", err)
	}
	if err.Detail == "" {
		t.Error("registered code should carry detail")
	}
}

// TestNewUnknownCode tests the fallback for unregistered codes.
func TestNewUnknownCode(t *testing.T) {
	err := New("AS999")
	if err.Message != "Unknown error" {
		t.Errorf("Message: got %v", err.Message)
	}
}

// TestWrapUnwrap tests error chain support.
func TestWrapUnwrap(t *testing.T) {
	inner := stderrors.New("boom")
	err := New("AS002").Wrap(inner)

	if !stderrors.Is(err, inner) {
		t.Error("errors.Is should find wrapped error")
	}

	var se *StreamError
	if !stderrors.As(err, &se) {
		t.Error("errors.As should find StreamError")
	}
}

// TestBuilderChain tests suggestion and detail builders.
func TestBuilderChain(t *testing.T) {
	err := New("AS003").
		WithSuggestion("got port 0").
		WithDetail("ports must fit in 16 bits")

	if err.Suggestion != "got port 0" {
		t.Errorf("Suggestion: got %v", err.Suggestion)
	}
	if err.Detail != "ports must fit in 16 bits" {
		t.Errorf("Detail: got %v", err.Detail)
	}
}
