// Package errors provides structured errors for the activity-stream server.
// Errors carry a stable code, a category, and an optional fix suggestion so
// operators can act on log output without digging through source.
package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryPrefs    Category = "prefs"
	CategoryProtocol Category = "protocol"
	CategorySurface  Category = "surface"
)

// StreamError is a structured error with a stable code and suggestion.
type StreamError struct {
	// Code is a unique error identifier (e.g., "AS001").
	Code string

	// Category is the error type (config, prefs, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *StreamError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *StreamError) WithSuggestion(s string) *StreamError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *StreamError) WithDetail(d string) *StreamError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *StreamError) Wrap(err error) *StreamError {
	e.Wrapped = err
	return e
}

// New creates a StreamError from a registered error code.
func New(code string) *StreamError {
	template, ok := registry[code]
	if !ok {
		return &StreamError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &StreamError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}
