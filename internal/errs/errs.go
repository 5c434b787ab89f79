// Package errs defines the error types shared by repositories, hooks and handlers.
//
// A missing single entity is not an error: lookups return a nil result.
// Everything else falls into one of three shapes:
//   - *ValidationError, raised before any backend call with field-level messages.
//   - *OperationError, wrapping a backend failure with the failing operation name.
//   - ErrTimeout, returned when a read exceeds the hook wait budget.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is used by writes that target a row that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrTimeout is returned when a backend read did not answer in time.
	ErrTimeout = errors.New("request timed out")
)

// FieldError represents a field-level validation error.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError carries every field that failed schema checks.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Error)
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Error: message}}}
}

// OperationError wraps a backend failure. Its message reads
// "Failed to <op> <entity>: <detail>".
type OperationError struct {
	Op     string
	Entity string
	Err    error
}

func (e *OperationError) Error() string {
	detail := "unknown error"
	if e.Err != nil {
		detail = e.Err.Error()
	}
	return fmt.Sprintf("Failed to %s %s: %s", e.Op, e.Entity, detail)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Wrap returns nil when err is nil, otherwise an *OperationError.
func Wrap(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Entity: entity, Err: err}
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// FieldsOf returns the field errors carried by err, if any.
func FieldsOf(err error) []FieldError {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}
