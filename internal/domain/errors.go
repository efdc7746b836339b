package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Callers match it with errors.Is; the concrete error is a *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTaskText is returned when task text is empty after trimming.
	ErrEmptyTaskText = errors.New("empty task text")

	// ErrEmptyTaskID is returned when a task has no ID.
	ErrEmptyTaskID = errors.New("task ID cannot be empty")
)

// ValidationError describes a single invalid field of a domain entity.
type ValidationError struct {
	Field string
	Err   error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrValidation, e.Field, e.Err)
}

// Unwrap returns both the generic validation sentinel and the specific reason,
// so errors.Is matches either.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// IsValidationError reports whether err is any kind of validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
