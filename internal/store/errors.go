package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all KVStore implementations.
var (
	// ErrInvalidKey is returned when a key is empty or otherwise unusable.
	ErrInvalidKey = errors.New("invalid key")

	// ErrQuotaExceeded is returned when a write would exceed the backend's
	// storage quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnavailable is returned when the backend cannot be reached or has
	// been closed.
	ErrUnavailable = errors.New("storage unavailable")
)

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "kv_item")
	Operation string // The operation that failed (e.g., "get", "set")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// IsQuotaError reports whether err means the backend ran out of space.
func IsQuotaError(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// IsUnavailableError reports whether err means the backend could not be used.
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
