package store

import (
	"context"
	"fmt"
	"strings"
)

// KVStore defines the interface for string key-value persistence.
// Values are opaque to the store; callers own their serialization.
type KVStore interface {
	// Get returns the value stored under key.
	// A missing key is reported as ok == false with a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	// Returns ErrQuotaExceeded if the backend has no room for the value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MaxKeyLength bounds key length so every SQL dialect can index it.
const MaxKeyLength = 255

// ValidateKey checks that key can be used with any KVStore implementation.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: key longer than %d bytes", ErrInvalidKey, MaxKeyLength)
	}
	return nil
}
