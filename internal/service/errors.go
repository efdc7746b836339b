package service

import (
	"errors"
	"fmt"
	"time"
)

// Common service errors - sentinel errors used across the task store.
// Callers check for them with errors.Is().
//
// Error handling principles:
// 1. Invalid user input is returned as a *domain.ValidationError
// 2. Storage failures never reach the caller; they become PersistenceWarnings
// 3. Operations that find nothing to do return a NoOp Outcome, not an error
var (
	// ErrNilKVStore is returned when the store is constructed without storage.
	ErrNilKVStore = errors.New("kv store cannot be nil")

	// ErrIDExhausted is returned when the ID generator keeps producing IDs
	// that are already in use.
	ErrIDExhausted = errors.New("could not generate a unique task ID")

	// ErrTaskRefNotFound indicates a task reference matched no task.
	ErrTaskRefNotFound = errors.New("task not found")

	// ErrAmbiguousTaskRef indicates a task reference matched several tasks.
	ErrAmbiguousTaskRef = errors.New("ambiguous task reference")

	// ErrCorruptData indicates the persisted value could not be read back as a
	// task sequence.
	ErrCorruptData = errors.New("stored tasks are corrupt")

	// ErrInvalidRecord indicates individual persisted tasks were discarded.
	ErrInvalidRecord = errors.New("invalid stored task")
)

// PersistenceOp identifies which direction of persistence failed.
type PersistenceOp string

// Persistence operations
const (
	OpLoad PersistenceOp = "load"
	OpSave PersistenceOp = "save"
)

// PersistenceWarning records a storage read or write that failed.
// It is never returned from a TaskStore operation; the in-memory state stays
// authoritative and the warning is logged, emitted and kept for inspection.
type PersistenceWarning struct {
	Op  PersistenceOp
	Key string
	Err error
	At  time.Time
}

// Error implements the error interface for PersistenceWarning.
func (w PersistenceWarning) Error() string {
	return fmt.Sprintf("could not %s tasks under %q: %v", w.Op, w.Key, w.Err)
}

// Unwrap returns the underlying storage or decoding error.
func (w PersistenceWarning) Unwrap() error {
	return w.Err
}

// Message returns the short user-facing text for the warning.
func (w PersistenceWarning) Message() string {
	if w.Op == OpLoad {
		return "Could not load tasks"
	}
	return "Could not save tasks"
}
