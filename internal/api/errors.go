package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/service"
)

// Fixed user-facing messages
const (
	msgUnexpected      = "An unexpected error occurred"
	msgInvalidTaskData = "Invalid task data"
	msgAmbiguousRef    = "Task reference matches more than one task"
	msgCouldNotAdd     = "Could not add task"
	msgInvalidRequest  = "Invalid request"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTaskRefNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAmbiguousTaskRef):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return msgUnexpected
	case errors.Is(err, domain.ErrEmptyTaskText):
		return service.MsgEmptyText
	case domain.IsValidationError(err):
		return msgInvalidTaskData
	case errors.Is(err, service.ErrTaskRefNotFound):
		return service.MsgTaskNotFound
	case errors.Is(err, service.ErrAmbiguousTaskRef):
		return msgAmbiguousRef
	case errors.Is(err, service.ErrIDExhausted):
		return msgCouldNotAdd
	default:
		return msgUnexpected
	}
}
