package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "empty text",
			err:             domain.NewValidationError("text", domain.ErrEmptyTaskText),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.MsgEmptyText,
		},
		{
			name:            "other validation",
			err:             domain.NewValidationError("id", domain.ErrEmptyTaskID),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "Invalid task data",
		},
		{
			name:            "unknown reference",
			err:             fmt.Errorf("%w: %q", service.ErrTaskRefNotFound, "x"),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: service.MsgTaskNotFound,
		},
		{
			name:            "ambiguous reference",
			err:             service.ErrAmbiguousTaskRef,
			expectedStatus:  http.StatusConflict,
			expectedMessage: "Task reference matches more than one task",
		},
		{
			name:            "unexpected",
			err:             errors.New("sql: connection refused for postgres://u:p@h/db"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
			assert.Equal(t, tc.expectedMessage, GetSafeErrorMessage(tc.err))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
