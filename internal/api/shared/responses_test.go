package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskpad/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{
			name:         "successful response",
			status:       http.StatusOK,
			data:         map[string]interface{}{"message": "success", "data": 123},
			expectedBody: `{"message":"success","data":123}`,
		},
		{
			name:         "nil response",
			status:       http.StatusOK,
			data:         nil,
			expectedBody: `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-123"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request format")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid request format", resp.Error)
	assert.Equal(t, "trace-123", resp.TraceID)
	assert.Zero(t, resp.Code, "code is not serialized")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		opts          []ResponseOption
		expectedLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, expectedLevel: "ERROR"},
		{name: "client error", status: http.StatusNotFound, expectedLevel: "DEBUG"},
		{name: "elevated client error", status: http.StatusConflict, opts: []ResponseOption{WithElevatedLogLevel()}, expectedLevel: "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, logBuf := logger.NewTestLogger(t)
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
			ctx := logger.WithLogger(WithTraceID(req.Context(), "trace-abc"), log)
			req = req.WithContext(ctx)
			w := httptest.NewRecorder()

			err := errors.New("dial postgres://admin:hunter2@db:5432/tasks failed")
			RespondWithErrorAndLog(w, req, tc.status, "Something went wrong", err, tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "hunter2", "raw errors never reach the client")
			assert.Contains(t, w.Body.String(), "Something went wrong")

			logger.AssertLogField(t, logBuf, "level", tc.expectedLevel)
			logger.AssertLogField(t, logBuf, "trace_id", "trace-abc")
			assert.False(t, strings.Contains(logBuf.String(), "hunter2"), "credentials are redacted in logs")
		})
	}
}
