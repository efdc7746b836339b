package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskpad/internal/api/shared"
	"github.com/phrazzld/taskpad/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	log, logBuf := logger.NewTestLogger(t)

	var ctxTraceID string
	handler := NewTraceMiddleware(log)(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.NotEmpty(t, ctxTraceID)
	assert.Equal(t, ctxTraceID, w.Header().Get(shared.TraceIDHeader))

	logger.AssertLogField(t, logBuf, "trace_id", ctxTraceID)
	logger.AssertLogContains(t, logBuf, "inside handler")
	logger.AssertLogContains(t, logBuf, "request completed")
	logger.AssertLogField(t, logBuf, "status", float64(http.StatusTeapot))
}
