package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/taskpad/internal/api/shared"
	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/mocks"
	"github.com/phrazzld/taskpad/internal/platform/logger"
	"github.com/phrazzld/taskpad/internal/platform/memkv"
	"github.com/phrazzld/taskpad/internal/service"
	"github.com/phrazzld/taskpad/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	handler http.Handler
	tasks   *service.TaskStore
}

func newTestServer(t *testing.T, kv store.KVStore) *testServer {
	t.Helper()

	if kv == nil {
		kv = memkv.New()
	}
	log, _ := logger.NewTestLogger(t)

	tasks, err := service.NewTaskStore(kv,
		service.WithLogger(log),
		service.WithClock(func() time.Time { return fixedTime }))
	require.NoError(t, err)
	tasks.Initialize(context.Background())

	return &testServer{
		handler: NewRouter(RouterConfig{
			Tasks:         tasks,
			Logger:        log,
			ToastDuration: 2200 * time.Millisecond,
			Now:           func() time.Time { return fixedTime },
		}),
		tasks: tasks,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func TestAPI_CreateTask(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedErrMsg string
	}{
		{name: "valid", body: `{"text":"  buy milk "}`, expectedStatus: http.StatusCreated},
		{name: "blank text", body: `{"text":"   "}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: service.MsgEmptyText},
		{name: "missing text", body: `{}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: service.MsgEmptyText},
		{name: "malformed json", body: `{"text":`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "Invalid request format"},
		{name: "too long", body: `{"text":"` + strings.Repeat("x", 1001) + `"}`, expectedStatus: http.StatusBadRequest, expectedErrMsg: "Task text is too long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/api/tasks", tc.body)
			assert.Equal(t, tc.expectedStatus, w.Code)

			if tc.expectedErrMsg != "" {
				resp := decode[shared.ErrorResponse](t, w)
				assert.Equal(t, tc.expectedErrMsg, resp.Error)
				assert.NotEmpty(t, resp.TraceID)
				return
			}

			resp := decode[CreateTaskResponse](t, w)
			assert.Equal(t, "buy milk", resp.Task.Text)
			assert.False(t, resp.Task.Completed)
			assert.Equal(t, fixedTime, resp.Task.CreatedAt)
			assert.True(t, resp.Outcome.Changed)
			assert.Equal(t, service.MsgTaskAdded, resp.Outcome.Message)
		})
	}

	assert.Equal(t, 1, srv.tasks.Summary().Total)
}

func TestAPI_ListTasks(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()

	first, _, err := srv.tasks.Add(ctx, "first")
	require.NoError(t, err)
	_, _, err = srv.tasks.Add(ctx, "second")
	require.NoError(t, err)
	srv.tasks.Toggle(ctx, first.ID, true)

	tests := []struct {
		filter        string
		expectedTexts []string
	}{
		{filter: "", expectedTexts: []string{"second", "first"}},
		{filter: "active", expectedTexts: []string{"second"}},
		{filter: "completed", expectedTexts: []string{"first"}},
		{filter: "bogus", expectedTexts: []string{"second", "first"}},
	}

	for _, tc := range tests {
		t.Run("filter="+tc.filter, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, "/api/tasks?filter="+tc.filter, "")
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[TaskListResponse](t, w)
			texts := make([]string, 0, len(resp.Tasks))
			for _, task := range resp.Tasks {
				texts = append(texts, task.Text)
			}
			assert.Equal(t, tc.expectedTexts, texts)
			assert.Equal(t, SummaryResponse{Total: 2, Completed: 1, Active: 1, Text: "2 tasks, 1 completed"}, resp.Summary)
		})
	}
}

func TestAPI_EmptyListIsArray(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tasks":[]`)
	assert.Contains(t, w.Body.String(), `"filter":"all"`)
}

func TestAPI_UpdateTask(t *testing.T) {
	srv := newTestServer(t, nil)
	task, _, err := srv.tasks.Add(context.Background(), "walk dog")
	require.NoError(t, err)

	t.Run("complete", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"completed":true}`)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[OutcomeResponse](t, w)
		assert.Equal(t, service.MsgTaskCompleted, resp.Message)
		got, _ := srv.tasks.Get(task.ID)
		assert.True(t, got.Completed)
	})

	t.Run("explicit false is accepted", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{"completed":false}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, service.MsgTaskActive, decode[OutcomeResponse](t, w).Message)
	})

	t.Run("missing field", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/tasks/"+task.ID, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := srv.do(t, http.MethodPatch, "/api/tasks/nope", `{"completed":true}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		resp := decode[OutcomeResponse](t, w)
		assert.False(t, resp.Changed)
		assert.Equal(t, "noop", resp.Status)
		assert.Equal(t, service.MsgTaskNotFound, resp.Message)
	})
}

func TestAPI_GetAndDeleteTask(t *testing.T) {
	srv := newTestServer(t, nil)
	task, _, err := srv.tasks.Add(context.Background(), "temporary")
	require.NoError(t, err)

	w := srv.do(t, http.MethodGet, "/api/tasks/"+task.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, task.ShortID(), decode[TaskResponse](t, w).ShortID)

	w = srv.do(t, http.MethodDelete, "/api/tasks/"+task.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgTaskDeleted, decode[OutcomeResponse](t, w).Message)

	w = srv.do(t, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ClearOperations(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()

	w := srv.do(t, http.MethodPost, "/api/tasks/clear-completed", "")
	require.Equal(t, http.StatusOK, w.Code, "nothing to clear is not an error")
	resp := decode[OutcomeResponse](t, w)
	assert.False(t, resp.Changed)
	assert.Equal(t, service.MsgNoCompletedToClear, resp.Message)

	done, _, _ := srv.tasks.Add(ctx, "done")
	_, _, _ = srv.tasks.Add(ctx, "open")
	srv.tasks.Toggle(ctx, done.ID, true)

	w = srv.do(t, http.MethodPost, "/api/tasks/clear-completed", "")
	resp = decode[OutcomeResponse](t, w)
	assert.True(t, resp.Changed)
	assert.Equal(t, 1, resp.Count)

	w = srv.do(t, http.MethodDelete, "/api/tasks", "")
	resp = decode[OutcomeResponse](t, w)
	assert.True(t, resp.Changed)
	assert.Equal(t, service.MsgAllCleared, resp.Message)

	w = srv.do(t, http.MethodDelete, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgNoTasksToClear, decode[OutcomeResponse](t, w).Message)
}

func TestAPI_SummaryAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No tasks yet.", decode[SummaryResponse](t, w).Text)

	w = srv.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, HealthResponse{Status: "ok"}, decode[HealthResponse](t, w))
	assert.NotEmpty(t, w.Header().Get(shared.TraceIDHeader))
}

func TestPage_Index(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	_, _, err := srv.tasks.Add(ctx, `<script>alert("x")</script>`)
	require.NoError(t, err)

	w := srv.do(t, http.MethodGet, "/?filter=active&toast=Task+added", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.NotContains(t, body, `<script>alert("x")</script>`, "task text must be escaped")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "1 task, 0 completed")
	assert.Contains(t, body, `role="status" aria-live="polite">Task added</div>`)
	assert.Contains(t, body, "--toast-duration: 2.2s")
	assert.Contains(t, body, `<span id="year">2025</span>`)
	assert.Contains(t, body, `data-filter="active"`)
}

func TestPage_Forms(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.postForm(t, "/tasks", url.Values{"text": {"write report"}, "filter": {"active"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?filter=active&toast=Task+added", w.Header().Get("Location"))

	tasks := srv.tasks.Tasks(domain.FilterAll)
	require.Len(t, tasks, 1)
	id := tasks[0].ID

	w = srv.postForm(t, "/tasks", url.Values{"text": {"   "}})
	assert.Equal(t, "/?filter=all&toast=Enter+a+task+before+adding.", w.Header().Get("Location"))

	w = srv.postForm(t, "/tasks/"+id+"/toggle", url.Values{"completed": {"true"}})
	assert.Equal(t, "/?filter=all&toast=Task+completed", w.Header().Get("Location"))
	assert.Equal(t, 1, srv.tasks.Summary().Completed)

	w = srv.postForm(t, "/tasks/"+id+"/toggle", url.Values{"completed": {"maybe"}})
	assert.Equal(t, "/?filter=all&toast=Invalid+request", w.Header().Get("Location"))

	w = srv.postForm(t, "/tasks/clear-completed", url.Values{"filter": {"completed"}})
	assert.Equal(t, "/?filter=completed&toast=Completed+tasks+removed", w.Header().Get("Location"))

	w = srv.postForm(t, "/tasks/clear-all", nil)
	assert.Equal(t, "/?filter=all&toast=No+tasks+to+clear", w.Header().Get("Location"))

	w = srv.postForm(t, "/tasks/unknown/delete", nil)
	assert.Equal(t, "/?filter=all&toast=Task+not+found", w.Header().Get("Location"))
}

func TestPage_PersistenceWarningInToast(t *testing.T) {
	kv := mocks.NewMockKVStore(nil)
	kv.SetFn = func(context.Context, string, string) error {
		return store.ErrQuotaExceeded
	}
	srv := newTestServer(t, kv)

	w := srv.postForm(t, "/tasks", url.Values{"text": {"big"}})

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "Task added. Could not save tasks", loc.Query().Get("toast"))
	assert.Equal(t, 1, srv.tasks.Summary().Total, "the task is kept in memory")

	w = srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, 1, decode[HealthResponse](t, w).Warnings)
}

func TestPage_IndexDropsUnknownToast(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/?toast="+url.QueryEscape("Your account was suspended"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Your account was suspended")
	assert.NotContains(t, w.Body.String(), `id="toast"`)

	w = srv.do(t, http.MethodGet, "/?toast="+url.QueryEscape("Task added. Could not save tasks"), "")
	assert.Contains(t, w.Body.String(), `aria-live="polite">Task added. Could not save tasks</div>`)
}

func TestKnownToast(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{service.MsgTaskAdded, service.MsgTaskAdded},
		{service.MsgAllCleared + ". Could not save tasks", service.MsgAllCleared + ". Could not save tasks"},
		{msgInvalidRequest, msgInvalidRequest},
		{"", ""},
		{"Click here to win", ""},
		{"Click here. Could not save tasks", ""},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, knownToast(tt.msg))
		})
	}
}
