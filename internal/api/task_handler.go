package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskpad/internal/api/shared"
	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/platform/logger"
)

// TaskHandler serves the JSON API under /api.
type TaskHandler struct {
	tasks TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// ListTasks handles GET /api/tasks?filter=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParseFilter(r.URL.Query().Get("filter"))

	resp := TaskListResponse{
		Filter:  filter.String(),
		Tasks:   []TaskResponse{},
		Summary: summaryToResponse(h.tasks.Summary()),
	}
	for t := range h.tasks.List(filter) {
		resp.Tasks = append(resp.Tasks, taskToResponse(t))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetTask handles GET /api/tasks/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.tasks.Get(chi.URLParam(r, "id"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Task text is too long")
		return
	}

	task, outcome, err := h.tasks.Add(r.Context(), req.Text)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	logger.FromContext(r.Context()).Debug("task created", "task_id", task.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		Task:    taskToResponse(task),
		Outcome: outcomeToResponse(outcome),
	})
}

// UpdateTask handles PATCH /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Field 'completed' is required")
		return
	}

	outcome := h.tasks.Toggle(r.Context(), chi.URLParam(r, "id"), *req.Completed)
	h.respondWithOutcome(w, r, outcome.Changed(), outcomeToResponse(outcome))
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	outcome := h.tasks.Delete(r.Context(), chi.URLParam(r, "id"))
	h.respondWithOutcome(w, r, outcome.Changed(), outcomeToResponse(outcome))
}

// ClearCompleted handles POST /api/tasks/clear-completed.
// Nothing to clear is a normal outcome, not an error.
func (h *TaskHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	outcome := h.tasks.ClearCompleted(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, outcomeToResponse(outcome))
}

// ClearAll handles DELETE /api/tasks
func (h *TaskHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	outcome := h.tasks.ClearAll(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, outcomeToResponse(outcome))
}

// GetSummary handles GET /api/summary
func (h *TaskHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(h.tasks.Summary()))
}

// Health handles GET /health
func (h *TaskHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:   "ok",
		Warnings: len(h.tasks.Warnings()),
	})
}

// respondWithOutcome answers single-task operations: an unknown ID is a 404
// carrying the outcome so clients can show its message.
func (h *TaskHandler) respondWithOutcome(w http.ResponseWriter, r *http.Request, found bool, resp OutcomeResponse) {
	status := http.StatusOK
	if !found {
		status = http.StatusNotFound
	}
	shared.RespondWithJSON(w, r, status, resp)
}
