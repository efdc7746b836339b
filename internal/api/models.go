package api

import (
	"time"

	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/service"
)

// CreateTaskRequest is the body of POST /api/tasks.
// Blank text is rejected by the store, not the validator, so the rejection
// is reported like any other outcome.
type CreateTaskRequest struct {
	Text string `json:"text" validate:"max=1000"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/{id}.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// TaskResponse is the JSON form of a task.
type TaskResponse struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"short_id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryResponse is the JSON form of the task counts.
type SummaryResponse struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Active    int    `json:"active"`
	Text      string `json:"text"`
}

// OutcomeResponse reports what an operation did.
type OutcomeResponse struct {
	Changed bool   `json:"changed"`
	Status  string `json:"status"`
	Message string `json:"message"`
	TaskID  string `json:"task_id,omitempty"`
	Count   int    `json:"count"`
}

// TaskListResponse is returned by GET /api/tasks.
type TaskListResponse struct {
	Filter  string          `json:"filter"`
	Tasks   []TaskResponse  `json:"tasks"`
	Summary SummaryResponse `json:"summary"`
}

// CreateTaskResponse is returned by POST /api/tasks.
type CreateTaskResponse struct {
	Task    TaskResponse    `json:"task"`
	Outcome OutcomeResponse `json:"outcome"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Warnings int    `json:"persistence_warnings"`
}

func taskToResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		ShortID:   t.ShortID(),
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
}

func summaryToResponse(s domain.Summary) SummaryResponse {
	return SummaryResponse{
		Total:     s.Total,
		Completed: s.Completed,
		Active:    s.Active(),
		Text:      s.String(),
	}
}

func outcomeToResponse(o service.Outcome) OutcomeResponse {
	return OutcomeResponse{
		Changed: o.Changed(),
		Status:  o.Status.String(),
		Message: o.Message,
		TaskID:  o.TaskID,
		Count:   o.Count,
	}
}
