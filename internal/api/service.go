package api

import (
	"context"
	"iter"

	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/service"
)

// TaskService is the part of *service.TaskStore the handlers use.
type TaskService interface {
	Add(ctx context.Context, rawText string) (domain.Task, service.Outcome, error)
	Toggle(ctx context.Context, id string, completed bool) service.Outcome
	Delete(ctx context.Context, id string) service.Outcome
	ClearCompleted(ctx context.Context) service.Outcome
	ClearAll(ctx context.Context) service.Outcome
	List(filter domain.Filter) iter.Seq[domain.Task]
	Summary() domain.Summary
	Get(id string) (domain.Task, bool)
	Warnings() []service.PersistenceWarning
}

var _ TaskService = (*service.TaskStore)(nil)
