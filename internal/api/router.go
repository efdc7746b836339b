package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/taskpad/internal/api/middleware"
)

// RouterConfig holds the dependencies of NewRouter.
type RouterConfig struct {
	Tasks         TaskService
	Logger        *slog.Logger
	ToastDuration time.Duration
	// Now is used for the footer year; nil means time.Now.
	Now func() time.Time
}

// NewRouter creates and configures the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(cfg.Logger))
	r.Use(apiMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)

	pages := NewPageHandler(cfg.Tasks, cfg.ToastDuration, cfg.Now)
	tasks := NewTaskHandler(cfg.Tasks)

	r.Get("/", pages.Index)
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", pages.AddTask)
		r.Post("/clear-completed", pages.ClearCompleted)
		r.Post("/clear-all", pages.ClearAll)
		r.Post("/{id}/toggle", pages.ToggleTask)
		r.Post("/{id}/delete", pages.DeleteTask)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", tasks.ListTasks)
		r.Post("/tasks", tasks.CreateTask)
		r.Delete("/tasks", tasks.ClearAll)
		r.Post("/tasks/clear-completed", tasks.ClearCompleted)
		r.Get("/tasks/{id}", tasks.GetTask)
		r.Patch("/tasks/{id}", tasks.UpdateTask)
		r.Delete("/tasks/{id}", tasks.DeleteTask)
		r.Get("/summary", tasks.GetSummary)
	})

	r.Get("/health", tasks.Health)

	return r
}
