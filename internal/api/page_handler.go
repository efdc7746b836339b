package api

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/platform/logger"
	"github.com/phrazzld/taskpad/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageTitle is shown in the browser tab and as the page heading.
const pageTitle = "Task Manager"

// toastMessages are the only texts the page shows as a toast. The message
// travels in the redirect URL, so anything else is dropped.
var toastMessages = map[string]bool{
	service.MsgTaskAdded:          true,
	service.MsgEmptyText:          true,
	service.MsgTaskCompleted:      true,
	service.MsgTaskActive:         true,
	service.MsgTaskDeleted:        true,
	service.MsgTaskNotFound:       true,
	service.MsgNoCompletedToClear: true,
	service.MsgCompletedRemoved:   true,
	service.MsgNoTasksToClear:     true,
	service.MsgAllCleared:         true,
	msgInvalidRequest:             true,
	msgInvalidTaskData:            true,
	msgAmbiguousRef:               true,
	msgCouldNotAdd:                true,
	msgUnexpected:                 true,
}

// warningSuffixes are appended by mutate when a save or load failed.
var warningSuffixes = []string{
	". " + service.PersistenceWarning{Op: service.OpSave}.Message(),
	". " + service.PersistenceWarning{Op: service.OpLoad}.Message(),
}

// knownToast returns msg if it is a message the page itself produced, or "".
func knownToast(msg string) string {
	base := msg
	for _, suffix := range warningSuffixes {
		if trimmed, ok := strings.CutSuffix(msg, suffix); ok {
			base = trimmed
			break
		}
	}
	if !toastMessages[base] {
		return ""
	}
	return msg
}

// filterView is one filter button.
type filterView struct {
	Value  string
	Label  string
	Active bool
}

// pageData feeds templates/index.html.
type pageData struct {
	Title         string
	Filter        string
	Filters       []filterView
	Tasks         []domain.Task
	Summary       string
	HasTasks      bool
	HasCompleted  bool
	Toast         string
	ToastDuration string
	Year          int
}

// PageHandler serves the server-rendered task list. Every form post makes
// one store call and redirects back to the list with the outcome message.
type PageHandler struct {
	tasks         TaskService
	toastDuration time.Duration
	now           func() time.Time
}

// NewPageHandler creates a new PageHandler. A non-positive toastDuration
// falls back to 2.2s; a nil now uses time.Now.
func NewPageHandler(tasks TaskService, toastDuration time.Duration, now func() time.Time) *PageHandler {
	if toastDuration <= 0 {
		toastDuration = 2200 * time.Millisecond
	}
	if now == nil {
		now = time.Now
	}
	return &PageHandler{tasks: tasks, toastDuration: toastDuration, now: now}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ParseFilter(q.Get("filter"))
	summary := h.tasks.Summary()

	data := pageData{
		Title:         pageTitle,
		Filter:        filter.String(),
		Summary:       summary.String(),
		HasTasks:      summary.Total > 0,
		HasCompleted:  summary.Completed > 0,
		Toast:         knownToast(q.Get("toast")),
		ToastDuration: strconv.FormatFloat(h.toastDuration.Seconds(), 'f', -1, 64) + "s",
		Year:          h.now().Year(),
	}
	for _, f := range domain.Filters {
		data.Filters = append(data.Filters, filterView{Value: f.String(), Label: f.Label(), Active: f == filter})
	}
	for t := range h.tasks.List(filter) {
		data.Tasks = append(data.Tasks, t)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.FromContext(r.Context()).Error("failed to render page", "error", err)
	}
}

// AddTask handles POST /tasks
func (h *PageHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() string {
		_, outcome, err := h.tasks.Add(r.Context(), r.PostFormValue("text"))
		if err != nil && !domain.IsValidationError(err) {
			logger.FromContext(r.Context()).Error("failed to add task", "error", err)
			return GetSafeErrorMessage(err)
		}
		return outcome.Message
	})
}

// ToggleTask handles POST /tasks/{id}/toggle
func (h *PageHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	completed, err := strconv.ParseBool(r.PostFormValue("completed"))
	if err != nil {
		h.redirect(w, r, msgInvalidRequest)
		return
	}
	h.mutate(w, r, func() string {
		return h.tasks.Toggle(r.Context(), chi.URLParam(r, "id"), completed).Message
	})
}

// DeleteTask handles POST /tasks/{id}/delete
func (h *PageHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() string {
		return h.tasks.Delete(r.Context(), chi.URLParam(r, "id")).Message
	})
}

// ClearCompleted handles POST /tasks/clear-completed
func (h *PageHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() string {
		return h.tasks.ClearCompleted(r.Context()).Message
	})
}

// ClearAll handles POST /tasks/clear-all
func (h *PageHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func() string {
		return h.tasks.ClearAll(r.Context()).Message
	})
}

// mutate runs op and redirects with its message. A persistence warning raised
// during op is appended so the user knows the change may not survive a restart.
func (h *PageHandler) mutate(w http.ResponseWriter, r *http.Request, op func() string) {
	before := len(h.tasks.Warnings())
	msg := op()

	if warnings := h.tasks.Warnings(); len(warnings) > before {
		msg = msg + ". " + warnings[len(warnings)-1].Message()
	}
	h.redirect(w, r, msg)
}

// redirect sends the browser back to the list, keeping the current filter.
func (h *PageHandler) redirect(w http.ResponseWriter, r *http.Request, toast string) {
	q := url.Values{}
	q.Set("filter", domain.ParseFilter(r.PostFormValue("filter")).String())
	if toast != "" {
		q.Set("toast", toast)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
