package service

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/events"
	"github.com/phrazzld/taskpad/internal/platform/logger"
	"github.com/phrazzld/taskpad/internal/redact"
	"github.com/phrazzld/taskpad/internal/store"
)

// DefaultStorageKey is the versioned key the task collection is saved under.
const DefaultStorageKey = "getting-started-task-manager-v1"

// maxIDAttempts bounds how often Add re-draws an ID that is already taken.
const maxIDAttempts = 8

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithLogger sets the logger used for persistence warnings and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *TaskStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used for CreatedAt and warning timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the default random UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *TaskStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(s *TaskStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithEventEmitter publishes outcomes and persistence warnings to emitter.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(s *TaskStore) {
		s.emitter = emitter
	}
}

// TaskStore is the sole owner and mutator of the task collection.
// Tasks are kept newest first. Every operation that changes the collection
// writes the whole collection to the KVStore exactly once before returning.
// A TaskStore is safe for concurrent use; each operation is atomic.
type TaskStore struct {
	mu          sync.Mutex
	kv          store.KVStore
	key         string
	tasks       []domain.Task
	initialized bool
	warnings    []PersistenceWarning
	pending     []*events.Event

	now     func() time.Time
	newID   func() string
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTaskStore creates an uninitialized TaskStore backed by kv.
// Call Initialize to load persisted state; mutating operations on an
// uninitialized store load it first so existing data is never overwritten.
func NewTaskStore(kv store.KVStore, opts ...Option) (*TaskStore, error) {
	if kv == nil {
		return nil, ErrNilKVStore
	}

	s := &TaskStore{
		kv:     kv,
		key:    DefaultStorageKey,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := store.ValidateKey(s.key); err != nil {
		return nil, err
	}

	s.logger = s.logger.With("component", "task_store", "storage_key", s.key)
	return s, nil
}

// Initialize replaces the in-memory collection with the persisted one.
// A missing value yields an empty collection. Unreadable or malformed data
// also yields an empty collection and records a PersistenceWarning; it is
// never reported as an error.
func (s *TaskStore) Initialize(ctx context.Context) {
	s.do(ctx, func() {
		s.loadLocked(ctx)
	})
}

// Initialized reports whether persisted state has been loaded.
func (s *TaskStore) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Add creates a task from rawText and puts it at the front of the collection.
// Whitespace-only input fails with a *domain.ValidationError and changes nothing.
func (s *TaskStore) Add(ctx context.Context, rawText string) (domain.Task, Outcome, error) {
	var (
		task    domain.Task
		outcome Outcome
		err     error
	)

	s.do(ctx, func() {
		if strings.TrimSpace(rawText) == "" {
			err = domain.NewValidationError("text", domain.ErrEmptyTaskText)
			outcome = noop(MsgEmptyText, "")
			s.notifyLocked(outcome)
			return
		}

		s.ensureLoadedLocked(ctx)

		var id string
		id, err = s.uniqueIDLocked()
		if err != nil {
			outcome = noop("Could not add task", "")
			return
		}

		task, err = domain.NewTask(id, rawText, s.now())
		if err != nil {
			outcome = noop(MsgEmptyText, "")
			return
		}

		s.tasks = slices.Insert(s.tasks, 0, task)
		s.persistLocked(ctx)

		outcome = changed(MsgTaskAdded, task.ID, 1)
		s.notifyLocked(outcome)
	})

	return task, outcome, err
}

// Toggle sets the completed flag of the task with the given ID.
// Setting the current value again is allowed and still saves. An unknown ID
// is a no-op: the caller may hold a stale reference.
func (s *TaskStore) Toggle(ctx context.Context, id string, completed bool) Outcome {
	var outcome Outcome

	s.do(ctx, func() {
		s.ensureLoadedLocked(ctx)

		idx := s.indexLocked(id)
		if idx < 0 {
			outcome = noop(MsgTaskNotFound, id)
			s.notifyLocked(outcome)
			return
		}

		s.tasks[idx].Completed = completed
		s.persistLocked(ctx)

		msg := MsgTaskActive
		if completed {
			msg = MsgTaskCompleted
		}
		outcome = changed(msg, id, 1)
		s.notifyLocked(outcome)
	})

	return outcome
}

// Delete removes the task with the given ID. An unknown ID is a no-op.
func (s *TaskStore) Delete(ctx context.Context, id string) Outcome {
	var outcome Outcome

	s.do(ctx, func() {
		s.ensureLoadedLocked(ctx)

		idx := s.indexLocked(id)
		if idx < 0 {
			outcome = noop(MsgTaskNotFound, id)
			s.notifyLocked(outcome)
			return
		}

		s.tasks = slices.Delete(s.tasks, idx, idx+1)
		s.persistLocked(ctx)

		outcome = changed(MsgTaskDeleted, id, 1)
		s.notifyLocked(outcome)
	})

	return outcome
}

// ClearCompleted removes every completed task.
// When nothing is completed it reports a no-op and does not save.
func (s *TaskStore) ClearCompleted(ctx context.Context) Outcome {
	var outcome Outcome

	s.do(ctx, func() {
		s.ensureLoadedLocked(ctx)

		before := len(s.tasks)
		remaining := slices.DeleteFunc(slices.Clone(s.tasks), func(t domain.Task) bool {
			return t.Completed
		})
		removed := before - len(remaining)

		if removed == 0 {
			outcome = noop(MsgNoCompletedToClear, "")
			s.notifyLocked(outcome)
			return
		}

		s.tasks = remaining
		s.persistLocked(ctx)

		outcome = changed(MsgCompletedRemoved, "", removed)
		s.notifyLocked(outcome)
	})

	return outcome
}

// ClearAll empties the collection.
// When it is already empty it reports a no-op and does not save.
func (s *TaskStore) ClearAll(ctx context.Context) Outcome {
	var outcome Outcome

	s.do(ctx, func() {
		s.ensureLoadedLocked(ctx)

		removed := len(s.tasks)
		if removed == 0 {
			outcome = noop(MsgNoTasksToClear, "")
			s.notifyLocked(outcome)
			return
		}

		s.tasks = nil
		s.persistLocked(ctx)

		outcome = changed(MsgAllCleared, "", removed)
		s.notifyLocked(outcome)
	})

	return outcome
}

// List returns the tasks matching filter in collection order.
// The sequence reads a snapshot taken when List is called; ranging over it
// again restarts from the beginning of that snapshot.
func (s *TaskStore) List(filter domain.Filter) iter.Seq[domain.Task] {
	s.mu.Lock()
	snapshot := slices.Clone(s.tasks)
	s.mu.Unlock()

	return func(yield func(domain.Task) bool) {
		for _, t := range snapshot {
			if !filter.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Tasks collects List(filter) into a slice.
func (s *TaskStore) Tasks(filter domain.Filter) []domain.Task {
	return slices.Collect(s.List(filter))
}

// Summary returns the live task counts.
func (s *TaskStore) Summary() domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := domain.Summary{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			summary.Completed++
		}
	}
	return summary
}

// Get returns the task with the given ID.
func (s *TaskStore) Get(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Task{}, false
	}
	return s.tasks[idx], true
}

// Resolve turns a user-supplied reference into a task ID.
// A reference is a full ID, a 1-based position in List(FilterAll), or an ID
// prefix that matches exactly one task.
func (s *TaskStore) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrTaskRefNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(ref) >= 0 {
		return ref, nil
	}

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.tasks) {
		return s.tasks[n-1].ID, nil
	}

	var match string
	for _, t := range s.tasks {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%w: %q", ErrAmbiguousTaskRef, ref)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrTaskRefNotFound, ref)
	}
	return match, nil
}

// Warnings returns the persistence warnings recorded so far, oldest first.
func (s *TaskStore) Warnings() []PersistenceWarning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.warnings)
}

// do runs fn under the store lock, then publishes the events fn queued.
// Events are dispatched after unlocking so handlers may call back into the store.
func (s *TaskStore) do(ctx context.Context, fn func()) {
	s.mu.Lock()
	fn()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	s.dispatch(ctx, pending)
}

func (s *TaskStore) dispatch(ctx context.Context, pending []*events.Event) {
	if s.emitter == nil {
		return
	}
	for _, ev := range pending {
		if err := s.emitter.EmitEvent(ctx, ev); err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Debug("event handler failed",
				"event_type", ev.Type,
				"error", err)
		}
	}
}

func (s *TaskStore) ensureLoadedLocked(ctx context.Context) {
	if !s.initialized {
		s.loadLocked(ctx)
	}
}

func (s *TaskStore) loadLocked(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.tasks = nil
	s.initialized = true

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.warnLocked(ctx, OpLoad, err)
		return
	}
	if !ok || raw == "" {
		log.Debug("no persisted tasks, starting empty")
		return
	}

	tasks, dropped, err := decodeTasks(raw)
	if err != nil {
		s.warnLocked(ctx, OpLoad, err)
		return
	}
	if dropped > 0 {
		s.warnLocked(ctx, OpLoad, fmt.Errorf("%w: dropped %d of %d records", ErrInvalidRecord, dropped, dropped+len(tasks)))
	}

	s.tasks = tasks
	log.Debug("loaded persisted tasks", "task_count", len(tasks))
}

func (s *TaskStore) persistLocked(ctx context.Context) {
	value, err := encodeTasks(s.tasks)
	if err != nil {
		s.warnLocked(ctx, OpSave, err)
		return
	}

	if err := s.kv.Set(ctx, s.key, value); err != nil {
		s.warnLocked(ctx, OpSave, err)
		return
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("saved tasks", "task_count", len(s.tasks))
}

func (s *TaskStore) warnLocked(ctx context.Context, op PersistenceOp, err error) {
	w := PersistenceWarning{Op: op, Key: s.key, Err: err, At: s.now().UTC()}
	s.warnings = append(s.warnings, w)

	logger.FromContextOrDefault(ctx, s.logger).Warn(strings.ToLower(w.Message()),
		"op", string(op),
		"error", redact.Error(err))

	s.queueLocked(events.TypeStorageWarning, w.Message(), map[string]string{
		"op":    string(op),
		"key":   s.key,
		"error": redact.Error(err),
	})
}

func (s *TaskStore) notifyLocked(o Outcome) {
	s.queueLocked(events.TypeTaskOutcome, o.Message, map[string]interface{}{
		"status":  o.Status.String(),
		"task_id": o.TaskID,
		"count":   o.Count,
	})
}

func (s *TaskStore) queueLocked(eventType, message string, payload interface{}) {
	if s.emitter == nil {
		return
	}
	ev, err := events.NewEvent(eventType, message, payload)
	if err != nil {
		s.logger.Error("failed to build event", "event_type", eventType, "error", err)
		return
	}
	s.pending = append(s.pending, ev)
}

func (s *TaskStore) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

func (s *TaskStore) uniqueIDLocked() (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if id != "" && s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}
