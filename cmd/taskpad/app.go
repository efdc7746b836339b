package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/taskpad/internal/config"
	"github.com/phrazzld/taskpad/internal/events"
	"github.com/phrazzld/taskpad/internal/platform/logger"
	"github.com/phrazzld/taskpad/internal/platform/memkv"
	"github.com/phrazzld/taskpad/internal/platform/sqlkv"
	"github.com/phrazzld/taskpad/internal/service"
	"github.com/phrazzld/taskpad/internal/store"
)

var (
	errLoadConfig  = errors.New("failed to load configuration")
	errOpenStorage = errors.New("failed to open storage")
)

// kvBackend is a KVStore that owns resources released at shutdown.
type kvBackend interface {
	store.KVStore
	io.Closer
}

// application holds the shared dependencies of every command and ensures
// they are released on exit.
type application struct {
	config *config.Config
	logger *slog.Logger

	kv      kvBackend
	emitter *events.InMemoryEventEmitter
	tasks   *service.TaskStore
}

// newApplication loads configuration, sets up logging and opens the
// configured storage. Logs are written to logOutput.
func newApplication(ctx context.Context, configPath string, logOutput io.Writer) (*application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errLoadConfig, err)
	}

	log, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel, Output: logOutput})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	kv, err := openKV(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:  cfg,
		logger:  log,
		kv:      kv,
		emitter: events.NewInMemoryEventEmitter(log),
	}
	app.emitter.RegisterHandler(events.HandlerFunc(app.logOutcome))

	app.tasks, err = service.NewTaskStore(kv,
		service.WithLogger(log),
		service.WithStorageKey(cfg.Storage.Key),
		service.WithEventEmitter(app.emitter),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task store: %w", err)
	}
	app.tasks.Initialize(ctx)

	log.Debug("application initialized",
		"driver", cfg.Storage.Driver,
		"storage_key", cfg.Storage.Key)
	return app, nil
}

// openKV opens the backend selected by cfg.Driver.
func openKV(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (kvBackend, error) {
	if cfg.Driver == "memory" {
		return memkv.New(memkv.WithLogger(log)), nil
	}

	kv, err := sqlkv.Open(ctx, cfg.Driver, cfg.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errOpenStorage, err)
	}
	return kv, nil
}

// logOutcome records every store outcome at debug level.
func (app *application) logOutcome(ctx context.Context, ev *events.Event) error {
	if ev.Type != events.TypeTaskOutcome {
		return nil
	}

	var payload struct {
		Status string `json:"status"`
		TaskID string `json:"task_id"`
		Count  int    `json:"count"`
	}
	if err := ev.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal outcome payload: %w", err)
	}

	logger.FromContextOrDefault(ctx, app.logger).Debug("task store outcome",
		"message", ev.Message,
		"status", payload.Status,
		"task_id", payload.TaskID,
		"count", payload.Count)
	return nil
}

// cleanup releases the storage backend.
func (app *application) cleanup() {
	if app.kv == nil {
		return
	}
	if err := app.kv.Close(); err != nil {
		app.logger.Error("error closing storage", "error", err)
	}
	app.kv = nil
}
