package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskpad/internal/redact"
	"github.com/phrazzld/taskpad/internal/store"
	_ "modernc.org/sqlite" // sqlite driver
)

// pingTimeout bounds the connectivity check performed by Open.
const pingTimeout = 5 * time.Second

// Store implements store.KVStore using a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
	closed  atomic.Bool
	now     func() time.Time
}

var _ store.KVStore = (*Store)(nil)

// Open connects to the database identified by driver and dsn, verifies the
// connection and applies pending migrations.
// If logger is nil, a default logger will be used.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	d, ok := lookupDialect(driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "sqlkv"), slog.String("driver", d.name))

	db, err := sql.Open(d.sqlDriver, dsn)
	if err != nil {
		logger.Error("failed to open database", "error", redact.Error(err))
		return nil, fmt.Errorf("failed to open %s database: %w", d.name, err)
	}

	if d.maxOpenConns > 0 {
		db.SetMaxOpenConns(d.maxOpenConns)
	}

	s, err := newStore(ctx, db, d, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func newStore(ctx context.Context, db *sql.DB, d dialect, logger *slog.Logger) (*Store, error) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		mapped := d.mapError(err)
		logger.Error("database ping failed", "error", redact.Error(mapped))
		return nil, store.NewStoreError("kv_item", "open", "database unreachable", mapped)
	}

	s := &Store{db: db, dialect: d, logger: logger, now: time.Now}

	if _, err := s.Migrate(ctx); err != nil {
		return nil, err
	}

	logger.Debug("sql kv store ready")
	return s, nil
}

// Get implements store.KVStore.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.check("get", key); err != nil {
		return "", false, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.getSQL, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, s.fail(ctx, "get", key, err)
	}
	return value, true, nil
}

// Set implements store.KVStore.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.check("set", key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.upsertSQL, key, value, s.now().UTC()); err != nil {
		return s.fail(ctx, "set", key, err)
	}
	return nil
}

// Delete implements store.KVStore.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check("delete", key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.deleteSQL, key); err != nil {
		return s.fail(ctx, "delete", key, err)
	}
	return nil
}

// DB exposes the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string {
	return s.dialect.name
}

// Close releases the connection pool. Later operations fail with
// store.ErrUnavailable.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) check(op, key string) error {
	if s.closed.Load() {
		return store.NewStoreError("kv_item", op, "store closed", store.ErrUnavailable)
	}
	return store.ValidateKey(key)
}

func (s *Store) fail(ctx context.Context, op, key string, err error) error {
	mapped := s.dialect.mapError(err)
	s.logger.ErrorContext(ctx, "kv operation failed",
		"op", op,
		"key", key,
		"error", redact.Error(mapped))
	return store.NewStoreError("kv_item", op, "database error", mapped)
}
