// Package memkv provides a process-local store.KVStore backed by a map.
//
// It is used for the "memory" storage driver and in tests. A quota can be
// configured to emulate backends that refuse writes once they are full.
package memkv

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskpad/internal/store"
)

// Store is a mutex-guarded in-memory KVStore.
type Store struct {
	mu     sync.RWMutex
	data   map[string]string
	quota  int
	closed bool
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithQuota limits the total size in bytes of all keys and values.
// A quota of zero or less means unlimited.
func WithQuota(bytes int) Option {
	return func(s *Store) {
		s.quota = bytes
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		data:   make(map[string]string),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "memkv"))
	return s
}

var _ store.KVStore = (*Store)(nil)

// Get implements store.KVStore.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if err := store.ValidateKey(key); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, store.NewStoreError("kv_item", "get", "store closed", store.ErrUnavailable)
	}

	v, ok := s.data[key]
	return v, ok, nil
}

// Set implements store.KVStore.
// The previous value is kept when the write would exceed the quota.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.NewStoreError("kv_item", "set", "store closed", store.ErrUnavailable)
	}

	if s.quota > 0 {
		size := s.sizeLocked()
		if old, ok := s.data[key]; ok {
			size -= len(key) + len(old)
		}
		size += len(key) + len(value)
		if size > s.quota {
			s.logger.DebugContext(ctx, "write rejected by quota",
				slog.Int("size", size),
				slog.Int("quota", s.quota))
			return store.NewStoreError("kv_item", "set", "value does not fit", store.ErrQuotaExceeded)
		}
	}

	s.data[key] = value
	return nil
}

// Delete implements store.KVStore.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.NewStoreError("kv_item", "delete", "store closed", store.ErrUnavailable)
	}

	delete(s.data, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close makes every later operation fail with store.ErrUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) sizeLocked() int {
	n := 0
	for k, v := range s.data {
		n += len(k) + len(v)
	}
	return n
}
