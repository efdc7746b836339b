package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskpad/internal/store"
)

// MockKVStore implements store.KVStore for testing.
//
// Operations without a custom function fall back to an internal map, so the
// zero value is a working empty store.
type MockKVStore struct {
	// GetFn allows test cases to mock the Get behavior
	GetFn func(ctx context.Context, key string) (string, bool, error)

	// SetFn allows test cases to mock the Set behavior
	SetFn func(ctx context.Context, key, value string) error

	// DeleteFn allows test cases to mock the Delete behavior
	DeleteFn func(ctx context.Context, key string) error

	mu       sync.Mutex
	data     map[string]string
	getCalls int
	setCalls int
}

var _ store.KVStore = (*MockKVStore)(nil)

// NewMockKVStore returns a MockKVStore seeded with the given entries.
func NewMockKVStore(seed map[string]string) *MockKVStore {
	m := &MockKVStore{data: make(map[string]string, len(seed))}
	for k, v := range seed {
		m.data[k] = v
	}
	return m
}

// Get implements the store.KVStore interface
func (m *MockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	m.getCalls++
	fn := m.GetFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements the store.KVStore interface
func (m *MockKVStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	m.setCalls++
	fn := m.SetFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key, value)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

// Delete implements the store.KVStore interface
func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	fn := m.DeleteFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Value returns the raw value stored under key by the fallback map.
func (m *MockKVStore) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// GetCalls reports how many times Get was invoked.
func (m *MockKVStore) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

// SetCalls reports how many times Set was invoked.
func (m *MockKVStore) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}
