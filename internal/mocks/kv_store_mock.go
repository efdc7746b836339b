package mocks

import (
	"context"

	"github.com/phrazzld/taskpad/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockKVStore is a mock of store.KVStore interface for use with testify/mock
type TestifyMockKVStore struct {
	mock.Mock
}

var _ store.KVStore = (*TestifyMockKVStore)(nil)

// Get mocks the Get method
func (m *TestifyMockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set mocks the Set method
func (m *TestifyMockKVStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *TestifyMockKVStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
