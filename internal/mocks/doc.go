// Package mocks provides test doubles for the collaborators of the task
// store.
//
// Two styles are offered. MockKVStore uses function fields so a test can
// inject a failure for a single operation while the rest behave like an
// in-memory map. TestifyMockKVStore embeds mock.Mock for tests that need to
// assert exact call counts and arguments.
package mocks
