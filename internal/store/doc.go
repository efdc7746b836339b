// Package store defines the key-value persistence boundary used by the task
// list. The interface abstracts the underlying storage mechanism (an
// in-memory map, a SQL table) from the application's core logic, which only
// ever reads and overwrites whole values under a fixed key.
package store
