// Package service provides the task list controller: the TaskStore that owns
// the ordered task collection, enforces its invariants, mediates every
// mutation and keeps persisted state in step with memory.
package service
