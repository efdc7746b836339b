// Package events provides the side-channel through which the task store
// reports what happened without coupling to any presentation layer.
//
// The store emits two kinds of events:
// - task.outcome: the short human-readable result of an operation ("Task added")
// - storage.warning: a persistence read or write that failed and was absorbed
//
// Adapters register handlers to display outcomes; tests use a Recorder to
// assert that a warning was raised without inspecting log output.
package events
