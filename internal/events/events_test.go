package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type warningPayload struct {
		Op  string `json:"op"`
		Key string `json:"key"`
	}

	payload := warningPayload{Op: "save", Key: "tasks-v1"}

	event, err := NewEvent(TypeStorageWarning, "Could not save tasks", payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeStorageWarning, event.Type)
	assert.Equal(t, "Could not save tasks", event.Message)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded warningPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEventWithoutPayload(t *testing.T) {
	event, err := NewEvent(TypeTaskOutcome, "Task added", nil)

	require.NoError(t, err)
	assert.Empty(t, event.Payload)
}

func TestNewEventUnmarshalablePayload(t *testing.T) {
	_, err := NewEvent(TypeTaskOutcome, "bad", make(chan int))
	assert.Error(t, err)
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	h := HandlerFunc(func(_ context.Context, ev *Event) error {
		got = ev
		return nil
	})

	event, err := NewEvent(TypeTaskOutcome, "Task deleted", nil)
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}
