package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 14, 30, 0, 0, time.FixedZone("CEST", 2*60*60))

	t.Run("trims text and starts active", func(t *testing.T) {
		t.Parallel()
		task, err := NewTask("abc123", "  buy milk \n", now)
		require.NoError(t, err)

		assert.Equal(t, "abc123", task.ID)
		assert.Equal(t, "buy milk", task.Text)
		assert.False(t, task.Completed)
		assert.Equal(t, time.UTC, task.CreatedAt.Location())
		assert.True(t, task.CreatedAt.Equal(now))
	})

	t.Run("rejects whitespace-only text", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask("abc123", " \t\n ", now)
		require.Error(t, err)

		assert.True(t, errors.Is(err, ErrValidation))
		assert.True(t, errors.Is(err, ErrEmptyTaskText))
		assert.True(t, IsValidationError(err))

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "text", vErr.Field)
	})

	t.Run("rejects empty id", func(t *testing.T) {
		t.Parallel()
		_, err := NewTask("", "buy milk", now)
		assert.ErrorIs(t, err, ErrEmptyTaskID)
	})
}

func TestTaskShortID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0f8fad5b", Task{ID: "0f8fad5b-d9cb-469f-a165-70867728950e"}.ShortID())
	assert.Equal(t, "abc", Task{ID: "abc"}.ShortID())
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want Filter
	}{
		{"all", FilterAll},
		{"active", FilterActive},
		{"completed", FilterCompleted},
		{" Completed ", FilterCompleted},
		{"ACTIVE", FilterActive},
		{"", FilterAll},
		{"done", FilterAll},
		{"<script>", FilterAll},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseFilter(tc.in))
		})
	}
}

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	active := Task{ID: "a", Text: "a"}
	done := Task{ID: "b", Text: "b", Completed: true}

	assert.True(t, FilterAll.Match(active))
	assert.True(t, FilterAll.Match(done))
	assert.True(t, FilterActive.Match(active))
	assert.False(t, FilterActive.Match(done))
	assert.False(t, FilterCompleted.Match(active))
	assert.True(t, FilterCompleted.Match(done))
}

func TestSummaryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No tasks yet.", Summary{}.String())
	assert.Equal(t, "1 task, 0 completed", Summary{Total: 1}.String())
	assert.Equal(t, "3 tasks, 2 completed", Summary{Total: 3, Completed: 2}.String())
	assert.Equal(t, 1, Summary{Total: 3, Completed: 2}.Active())
}
