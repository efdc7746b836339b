package service

import (
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/taskpad/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestPersistenceWarning(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save", func(t *testing.T) {
		w := PersistenceWarning{Op: OpSave, Key: DefaultStorageKey, Err: store.ErrQuotaExceeded, At: at}

		assert.Equal(t,
			`could not save tasks under "getting-started-task-manager-v1": storage quota exceeded`,
			w.Error())
		assert.Equal(t, "Could not save tasks", w.Message())
		assert.True(t, errors.Is(w, store.ErrQuotaExceeded))
		assert.True(t, store.IsQuotaError(w))
	})

	t.Run("load", func(t *testing.T) {
		w := PersistenceWarning{Op: OpLoad, Key: "k", Err: ErrCorruptData, At: at}

		assert.Equal(t, "Could not load tasks", w.Message())
		assert.True(t, errors.Is(w, ErrCorruptData))
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "noop", StatusNoOp.String())
	assert.Equal(t, "changed", StatusChanged.String())

	o := changed(MsgTaskDeleted, "abc", 1)
	assert.True(t, o.Changed())
	assert.Equal(t, "abc", o.TaskID)
	assert.Equal(t, 1, o.Count)

	n := noop(MsgTaskNotFound, "abc")
	assert.False(t, n.Changed())
	assert.Zero(t, n.Count)
}
