package domain

import (
	"strings"
	"time"
)

// Task is a single to-do item. ID, Text and CreatedAt are fixed at creation;
// only Completed changes afterwards.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTask creates an active Task from raw user input.
// The text is trimmed; whitespace-only input is rejected with a ValidationError.
func NewTask(id, rawText string, now time.Time) (Task, error) {
	task := Task{
		ID:        id,
		Text:      strings.TrimSpace(rawText),
		Completed: false,
		CreatedAt: now.UTC(),
	}

	if err := task.Validate(); err != nil {
		return Task{}, err
	}

	return task, nil
}

// Validate checks the invariants every stored Task must satisfy.
func (t Task) Validate() error {
	if t.ID == "" {
		return NewValidationError("id", ErrEmptyTaskID)
	}

	if strings.TrimSpace(t.Text) == "" {
		return NewValidationError("text", ErrEmptyTaskText)
	}

	return nil
}

// ShortID returns the first eight characters of the ID for display.
func (t Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}
