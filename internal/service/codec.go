package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/taskpad/internal/domain"
)

// isoTimeLayout matches the ISO-8601 form with millisecond precision and a
// literal Z suffix for UTC.
const isoTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// taskRecord is the persisted shape of a Task.
type taskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// encodeTasks serializes the collection in order.
func encodeTasks(tasks []domain.Task) (string, error) {
	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = taskRecord{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UTC().Format(isoTimeLayout),
		}
	}

	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(b), nil
}

// decodeTasks parses a persisted value.
// It fails only when the value is not a JSON array. Individual records that
// cannot be decoded or that break a Task invariant (empty ID or text,
// duplicate ID) are skipped and counted in dropped.
func decodeTasks(raw string) (tasks []domain.Task, dropped int, err error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	// JSON null decodes into a nil slice without error.
	if items == nil {
		return nil, 0, fmt.Errorf("%w: value is not an array", ErrCorruptData)
	}

	tasks = make([]domain.Task, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		var rec taskRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			dropped++
			continue
		}

		task := domain.Task{
			ID:        rec.ID,
			Text:      strings.TrimSpace(rec.Text),
			Completed: rec.Completed,
			CreatedAt: parseCreatedAt(rec.CreatedAt),
		}
		if task.Validate() != nil {
			dropped++
			continue
		}
		if _, dup := seen[task.ID]; dup {
			dropped++
			continue
		}

		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}

	return tasks, dropped, nil
}

// parseCreatedAt accepts any RFC 3339 timestamp; anything else yields the zero time.
func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
