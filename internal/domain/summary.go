package domain

import "fmt"

// Summary holds the counts shown next to the task list.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Active returns the number of tasks not yet completed.
func (s Summary) Active() int {
	return s.Total - s.Completed
}

// String renders the summary line, e.g. "3 tasks, 1 completed".
func (s Summary) String() string {
	if s.Total == 0 {
		return "No tasks yet."
	}

	noun := "tasks"
	if s.Total == 1 {
		noun = "task"
	}
	return fmt.Sprintf("%d %s, %d completed", s.Total, noun, s.Completed)
}
