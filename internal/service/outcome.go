package service

// OutcomeStatus distinguishes operations that did work from those that had
// nothing to do.
type OutcomeStatus int

// Possible outcome statuses
const (
	StatusNoOp OutcomeStatus = iota
	StatusChanged
)

// String returns the status name used in logs and JSON.
func (s OutcomeStatus) String() string {
	if s == StatusChanged {
		return "changed"
	}
	return "noop"
}

// Messages reported through Outcome. The presentation layer shows them
// transiently; they are advisory and not part of the data contract.
const (
	MsgTaskAdded          = "Task added"
	MsgEmptyText          = "Enter a task before adding."
	MsgTaskCompleted      = "Task completed"
	MsgTaskActive         = "Task marked active"
	MsgTaskDeleted        = "Task deleted"
	MsgTaskNotFound       = "Task not found"
	MsgNoCompletedToClear = "No completed tasks to clear"
	MsgCompletedRemoved   = "Completed tasks removed"
	MsgNoTasksToClear     = "No tasks to clear"
	MsgAllCleared         = "All tasks cleared"
)

// Outcome is the result of a task store operation.
type Outcome struct {
	Status  OutcomeStatus
	Message string
	// TaskID is set for operations addressing a single task.
	TaskID string
	// Count is the number of tasks added, updated or removed.
	Count int
}

// Changed reports whether the operation modified the collection.
func (o Outcome) Changed() bool {
	return o.Status == StatusChanged
}

func changed(message, taskID string, count int) Outcome {
	return Outcome{Status: StatusChanged, Message: message, TaskID: taskID, Count: count}
}

func noop(message, taskID string) Outcome {
	return Outcome{Status: StatusNoOp, Message: message, TaskID: taskID}
}
