package models

import "time"

// WorkflowStatus represents the current state of a workflow.
type WorkflowStatus string

const (
	// WorkflowStatusCreated indicates the workflow has been built but not run.
	WorkflowStatusCreated WorkflowStatus = "created"
	// WorkflowStatusInProgress indicates the workflow is executing.
	WorkflowStatusInProgress WorkflowStatus = "in_progress"
	// WorkflowStatusCompleted indicates every task finished without failure.
	WorkflowStatusCompleted WorkflowStatus = "completed"
	// WorkflowStatusFailed indicates at least one task failed.
	WorkflowStatusFailed WorkflowStatus = "failed"
	// WorkflowStatusCancelled indicates the workflow was cancelled.
	// Not reachable from the orchestrator; kept for forward compatibility.
	WorkflowStatusCancelled WorkflowStatus = "cancelled"
)

// Valid returns true if the status is a known value.
func (s WorkflowStatus) Valid() bool {
	switch s {
	case WorkflowStatusCreated, WorkflowStatusInProgress, WorkflowStatusCompleted,
		WorkflowStatusFailed, WorkflowStatusCancelled:
		return true
	default:
		return false
	}
}

// Workflow is an ordered collection of tasks plus aggregate run state.
// The task list is append-only during a run. The orchestrator exclusively
// owns workflow mutation; the scheduler only touches task status fields.
type Workflow struct {
	// ID is the unique identifier for this workflow.
	ID string `json:"id"`
	// Name is the human label for the run.
	Name string `json:"name"`
	// Status is the current lifecycle state, derived after a run by
	// scanning task statuses.
	Status WorkflowStatus `json:"status"`
	// Context holds run-level shared parameters (user id, test mode, channel).
	Context map[string]any `json:"context"`
	// Tasks is the ordered, append-only task sequence.
	Tasks []*Task `json:"tasks"`
	// CompletedTasks is the number of tasks that completed successfully.
	CompletedTasks int `json:"completed_tasks"`
	// FailedTasks is the number of tasks that failed.
	FailedTasks int `json:"failed_tasks"`
	// TotalTasks is the number of tasks in the workflow.
	TotalTasks int `json:"total_tasks"`
	// CreatedAt is when the workflow was built.
	CreatedAt time.Time `json:"created_at"`
}

// StringContext returns the string value stored under key, or "".
func (w *Workflow) StringContext(key string) string {
	if w.Context == nil {
		return ""
	}
	s, _ := w.Context[key].(string)
	return s
}
