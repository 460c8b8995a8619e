package models

import "time"

// TaskResult is the per-task outcome included in a WorkflowResult.
type TaskResult struct {
	// TaskID is the id of the task.
	TaskID string `json:"task_id"`
	// Name is the task's human label.
	Name string `json:"name"`
	// Status is the task's final status.
	Status TaskStatus `json:"status"`
	// AgentID is the agent that executed the task, if any.
	AgentID string `json:"agent_id,omitempty"`
	// Error is the failure reason if the task failed.
	Error string `json:"error,omitempty"`
	// Output is the result payload the agent returned, if any.
	Output map[string]any `json:"output,omitempty"`
}

// WorkflowResult aggregates the outcome of one ExecuteWorkflow call.
// The workflow is Failed if any task failed, even when most succeeded;
// callers inspect TaskResults to know which artifacts are usable.
type WorkflowResult struct {
	// WorkflowID is the id of the executed workflow.
	WorkflowID string `json:"workflow_id"`
	// Name is the workflow's human label.
	Name string `json:"name"`
	// Status is the derived final workflow status.
	Status WorkflowStatus `json:"status"`
	// CompletedTasks is the number of tasks that completed successfully.
	CompletedTasks int `json:"completed_tasks"`
	// FailedTasks is the number of tasks that failed.
	FailedTasks int `json:"failed_tasks"`
	// TotalTasks is the number of tasks in the workflow.
	TotalTasks int `json:"total_tasks"`
	// TaskResults holds the per-task outcomes in execution order.
	TaskResults []TaskResult `json:"task_results"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// SystemStatus is a point-in-time snapshot of registry and workflow state.
type SystemStatus struct {
	// TotalAgents is the number of registered agents.
	TotalAgents int `json:"total_agents"`
	// IdleAgents is the number of agents with no tasks in flight.
	IdleAgents int `json:"idle_agents"`
	// BusyAgents is the number of agents with at least one task in flight.
	BusyAgents int `json:"busy_agents"`
	// TotalWorkflows is the number of workflows known to the orchestrator.
	TotalWorkflows int `json:"total_workflows"`
	// TasksByStatus counts tasks across all workflows by status.
	TasksByStatus map[TaskStatus]int `json:"tasks_by_status"`
}
