package models

import "time"

// AgentStatus represents the current state of a registered agent.
type AgentStatus string

const (
	// AgentStatusIdle indicates the agent has no tasks in flight.
	AgentStatusIdle AgentStatus = "idle"
	// AgentStatusBusy indicates the agent has at least one task in flight.
	AgentStatusBusy AgentStatus = "busy"
	// AgentStatusError indicates the agent's last execution failed.
	AgentStatusError AgentStatus = "error"
	// AgentStatusOffline indicates the agent is registered but unavailable.
	AgentStatusOffline AgentStatus = "offline"
)

// Valid returns true if the status is a known value.
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentStatusIdle, AgentStatusBusy, AgentStatusError, AgentStatusOffline:
		return true
	default:
		return false
	}
}

// Capability describes what work an agent advertises it can take.
type Capability struct {
	// SupportedCategories is the set of task categories the agent accepts.
	SupportedCategories []TaskCategory `json:"supported_categories"`
	// MaxConcurrentTasks is the agent's concurrency ceiling (>= 1).
	MaxConcurrentTasks int `json:"max_concurrent_tasks"`
	// Specializations are informational tags ("copywriting", "telegram").
	Specializations []string `json:"specializations,omitempty"`
	// PerformanceScore is informational and not used as a scheduling tie-break.
	PerformanceScore float64 `json:"performance_score,omitempty"`
}

// Supports returns true if the capability covers the given category.
func (c Capability) Supports(category TaskCategory) bool {
	for _, sc := range c.SupportedCategories {
		if sc == category {
			return true
		}
	}
	return false
}

// Agent is a registry entry for a worker available to the scheduler.
type Agent struct {
	// ID is the unique identifier the agent registered under.
	ID string `json:"id"`
	// DisplayName is the human label for the agent.
	DisplayName string `json:"display_name"`
	// Capability is what the agent advertises it can do.
	Capability Capability `json:"capability"`
	// Status is the current availability state.
	Status AgentStatus `json:"status"`
	// CurrentTaskIDs are the tasks currently assigned to the agent.
	// Its size never exceeds Capability.MaxConcurrentTasks.
	CurrentTaskIDs []string `json:"current_task_ids,omitempty"`
	// CompletedCount is the number of tasks the agent finished successfully.
	CompletedCount int `json:"completed_count"`
	// FailedCount is the number of tasks the agent failed.
	FailedCount int `json:"failed_count"`
	// LastActivityAt is when the agent last started or finished a task.
	LastActivityAt time.Time `json:"last_activity_at"`
}

// AtCapacity returns true if the agent cannot take another task.
func (a *Agent) AtCapacity() bool {
	return len(a.CurrentTaskIDs) >= a.Capability.MaxConcurrentTasks
}

// HasTask returns true if the task id is currently assigned to the agent.
func (a *Agent) HasTask(taskID string) bool {
	for _, id := range a.CurrentTaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}
