package orchestrator

import "time"

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventWorkflowStarted indicates a workflow run has begun.
	EventWorkflowStarted EventType = "workflow_started"
	// EventWorkflowCompleted indicates a workflow run has finished.
	EventWorkflowCompleted EventType = "workflow_completed"
	// EventTaskAssigned indicates a task was matched to an agent.
	EventTaskAssigned EventType = "task_assigned"
	// EventTaskStarted indicates an agent began executing a task.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed during assignment or execution.
	EventTaskFailed EventType = "task_failed"
	// EventContentPropagated indicates created content was copied into a
	// pending publish task.
	EventContentPropagated EventType = "content_propagated"
	// EventImageAttached indicates an image URL was appended to pending
	// publish tasks.
	EventImageAttached EventType = "image_attached"
	// EventTaskInjected indicates a task was added outside the normal
	// build sequence (fact-check injection).
	EventTaskInjected EventType = "task_injected"
	// EventAgentRegistered indicates a new agent joined the registry.
	EventAgentRegistered EventType = "agent_registered"
	// EventAgentUnregistered indicates an agent left the registry.
	EventAgentUnregistered EventType = "agent_unregistered"
)

// OrchestratorEvent is emitted by the engine as a run progresses.
// These events feed the TUI dashboard and CLI progress output.
type OrchestratorEvent struct {
	// Type is the kind of event.
	Type EventType
	// WorkflowID is the id of the related workflow, if applicable.
	WorkflowID string
	// TaskID is the id of the related task, if applicable.
	TaskID string
	// TaskName is the human label of the related task, if applicable.
	TaskName string
	// AgentID is the id of the related agent, if applicable.
	AgentID string
	// Message provides additional context about the event.
	Message string
	// Error contains failure details for task_failed events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
