package models

import "time"

// TaskCategory classifies a task by its intended turnaround window.
type TaskCategory string

const (
	// CategoryRealTime is for tasks expected to finish within minutes,
	// such as publishing already-produced content.
	CategoryRealTime TaskCategory = "realtime"
	// CategoryPlanned is for standard production work such as drafting content.
	CategoryPlanned TaskCategory = "planned"
	// CategoryComplex is for slow work such as image generation or fact checking.
	CategoryComplex TaskCategory = "complex"
)

// Valid returns true if the category is a known value.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryRealTime, CategoryPlanned, CategoryComplex:
		return true
	default:
		return false
	}
}

// SLA returns the informational turnaround window for this category.
// The scheduler does not enforce these deadlines.
func (c TaskCategory) SLA() time.Duration {
	switch c {
	case CategoryRealTime:
		return 15 * time.Minute
	case CategoryPlanned:
		return 240 * time.Minute
	case CategoryComplex:
		return 1440 * time.Minute
	default:
		return 0
	}
}

// TaskPriority represents the relative importance of a task.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Valid returns true if the priority is a known value.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not been assigned yet.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task is assigned to an agent.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed during assignment or execution.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusCancelled indicates the task was cancelled before execution.
	TaskStatusCancelled TaskStatus = "cancelled"
	// TaskStatusSkipped indicates the task was intentionally not executed.
	TaskStatusSkipped TaskStatus = "skipped"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusFailed, TaskStatusCancelled, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further transitions are allowed from this status.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusFailed, TaskStatusCancelled, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// Context keys shared between the orchestrator and agents. The context bag is
// the single channel through which tasks exchange data: inputs are written at
// build time, outputs are copied forward by the orchestrator's propagation
// pass after a producing task completes.
const (
	// CtxPlatform is the target platform for create/publish tasks ("telegram").
	CtxPlatform = "platform"
	// CtxContentType is the content type for create/publish tasks ("post").
	CtxContentType = "content_type"
	// CtxAccountID is the destination account or channel for a publish task.
	CtxAccountID = "account_id"
	// CtxBrief holds the *ContentBrief driving a create or fact-check task.
	CtxBrief = "brief"
	// CtxBriefID is the id the produced content is keyed by in persistence.
	CtxBriefID = "brief_id"
	// CtxContent is the map of produced content fields on a publish task.
	CtxContent = "content"
	// CtxImagePrompt is the AI generation prompt for an image task.
	CtxImagePrompt = "image_prompt"
	// CtxImageQuery is the stock-photo search query for an image task.
	CtxImageQuery = "image_query"
	// CtxImageSource selects the image path: "ai" or "stock".
	CtxImageSource = "image_source"
	// CtxTestMode disables outbound delivery when true.
	CtxTestMode = "test_mode"
	// CtxUserID is the id of the user who requested the run.
	CtxUserID = "user_id"
)

// Content map keys used inside the CtxContent bag.
const (
	ContentTitle     = "title"
	ContentText      = "text"
	ContentHashtags  = "hashtags"
	ContentMediaURLs = "media_urls"
)

// Task represents a unit of work in a workflow.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Name is the human label; it carries the substring ("Create", "Image",
	// "Publish") that result propagation matches on.
	Name string `json:"name"`
	// Category is the SLA tier of the task.
	Category TaskCategory `json:"category"`
	// Priority is the relative importance of the task.
	Priority TaskPriority `json:"priority"`
	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`
	// Context holds input parameters and, once produced, output artifacts.
	Context map[string]any `json:"context"`
	// AssignedAgentID is the id of the agent working this task, if any.
	AssignedAgentID string `json:"assigned_agent_id,omitempty"`
	// ErrorMessage holds the failure reason if the task failed.
	ErrorMessage string `json:"error_message,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
}

// ContentMap returns the task's content bag, creating it if absent.
func (t *Task) ContentMap() map[string]any {
	if t.Context == nil {
		t.Context = make(map[string]any)
	}
	content, ok := t.Context[CtxContent].(map[string]any)
	if !ok {
		content = make(map[string]any)
		t.Context[CtxContent] = content
	}
	return content
}

// StringContext returns the string value stored under key, or "".
func (t *Task) StringContext(key string) string {
	if t.Context == nil {
		return ""
	}
	s, _ := t.Context[key].(string)
	return s
}
