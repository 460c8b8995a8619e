package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"contentpipe/pkg/models"
)

// DefaultSweepInterval is how often the background sweep looks for
// pending tasks when no interval is configured.
const DefaultSweepInterval = 5 * time.Second

// WorkflowSource lets the background sweep see every known workflow's
// pending tasks without owning the workflow map itself.
type WorkflowSource interface {
	// PendingTasks returns a snapshot of all pending tasks across workflows.
	PendingTasks() []*models.Task
}

// AgentManager matches pending tasks to idle, capability-compatible agents
// and executes them by delegating to the matched agent.
//
// Its mutex is the single serialization point for assignment bookkeeping:
// the main execution loop and the background sweep both go through it, so
// two assignments can never race one agent past its concurrency ceiling.
type AgentManager struct {
	registry *AgentRegistry
	emitter  *EventEmitter
	source   WorkflowSource
	mu       sync.Mutex
}

// NewAgentManager creates an AgentManager over the given registry.
func NewAgentManager(registry *AgentRegistry) *AgentManager {
	return &AgentManager{registry: registry}
}

// SetSource wires the workflow snapshot provider used by the sweep.
func (m *AgentManager) SetSource(source WorkflowSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = source
}

// SetEmitter wires the event emitter. Optional.
func (m *AgentManager) SetEmitter(emitter *EventEmitter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitter = emitter
}

// Assign matches the task to the first-registered capable agent with a free
// slot, records the assignment, and moves the task to InProgress.
// Returns ok=false with the task left Pending when no capable agent is
// available; the caller decides whether that is terminal.
func (m *AgentManager) Assign(task *models.Task) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assignLocked(task)
}

// assignLocked performs the check-then-act of assignment. Caller holds m.mu.
func (m *AgentManager) assignLocked(task *models.Task) (string, bool) {
	if task.Status != models.TaskStatusPending {
		return "", false
	}

	candidates := m.registry.FindCapable(task)
	if len(candidates) == 0 {
		debugLog("[manager] no capable agent for task %s (%s, category=%s)", task.ID, task.Name, task.Category)
		return "", false
	}

	agentID := candidates[0]
	m.registry.addTask(agentID, task.ID)
	task.AssignedAgentID = agentID
	task.Status = models.TaskStatusInProgress

	debugLog("[manager] assigned task %s (%s) to agent %s", task.ID, task.Name, agentID)
	m.emit(OrchestratorEvent{
		Type:     EventTaskAssigned,
		TaskID:   task.ID,
		TaskName: task.Name,
		AgentID:  agentID,
	})
	return agentID, true
}

// Execute runs an InProgress task on its assigned agent and records the
// outcome. The delegated ExecuteTask call is the only blocking operation in
// the engine and runs outside the manager lock.
func (m *AgentManager) Execute(ctx context.Context, task *models.Task) (map[string]any, error) {
	m.mu.Lock()
	if task.Status != models.TaskStatusInProgress {
		m.mu.Unlock()
		return nil, fmt.Errorf("task %s is %s, expected in_progress", task.ID, task.Status)
	}
	agentID := task.AssignedAgentID
	worker, ok := m.registry.workerFor(agentID)
	m.mu.Unlock()

	if !ok {
		// Agent was unregistered while the task was in flight.
		err := fmt.Errorf("agent %s is no longer registered", agentID)
		m.recordOutcome(task, agentID, err)
		return nil, err
	}

	m.emit(OrchestratorEvent{
		Type:     EventTaskStarted,
		TaskID:   task.ID,
		TaskName: task.Name,
		AgentID:  agentID,
	})

	result, err := worker.ExecuteTask(ctx, task)
	m.recordOutcome(task, agentID, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recordOutcome finalizes task status and agent load counters after execution.
func (m *AgentManager) recordOutcome(task *models.Task, agentID string, execErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if execErr != nil {
		task.Status = models.TaskStatusFailed
		task.ErrorMessage = execErr.Error()
		m.registry.finishTask(agentID, task.ID, false)
		debugLog("[manager] task %s failed on agent %s: %v", task.ID, agentID, execErr)
		m.emit(OrchestratorEvent{
			Type:     EventTaskFailed,
			TaskID:   task.ID,
			TaskName: task.Name,
			AgentID:  agentID,
			Error:    execErr,
		})
		return
	}

	task.Status = models.TaskStatusCompleted
	m.registry.finishTask(agentID, task.ID, true)
	debugLog("[manager] task %s completed on agent %s", task.ID, agentID)
	m.emit(OrchestratorEvent{
		Type:     EventTaskCompleted,
		TaskID:   task.ID,
		TaskName: task.Name,
		AgentID:  agentID,
	})
}

// statusOf reads the task's status under the scheduler lock. Status fields
// are written under this lock from both the main loop and the sweep, so
// reads outside the scheduler go through here too.
func (m *AgentManager) statusOf(task *models.Task) models.TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return task.Status
}

// outcomeOf reads the task's status, assignee, and failure message as one
// consistent snapshot under the scheduler lock.
func (m *AgentManager) outcomeOf(task *models.Task) (models.TaskStatus, string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return task.Status, task.AssignedAgentID, task.ErrorMessage
}

// filterPending returns the subset of tasks still Pending, read under the
// scheduler lock.
func (m *AgentManager) filterPending(tasks []*models.Task) []*models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pending []*models.Task
	for _, task := range tasks {
		if task.Status == models.TaskStatusPending {
			pending = append(pending, task)
		}
	}
	return pending
}

// countOutcomes tallies completed and failed tasks under the scheduler lock.
func (m *AgentManager) countOutcomes(tasks []*models.Task) (completed, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, task := range tasks {
		switch task.Status {
		case models.TaskStatusCompleted:
			completed++
		case models.TaskStatusFailed:
			failed++
		}
	}
	return completed, failed
}

// MarkAssignmentFailed forces a pending task to Failed after an assignment
// miss. Assignment failures are terminal for the task; the workflow continues.
func (m *AgentManager) MarkAssignmentFailed(task *models.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task.Status != models.TaskStatusPending {
		return
	}
	task.Status = models.TaskStatusFailed
	task.ErrorMessage = "no agent available for category " + string(task.Category)
	m.emit(OrchestratorEvent{
		Type:     EventTaskFailed,
		TaskID:   task.ID,
		TaskName: task.Name,
		Error:    fmt.Errorf("no agent available"),
	})
}

// ForceAssign assigns the task to a specific agent, bypassing capability
// matching. Used for injected tasks that target a well-known agent.
// Returns false if the agent is not registered.
func (m *AgentManager) ForceAssign(task *models.Task, agentID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.registry.Get(agentID); !ok {
		return false
	}
	m.registry.addTask(agentID, task.ID)
	task.AssignedAgentID = agentID
	task.Status = models.TaskStatusInProgress
	debugLog("[manager] force-assigned task %s (%s) to agent %s", task.ID, task.Name, agentID)
	m.emit(OrchestratorEvent{
		Type:     EventTaskAssigned,
		TaskID:   task.ID,
		TaskName: task.Name,
		AgentID:  agentID,
	})
	return true
}

// AutoAssignSweep attempts assignment for every pending task across all
// known workflows. It picks up tasks appended after the main execution loop
// already moved past them. Returns the number of tasks assigned.
func (m *AgentManager) AutoAssignSweep() int {
	m.mu.Lock()
	source := m.source
	m.mu.Unlock()
	if source == nil {
		return 0
	}

	pending := source.PendingTasks()
	if len(pending) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	assigned := 0
	for _, task := range pending {
		if _, ok := m.assignLocked(task); ok {
			assigned++
		}
	}
	return assigned
}

// RunSweeper runs AutoAssignSweep on a fixed interval until ctx is done.
func (m *AgentManager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.AutoAssignSweep(); n > 0 {
				debugLog("[sweep] assigned %d pending tasks", n)
			}
		}
	}
}

// emit sends an event if an emitter is wired. Caller may hold m.mu; the
// emitter never blocks for longer than its drop timeout.
func (m *AgentManager) emit(event OrchestratorEvent) {
	if m.emitter != nil {
		m.emitter.Emit(event)
	}
}
