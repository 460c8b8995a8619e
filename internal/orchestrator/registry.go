package orchestrator

import (
	"sync"
	"time"

	"contentpipe/internal/agent"
	"contentpipe/pkg/models"
)

// AgentRegistry tracks available workers and what each advertises it can do.
// It is pure bookkeeping; matching and execution live in AgentManager.
// Registration order is preserved because it is the de-facto tie-break for
// which capable agent receives a task.
type AgentRegistry struct {
	// agents maps agent ids to their registry entries.
	agents map[string]*registeredAgent
	// order holds agent ids in registration order.
	order []string
	// mu protects all fields.
	mu sync.RWMutex
}

// registeredAgent pairs the bookkeeping entry with the worker that executes tasks.
type registeredAgent struct {
	info   *models.Agent
	worker agent.Agent
}

// NewAgentRegistry creates an empty AgentRegistry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{
		agents: make(map[string]*registeredAgent),
	}
}

// Register stores the agent with status Idle.
// Returns false if the id is already present.
func (r *AgentRegistry) Register(info *models.Agent, worker agent.Agent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[info.ID]; exists {
		return false
	}

	info.Status = models.AgentStatusIdle
	info.LastActivityAt = time.Now()
	r.agents[info.ID] = &registeredAgent{info: info, worker: worker}
	r.order = append(r.order, info.ID)
	return true
}

// Unregister removes the agent. Returns false if the id is unknown.
// Tasks still assigned to the agent are left InProgress with a dangling
// AssignedAgentID; reconciliation is the caller's responsibility.
func (r *AgentRegistry) Unregister(agentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[agentID]; !exists {
		return false
	}

	delete(r.agents, agentID)
	for i, id := range r.order {
		if id == agentID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// FindCapable returns the ids of every agent that supports the task's
// category and has a free slot, in registration order.
func (r *AgentRegistry) FindCapable(task *models.Task) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, id := range r.order {
		entry := r.agents[id]
		if !entry.info.Capability.Supports(task.Category) {
			continue
		}
		if entry.info.AtCapacity() {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Get returns the bookkeeping entry for an agent.
func (r *AgentRegistry) Get(agentID string) (*models.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.agents[agentID]
	if !ok {
		return nil, false
	}
	return entry.info, true
}

// workerFor returns the executing worker behind an agent id.
func (r *AgentRegistry) workerFor(agentID string) (agent.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.agents[agentID]
	if !ok {
		return nil, false
	}
	return entry.worker, true
}

// addTask records a task assignment on the agent's load counters.
func (r *AgentRegistry) addTask(agentID, taskID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.agents[agentID]
	if !ok {
		return
	}
	entry.info.CurrentTaskIDs = append(entry.info.CurrentTaskIDs, taskID)
	entry.info.Status = models.AgentStatusBusy
	entry.info.LastActivityAt = time.Now()
}

// finishTask releases the task slot and updates the outcome counters.
// The agent is available for new work again immediately, regardless of outcome.
func (r *AgentRegistry) finishTask(agentID, taskID string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.agents[agentID]
	if !ok {
		return
	}
	for i, id := range entry.info.CurrentTaskIDs {
		if id == taskID {
			entry.info.CurrentTaskIDs = append(entry.info.CurrentTaskIDs[:i], entry.info.CurrentTaskIDs[i+1:]...)
			break
		}
	}
	if success {
		entry.info.CompletedCount++
	} else {
		entry.info.FailedCount++
	}
	if len(entry.info.CurrentTaskIDs) == 0 {
		entry.info.Status = models.AgentStatusIdle
	}
	entry.info.LastActivityAt = time.Now()
}

// All returns the registered agents in registration order.
func (r *AgentRegistry) All() []*models.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := make([]*models.Agent, 0, len(r.order))
	for _, id := range r.order {
		agents = append(agents, r.agents[id].info)
	}
	return agents
}

// Count returns the number of registered agents.
func (r *AgentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}
