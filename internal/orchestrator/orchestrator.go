// Package orchestrator implements the content-production task engine: a
// capability-based agent registry, a scheduler with a background assignment
// sweep, and a workflow driver that propagates produced artifacts into the
// inputs of dependent tasks.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"contentpipe/internal/agent"
	"contentpipe/pkg/models"
)

// MediaRecorder records produced image URLs against the originating brief.
// Implemented by the state store; optional.
type MediaRecorder interface {
	AttachMedia(briefID, url string) error
}

// Config contains configuration options for the Orchestrator.
type Config struct {
	// Media receives image URLs as they are produced. Optional.
	Media MediaRecorder
	// Logger is the debug logger for engine internals. Optional.
	Logger *DebugLogger
	// SweepInterval is how often the background sweep runs.
	// Defaults to DefaultSweepInterval.
	SweepInterval time.Duration
	// EventBuffer is the emitter channel size. Defaults to 100.
	EventBuffer int
}

// Orchestrator builds workflows from content briefs, drives their execution
// task by task, and copies produced data into dependent tasks' inputs.
// It exclusively owns workflow mutation; the AgentManager only touches task
// status and agent load counters.
type Orchestrator struct {
	registry *AgentRegistry
	manager  *AgentManager
	emitter  *EventEmitter
	media    MediaRecorder
	logger   *DebugLogger

	sweepInterval time.Duration

	// workflows maps workflow ids to their state.
	workflows map[string]*models.Workflow
	// mu protects the workflows map and the structure of each workflow's
	// task list (append, length, index). Task status fields are guarded by
	// the manager's mutex instead.
	mu sync.RWMutex

	// cancel stops the background sweep.
	cancel context.CancelFunc
	// wg tracks the sweep goroutine.
	wg sync.WaitGroup
	// started indicates Start has been called.
	started bool
}

// New creates an Orchestrator with the given configuration.
func New(cfg Config) *Orchestrator {
	bufferSize := cfg.EventBuffer
	if bufferSize <= 0 {
		bufferSize = 100
	}

	if cfg.Logger != nil {
		setPackageLogger(cfg.Logger)
	}

	o := &Orchestrator{
		registry:      NewAgentRegistry(),
		manager:       nil,
		emitter:       NewEventEmitter(bufferSize),
		media:         cfg.Media,
		logger:        cfg.Logger,
		sweepInterval: cfg.SweepInterval,
		workflows:     make(map[string]*models.Workflow),
	}
	o.manager = NewAgentManager(o.registry)
	o.manager.SetEmitter(o.emitter)
	o.manager.SetSource(o)
	return o
}

// Start launches the background sweep loop. Safe to call once.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return
	}
	o.started = true

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.manager.RunSweeper(ctx, o.sweepInterval)
	}()
}

// Stop halts the sweep loop and closes the event channel.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return
	}
	o.started = false
	cancel := o.cancel
	o.mu.Unlock()

	cancel()
	o.wg.Wait()
	o.emitter.Close()
}

// RegisterAgent adds a worker to the registry.
// Returns false if the agent id is already taken.
func (o *Orchestrator) RegisterAgent(info *models.Agent, worker agent.Agent) bool {
	if !o.registry.Register(info, worker) {
		return false
	}
	o.emitter.Emit(OrchestratorEvent{
		Type:    EventAgentRegistered,
		AgentID: info.ID,
		Message: info.DisplayName,
	})
	return true
}

// UnregisterAgent removes a worker from the registry.
// Tasks it still has in flight keep their dangling AssignedAgentID.
func (o *Orchestrator) UnregisterAgent(agentID string) bool {
	if !o.registry.Unregister(agentID) {
		return false
	}
	o.emitter.Emit(OrchestratorEvent{
		Type:    EventAgentUnregistered,
		AgentID: agentID,
	})
	return true
}

// Registry exposes the agent registry for status reporting.
func (o *Orchestrator) Registry() *AgentRegistry {
	return o.registry
}

// Manager exposes the scheduler, mainly for tests and operational tooling.
func (o *Orchestrator) Manager() *AgentManager {
	return o.manager
}

// Events returns the channel the engine publishes progress events on.
func (o *Orchestrator) Events() <-chan OrchestratorEvent {
	return o.emitter.Events()
}

// DroppedEventCount returns how many events were dropped by the emitter.
func (o *Orchestrator) DroppedEventCount() uint64 {
	return o.emitter.DroppedCount()
}

// GetWorkflow returns the workflow with the given id.
func (o *Orchestrator) GetWorkflow(workflowID string) (*models.Workflow, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	wf, ok := o.workflows[workflowID]
	return wf, ok
}

// PendingTasks returns a snapshot of every known workflow's pending tasks,
// in workflow task order. It implements WorkflowSource for the sweep. The
// task lists are copied under o.mu; the status filter runs under the
// manager's lock, which guards every status write, and the manager re-checks
// each task before assigning.
func (o *Orchestrator) PendingTasks() []*models.Task {
	o.mu.RLock()
	var all []*models.Task
	for _, wf := range o.workflows {
		all = append(all, wf.Tasks...)
	}
	o.mu.RUnlock()

	return o.manager.filterPending(all)
}

// appendTask grows a workflow's task list. The list is append-only.
func (o *Orchestrator) appendTask(wf *models.Workflow, task *models.Task) {
	o.mu.Lock()
	defer o.mu.Unlock()
	wf.Tasks = append(wf.Tasks, task)
	wf.TotalTasks = len(wf.Tasks)
}

// taskAt returns the i-th task of the workflow, or nil when i is out of
// range. The length is re-read under the lock on every call so the
// execution loop tolerates tasks appended while it is running.
func (o *Orchestrator) taskAt(wf *models.Workflow, i int) *models.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if i < 0 || i >= len(wf.Tasks) {
		return nil
	}
	return wf.Tasks[i]
}

// snapshotTasks copies the workflow's current task list.
func (o *Orchestrator) snapshotTasks(wf *models.Workflow) []*models.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	tasks := make([]*models.Task, len(wf.Tasks))
	copy(tasks, wf.Tasks)
	return tasks
}
