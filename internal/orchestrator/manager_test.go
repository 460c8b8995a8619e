package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"contentpipe/pkg/models"
)

// staticSource is a fixed WorkflowSource for sweep tests.
type staticSource struct {
	tasks []*models.Task
}

func (s staticSource) PendingTasks() []*models.Task {
	return s.tasks
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := NewAgentRegistry()
	info := newAgentInfo("creator", models.CategoryPlanned, 2)

	if !reg.Register(info, &stubWorker{}) {
		t.Fatal("first registration should succeed")
	}
	if reg.Register(newAgentInfo("creator", models.CategoryPlanned, 2), &stubWorker{}) {
		t.Fatal("duplicate id should be rejected")
	}

	got, ok := reg.Get("creator")
	if !ok {
		t.Fatal("registered agent not found")
	}
	if got.Status != models.AgentStatusIdle {
		t.Errorf("status = %s, want idle on registration", got.Status)
	}
	if reg.Count() != 1 {
		t.Errorf("count = %d, want 1", reg.Count())
	}
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("creator", models.CategoryPlanned, 2), &stubWorker{})

	if !reg.Unregister("creator") {
		t.Fatal("unregister should succeed")
	}
	if reg.Unregister("creator") {
		t.Fatal("second unregister should fail")
	}
	if _, ok := reg.Get("creator"); ok {
		t.Error("agent still retrievable after unregister")
	}
	if len(reg.All()) != 0 {
		t.Error("All should be empty after unregister")
	}
}

func TestRegistryFindCapableOrder(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 2), &stubWorker{})
	reg.Register(newAgentInfo("beta", models.CategoryPlanned, 2), &stubWorker{})
	reg.Register(newAgentInfo("gamma", models.CategoryComplex, 2), &stubWorker{})

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	ids := reg.FindCapable(task)
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Fatalf("FindCapable = %v, want [alpha beta] in registration order", ids)
	}

	// Fill alpha to capacity; it must drop out of the candidate list.
	reg.addTask("alpha", "t1")
	reg.addTask("alpha", "t2")
	ids = reg.FindCapable(task)
	if len(ids) != 1 || ids[0] != "beta" {
		t.Fatalf("FindCapable = %v, want [beta] with alpha at capacity", ids)
	}

	reg.finishTask("alpha", "t1", true)
	ids = reg.FindCapable(task)
	if len(ids) != 2 {
		t.Fatalf("FindCapable = %v, want alpha back after a slot freed", ids)
	}
}

func TestRegistryFinishTaskUpdatesCounters(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("creator", models.CategoryPlanned, 2), &stubWorker{})

	reg.addTask("creator", "t1")
	info, _ := reg.Get("creator")
	if info.Status != models.AgentStatusBusy {
		t.Errorf("status = %s, want busy with a task in flight", info.Status)
	}

	reg.finishTask("creator", "t1", true)
	if info.CompletedCount != 1 || info.FailedCount != 0 {
		t.Errorf("counters = %d/%d, want 1 completed", info.CompletedCount, info.FailedCount)
	}
	if info.Status != models.AgentStatusIdle {
		t.Errorf("status = %s, want idle after release", info.Status)
	}

	reg.addTask("creator", "t2")
	reg.finishTask("creator", "t2", false)
	if info.FailedCount != 1 {
		t.Errorf("failed count = %d, want 1", info.FailedCount)
	}
}

func TestAssignPicksFirstRegistered(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 2), &stubWorker{})
	reg.Register(newAgentInfo("beta", models.CategoryPlanned, 2), &stubWorker{})
	m := NewAgentManager(reg)

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	agentID, ok := m.Assign(task)
	if !ok {
		t.Fatal("assignment should succeed")
	}
	if agentID != "alpha" {
		t.Errorf("assigned to %s, want the first registered agent", agentID)
	}
	if task.Status != models.TaskStatusInProgress {
		t.Errorf("task status = %s, want in_progress", task.Status)
	}
	if task.AssignedAgentID != "alpha" {
		t.Errorf("task agent = %s, want alpha", task.AssignedAgentID)
	}

	info, _ := reg.Get("alpha")
	if !info.HasTask(task.ID) {
		t.Error("agent load counters missing the task")
	}
}

func TestAssignRequiresPendingStatus(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 2), &stubWorker{})
	m := NewAgentManager(reg)

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	task.Status = models.TaskStatusInProgress
	if _, ok := m.Assign(task); ok {
		t.Fatal("non-pending task must not be assigned again")
	}
}

func TestAssignNoCapableAgent(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("publisher", models.CategoryRealTime, 2), &stubWorker{})
	m := NewAgentManager(reg)

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	if _, ok := m.Assign(task); ok {
		t.Fatal("assignment should fail without a capable agent")
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("task status = %s, want pending after a miss", task.Status)
	}
}

func TestMarkAssignmentFailed(t *testing.T) {
	m := NewAgentManager(NewAgentRegistry())

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	m.MarkAssignmentFailed(task)
	if task.Status != models.TaskStatusFailed {
		t.Fatalf("task status = %s, want failed", task.Status)
	}
	if task.ErrorMessage == "" {
		t.Error("assignment failure should carry a message")
	}

	done := pendingTask("other", models.CategoryPlanned)
	done.Status = models.TaskStatusCompleted
	m.MarkAssignmentFailed(done)
	if done.Status != models.TaskStatusCompleted {
		t.Error("non-pending task must not be overwritten")
	}
}

func TestExecuteRequiresInProgress(t *testing.T) {
	m := NewAgentManager(NewAgentRegistry())
	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	if _, err := m.Execute(context.Background(), task); err == nil {
		t.Fatal("executing a pending task should fail")
	}
}

func TestExecuteRecordsOutcome(t *testing.T) {
	reg := NewAgentRegistry()
	worker := &stubWorker{output: map[string]any{"done": true}}
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 2), worker)
	m := NewAgentManager(reg)

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	if _, ok := m.Assign(task); !ok {
		t.Fatal("assign failed")
	}
	out, err := m.Execute(context.Background(), task)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out["done"] != true {
		t.Errorf("output = %v, want the worker payload", out)
	}
	if task.Status != models.TaskStatusCompleted {
		t.Errorf("task status = %s, want completed", task.Status)
	}

	info, _ := reg.Get("alpha")
	if info.CompletedCount != 1 || len(info.CurrentTaskIDs) != 0 {
		t.Errorf("agent counters = %d completed, %d in flight, want 1 and 0", info.CompletedCount, len(info.CurrentTaskIDs))
	}
}

func TestExecuteFailureMarksTask(t *testing.T) {
	reg := NewAgentRegistry()
	worker := &stubWorker{err: errors.New("send failed")}
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 2), worker)
	m := NewAgentManager(reg)

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	m.Assign(task)
	if _, err := m.Execute(context.Background(), task); err == nil {
		t.Fatal("expected execution error")
	}
	if task.Status != models.TaskStatusFailed {
		t.Errorf("task status = %s, want failed", task.Status)
	}
	if task.ErrorMessage != "send failed" {
		t.Errorf("error message = %q, want send failed", task.ErrorMessage)
	}

	info, _ := reg.Get("alpha")
	if info.FailedCount != 1 {
		t.Errorf("failed count = %d, want 1", info.FailedCount)
	}
}

func TestExecuteAfterUnregister(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 2), &stubWorker{})
	m := NewAgentManager(reg)

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	m.Assign(task)
	reg.Unregister("alpha")

	if _, err := m.Execute(context.Background(), task); err == nil {
		t.Fatal("expected error when the agent is gone")
	}
	if task.Status != models.TaskStatusFailed {
		t.Errorf("task status = %s, want failed", task.Status)
	}
}

func TestForceAssignBypassesCapability(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo(FactCheckAgentID, models.CategoryComplex, 1), &stubWorker{})
	m := NewAgentManager(reg)

	// RealTime is outside the agent's advertised categories; force
	// assignment ignores that.
	task := pendingTask("Fact-Check Claims", models.CategoryRealTime)
	if !m.ForceAssign(task, FactCheckAgentID) {
		t.Fatal("force assign should succeed for a registered agent")
	}
	if task.Status != models.TaskStatusInProgress || task.AssignedAgentID != FactCheckAgentID {
		t.Errorf("task = %s on %q, want in_progress on the fact checker", task.Status, task.AssignedAgentID)
	}

	other := pendingTask("Fact-Check Claims", models.CategoryComplex)
	if m.ForceAssign(other, "ghost") {
		t.Fatal("force assign must fail for an unknown agent")
	}
	if other.Status != models.TaskStatusPending {
		t.Errorf("task status = %s, want pending after a failed force assign", other.Status)
	}
}

func TestAutoAssignSweep(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 1), &stubWorker{})
	m := NewAgentManager(reg)

	if n := m.AutoAssignSweep(); n != 0 {
		t.Fatalf("sweep without a source assigned %d tasks, want 0", n)
	}

	t1 := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	t2 := pendingTask("Create content: telegram/story", models.CategoryPlanned)
	m.SetSource(staticSource{tasks: []*models.Task{t1, t2}})

	if n := m.AutoAssignSweep(); n != 1 {
		t.Fatalf("sweep assigned %d tasks, want 1 (agent capacity is 1)", n)
	}
	if t1.Status != models.TaskStatusInProgress {
		t.Errorf("first task status = %s, want in_progress", t1.Status)
	}
	if t2.Status != models.TaskStatusPending {
		t.Errorf("second task status = %s, want pending past capacity", t2.Status)
	}
}

func TestSweepNeverExceedsCapacity(t *testing.T) {
	reg := NewAgentRegistry()
	gate := make(chan struct{})
	worker := &stubWorker{gate: gate, output: map[string]any{"done": true}}
	reg.Register(newAgentInfo("solo", models.CategoryPlanned, 1), worker)
	m := NewAgentManager(reg)

	t1 := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	t2 := pendingTask("Create content: telegram/story", models.CategoryPlanned)
	m.SetSource(staticSource{tasks: []*models.Task{t2}})

	if _, ok := m.Assign(t1); !ok {
		t.Fatal("assign failed")
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.Execute(context.Background(), t1)
		done <- err
	}()

	// While the only slot is held by the in-flight task, the sweep must
	// not hand out a second assignment.
	if n := m.AutoAssignSweep(); n != 0 {
		t.Fatalf("sweep assigned %d tasks while the agent was saturated, want 0", n)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if n := m.AutoAssignSweep(); n != 1 {
		t.Fatalf("sweep assigned %d tasks after the slot freed, want 1", n)
	}
	if t2.Status != models.TaskStatusInProgress {
		t.Errorf("second task status = %s, want in_progress", t2.Status)
	}
}

func TestRunSweeperAssignsOnInterval(t *testing.T) {
	reg := NewAgentRegistry()
	reg.Register(newAgentInfo("alpha", models.CategoryPlanned, 1), &stubWorker{})
	m := NewAgentManager(reg)

	task := pendingTask("Create content: telegram/post", models.CategoryPlanned)
	m.SetSource(staticSource{tasks: []*models.Task{task}})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		m.RunSweeper(ctx, 5*time.Millisecond)
	}()

	deadline := time.After(2 * time.Second)
	for {
		m.mu.Lock()
		status := task.Status
		m.mu.Unlock()
		if status == models.TaskStatusInProgress {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sweeper never assigned the pending task")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-stopped
}
