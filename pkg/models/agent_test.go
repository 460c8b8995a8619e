package models

import "testing"

func TestCapabilitySupports(t *testing.T) {
	cap := Capability{
		SupportedCategories: []TaskCategory{CategoryPlanned, CategoryComplex},
		MaxConcurrentTasks:  2,
	}

	if !cap.Supports(CategoryPlanned) {
		t.Error("expected planned to be supported")
	}
	if !cap.Supports(CategoryComplex) {
		t.Error("expected complex to be supported")
	}
	if cap.Supports(CategoryRealTime) {
		t.Error("expected realtime to be unsupported")
	}
}

func TestAgentAtCapacity(t *testing.T) {
	agent := &Agent{
		Capability: Capability{MaxConcurrentTasks: 2},
	}

	if agent.AtCapacity() {
		t.Error("empty agent should not be at capacity")
	}

	agent.CurrentTaskIDs = []string{"t1"}
	if agent.AtCapacity() {
		t.Error("agent with one of two slots used should not be at capacity")
	}

	agent.CurrentTaskIDs = []string{"t1", "t2"}
	if !agent.AtCapacity() {
		t.Error("agent with both slots used should be at capacity")
	}
}

func TestAgentHasTask(t *testing.T) {
	agent := &Agent{CurrentTaskIDs: []string{"t1", "t2"}}

	if !agent.HasTask("t1") {
		t.Error("expected t1 to be present")
	}
	if agent.HasTask("t3") {
		t.Error("expected t3 to be absent")
	}
}

func TestAgentStatusValid(t *testing.T) {
	for _, s := range []AgentStatus{AgentStatusIdle, AgentStatusBusy, AgentStatusError, AgentStatusOffline} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if AgentStatus("sleeping").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}
