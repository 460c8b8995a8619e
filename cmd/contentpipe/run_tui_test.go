package main

import (
	"errors"
	"testing"
	"time"

	"contentpipe/internal/orchestrator"
)

func TestToEventMsgFlattensError(t *testing.T) {
	now := time.Now()
	msg := toEventMsg(orchestrator.OrchestratorEvent{
		Type:      orchestrator.EventTaskFailed,
		TaskID:    "t1",
		TaskName:  "Publish to telegram: post",
		AgentID:   "publisher",
		Error:     errors.New("sendMessage failed"),
		Timestamp: now,
	})

	if msg.Type != "task_failed" {
		t.Errorf("type = %q, want task_failed", msg.Type)
	}
	if msg.Error != "sendMessage failed" {
		t.Errorf("error = %q, want the flattened failure text", msg.Error)
	}
	if msg.TaskID != "t1" || msg.AgentID != "publisher" || !msg.Timestamp.Equal(now) {
		t.Errorf("msg = %+v, fields not carried over", msg)
	}
}

func TestToEventMsgWithoutError(t *testing.T) {
	msg := toEventMsg(orchestrator.OrchestratorEvent{
		Type:     orchestrator.EventTaskCompleted,
		TaskID:   "t1",
		TaskName: "Create content: telegram/post",
	})
	if msg.Error != "" {
		t.Errorf("error = %q, want empty for a successful event", msg.Error)
	}
}
