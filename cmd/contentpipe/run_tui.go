package main

import (
	"context"
	"fmt"

	"contentpipe/internal/orchestrator"
	"contentpipe/internal/tui"
	"contentpipe/pkg/models"
)

// toEventMsg converts an engine event into the dashboard's message type.
// Failure details are flattened to text for display.
func toEventMsg(event orchestrator.OrchestratorEvent) tui.EventMsg {
	msg := tui.EventMsg{
		Type:      string(event.Type),
		TaskID:    event.TaskID,
		TaskName:  event.TaskName,
		AgentID:   event.AgentID,
		Message:   event.Message,
		Timestamp: event.Timestamp,
	}
	if event.Error != nil {
		msg.Error = event.Error.Error()
	}
	return msg
}

// executeWithTUI drives the workflow while the dashboard is on screen.
// The engine runs in a goroutine; events are forwarded to the TUI as they
// arrive and the program exits when the user quits after completion.
func executeWithTUI(ctx context.Context, o *orchestrator.Orchestrator, wf *models.Workflow, workflowID string) (*models.WorkflowResult, error) {
	name := workflowID
	if wf != nil {
		name = wf.Name
	}
	program, _ := tui.NewProgram(name)

	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		for event := range o.Events() {
			program.Send(toEventMsg(event))
		}
	}()

	var result *models.WorkflowResult
	var execErr error
	go func() {
		result, execErr = o.ExecuteWorkflow(ctx, workflowID)
		if execErr != nil {
			program.Send(tui.RunDoneMsg{Success: false, Message: execErr.Error()})
			return
		}
		message := fmt.Sprintf("%d/%d tasks completed", result.CompletedTasks, result.TotalTasks)
		program.Send(tui.RunDoneMsg{
			Success: result.Status == models.WorkflowStatusCompleted,
			Message: message,
		})
	}()

	if _, err := program.Run(); err != nil {
		return nil, fmt.Errorf("run dashboard: %w", err)
	}
	if execErr != nil {
		return nil, execErr
	}
	if result == nil {
		return nil, fmt.Errorf("dashboard closed before the run finished")
	}
	return result, nil
}
