package orchestrator

import (
	"context"
	"fmt"
	"time"

	"contentpipe/pkg/models"
)

// ExecuteWorkflow drives every task in the workflow in append order.
//
// Pending tasks are assigned and executed; tasks already InProgress (picked
// up by an earlier sweep) are executed directly. After every successful
// execution the result is propagated into dependent pending tasks. An
// assignment miss or execution failure is terminal for that task but never
// aborts the rest of the workflow.
//
// The loop re-reads the task list length on every step, so tasks appended
// mid-run (fact-check injection) are still reached.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, workflowID string) (*models.WorkflowResult, error) {
	wf, ok := o.GetWorkflow(workflowID)
	if !ok {
		return nil, fmt.Errorf("unknown workflow %s", workflowID)
	}

	start := time.Now()
	o.setWorkflowStatus(wf, models.WorkflowStatusInProgress)
	o.emitter.Emit(OrchestratorEvent{
		Type:       EventWorkflowStarted,
		WorkflowID: wf.ID,
		Message:    wf.Name,
	})

	var taskResults []models.TaskResult
	for i := 0; ; i++ {
		task := o.taskAt(wf, i)
		if task == nil {
			break
		}

		var output map[string]any
		var execErr error

		switch o.manager.statusOf(task) {
		case models.TaskStatusPending:
			if _, assigned := o.manager.Assign(task); !assigned {
				// No capable agent with a free slot. Terminal for this
				// task unless a sweep snuck the assignment in first.
				o.manager.MarkAssignmentFailed(task)
			}
			if o.manager.statusOf(task) == models.TaskStatusInProgress {
				output, execErr = o.manager.Execute(ctx, task)
			}
		case models.TaskStatusInProgress:
			output, execErr = o.manager.Execute(ctx, task)
		default:
			// Already terminal; recorded as-is below.
		}

		status, agentID, errMsg := o.manager.outcomeOf(task)
		if execErr == nil && status == models.TaskStatusCompleted {
			o.propagate(wf, task, output)
		}

		taskResults = append(taskResults, models.TaskResult{
			TaskID:  task.ID,
			Name:    task.Name,
			Status:  status,
			AgentID: agentID,
			Error:   errMsg,
			Output:  output,
		})
	}

	result := o.finalizeWorkflow(wf, taskResults, time.Since(start))
	o.emitter.Emit(OrchestratorEvent{
		Type:       EventWorkflowCompleted,
		WorkflowID: wf.ID,
		Message:    string(result.Status),
	})
	debugLog("[orchestrator] workflow %s finished: %s (%d completed, %d failed, %d total)",
		wf.ID, result.Status, result.CompletedTasks, result.FailedTasks, result.TotalTasks)
	return result, nil
}

// finalizeWorkflow derives the aggregate status from task statuses and
// updates the workflow counters. All non-failed tasks means Completed; a
// single failure means Failed, no matter how many succeeded.
func (o *Orchestrator) finalizeWorkflow(wf *models.Workflow, taskResults []models.TaskResult, elapsed time.Duration) *models.WorkflowResult {
	tasks := o.snapshotTasks(wf)
	completed, failed := o.manager.countOutcomes(tasks)

	status := models.WorkflowStatusCompleted
	if failed > 0 {
		status = models.WorkflowStatusFailed
	}

	o.mu.Lock()
	wf.CompletedTasks = completed
	wf.FailedTasks = failed
	wf.TotalTasks = len(tasks)
	wf.Status = status
	o.mu.Unlock()

	return &models.WorkflowResult{
		WorkflowID:     wf.ID,
		Name:           wf.Name,
		Status:         status,
		CompletedTasks: completed,
		FailedTasks:    failed,
		TotalTasks:     len(tasks),
		TaskResults:    taskResults,
		Duration:       elapsed,
	}
}

// setWorkflowStatus updates the workflow's own status field.
func (o *Orchestrator) setWorkflowStatus(wf *models.Workflow, status models.WorkflowStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	wf.Status = status
}
