package orchestrator

import (
	"fmt"

	"contentpipe/pkg/models"
)

// GetWorkflowStatus returns a point-in-time summary of one workflow:
// its current status plus per-task outcomes so far.
func (o *Orchestrator) GetWorkflowStatus(workflowID string) (*models.WorkflowResult, error) {
	wf, ok := o.GetWorkflow(workflowID)
	if !ok {
		return nil, fmt.Errorf("unknown workflow %s", workflowID)
	}

	tasks := o.snapshotTasks(wf)

	result := &models.WorkflowResult{
		WorkflowID: wf.ID,
		Name:       wf.Name,
		TotalTasks: len(tasks),
	}
	for _, task := range tasks {
		status, agentID, errMsg := o.manager.outcomeOf(task)
		switch status {
		case models.TaskStatusCompleted:
			result.CompletedTasks++
		case models.TaskStatusFailed:
			result.FailedTasks++
		}
		result.TaskResults = append(result.TaskResults, models.TaskResult{
			TaskID:  task.ID,
			Name:    task.Name,
			Status:  status,
			AgentID: agentID,
			Error:   errMsg,
		})
	}

	o.mu.RLock()
	result.Status = wf.Status
	o.mu.RUnlock()
	return result, nil
}

// GetSystemStatus returns aggregate registry and workflow counts at call
// time. No caching; the snapshot reflects current state.
func (o *Orchestrator) GetSystemStatus() models.SystemStatus {
	status := models.SystemStatus{
		TasksByStatus: make(map[models.TaskStatus]int),
	}

	for _, a := range o.registry.All() {
		status.TotalAgents++
		switch a.Status {
		case models.AgentStatusIdle:
			status.IdleAgents++
		case models.AgentStatusBusy:
			status.BusyAgents++
		}
	}

	o.mu.RLock()
	status.TotalWorkflows = len(o.workflows)
	var all []*models.Task
	for _, wf := range o.workflows {
		all = append(all, wf.Tasks...)
	}
	o.mu.RUnlock()

	// Status fields are guarded by the scheduler lock.
	o.manager.mu.Lock()
	for _, task := range all {
		status.TasksByStatus[task.Status]++
	}
	o.manager.mu.Unlock()
	return status
}
