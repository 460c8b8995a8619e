package orchestrator

import (
	"log"
	"time"

	"github.com/google/uuid"

	"contentpipe/pkg/models"
)

// FactCheckAgentID is the well-known id the fact-check worker registers
// under. Injection targets this agent directly, bypassing capability
// matching.
const FactCheckAgentID = "fact-checker"

// InjectFactCheckTask appends a fact-check task to an existing workflow,
// outside the normal BuildWorkflow sequence, and force-assigns it to the
// fact-check agent so the main execution loop will pick it up.
//
// When the fact-check agent is not registered the task is dropped with a
// logged warning and not marked Failed: it was never truly scheduled.
// Returns the task id and whether the task was added.
func (o *Orchestrator) InjectFactCheckTask(workflowID string) (string, bool) {
	wf, ok := o.GetWorkflow(workflowID)
	if !ok {
		log.Printf("[orchestrator] WARNING: fact-check requested for unknown workflow %s", workflowID)
		return "", false
	}

	ctx := map[string]any{
		models.CtxBriefID: wf.StringContext(models.CtxBriefID),
	}
	if brief, ok := wf.Context[models.CtxBrief].(*models.ContentBrief); ok {
		ctx[models.CtxBrief] = brief
	}

	task := &models.Task{
		ID:        uuid.New().String(),
		Name:      "Fact-Check Claims",
		Category:  models.CategoryComplex,
		Priority:  models.PriorityHigh,
		Status:    models.TaskStatusPending,
		Context:   ctx,
		CreatedAt: time.Now(),
	}

	if !o.manager.ForceAssign(task, FactCheckAgentID) {
		log.Printf("[orchestrator] WARNING: fact-check requested but agent %q is not registered; dropping task", FactCheckAgentID)
		return "", false
	}

	o.appendTask(wf, task)
	debugLog("[orchestrator] injected fact-check task %s into workflow %s", task.ID, wf.ID)
	o.emit(OrchestratorEvent{
		Type:       EventTaskInjected,
		WorkflowID: wf.ID,
		TaskID:     task.ID,
		TaskName:   task.Name,
		AgentID:    FactCheckAgentID,
	})
	return task.ID, true
}
