package orchestrator

import (
	"log"
	"strings"

	"contentpipe/pkg/models"
)

// Result map keys agents use for image outputs. Both the flat and the
// nested shape are supported because the two generation paths return
// slightly different payloads.
const (
	resultImageURL = "image_url"
	resultNested   = "result"
)

// propagate copies a completed task's output fields into the context of
// dependent, still-pending tasks in the same workflow. A completed task
// with no matching consumer is a no-op, not an error.
func (o *Orchestrator) propagate(wf *models.Workflow, task *models.Task, result map[string]any) {
	if result == nil {
		return
	}
	switch {
	case strings.Contains(task.Name, "Create"):
		o.propagateContent(wf, task, result)
	case strings.Contains(task.Name, "Image"):
		o.propagateImage(wf, task, result)
	}
}

// propagateContent merges a create task's content payload into the first
// pending publish task with the same platform and content type.
//
// Only the first match is updated: when duplicate publish tasks share one
// (platform, contentType) pair the later ones stay contentless. Kept as a
// documented limitation rather than fanning out.
func (o *Orchestrator) propagateContent(wf *models.Workflow, task *models.Task, result map[string]any) {
	content, ok := result[models.CtxContent].(map[string]any)
	if !ok || len(content) == 0 {
		debugLog("[propagate] create task %s produced no content payload", task.ID)
		return
	}

	platform := task.StringContext(models.CtxPlatform)
	contentType := task.StringContext(models.CtxContentType)
	tasks := o.snapshotTasks(wf)

	o.manager.mu.Lock()
	defer o.manager.mu.Unlock()

	for _, candidate := range tasks {
		if candidate.ID == task.ID {
			continue
		}
		if candidate.Status != models.TaskStatusPending {
			continue
		}
		if !strings.Contains(candidate.Name, "Publish") {
			continue
		}
		if candidate.StringContext(models.CtxPlatform) != platform ||
			candidate.StringContext(models.CtxContentType) != contentType {
			continue
		}

		dst := candidate.ContentMap()
		for key, value := range content {
			if key == models.ContentMediaURLs {
				// Merge, never drop media already attached by an
				// earlier image propagation.
				for _, url := range toStringSlice(value) {
					appendMediaURL(dst, url)
				}
				continue
			}
			dst[key] = value
		}

		debugLog("[propagate] content from %s -> publish task %s (%s/%s)", task.ID, candidate.ID, platform, contentType)
		o.emit(OrchestratorEvent{
			Type:       EventContentPropagated,
			WorkflowID: wf.ID,
			TaskID:     candidate.ID,
			TaskName:   candidate.Name,
		})
		return
	}

	debugLog("[propagate] no pending publish task matches %s/%s for create task %s", platform, contentType, task.ID)
}

// propagateImage extracts the produced image URL, records it against the
// originating brief, and appends it to every still-pending publish task's
// media list. The append is idempotent per URL.
func (o *Orchestrator) propagateImage(wf *models.Workflow, task *models.Task, result map[string]any) {
	url := extractImageURL(result)
	if url == "" {
		debugLog("[propagate] image task %s returned no image url", task.ID)
		return
	}

	briefID := task.StringContext(models.CtxBriefID)
	if briefID == "" {
		briefID = wf.StringContext(models.CtxBriefID)
	}
	if o.media != nil && briefID != "" {
		if err := o.media.AttachMedia(briefID, url); err != nil {
			log.Printf("[orchestrator] WARNING: record image for brief %s: %v", briefID, err)
		}
	}

	tasks := o.snapshotTasks(wf)

	o.manager.mu.Lock()
	defer o.manager.mu.Unlock()

	attached := 0
	for _, candidate := range tasks {
		if candidate.Status != models.TaskStatusPending {
			continue
		}
		if !strings.Contains(candidate.Name, "Publish") {
			continue
		}
		if appendMediaURL(candidate.ContentMap(), url) {
			attached++
		}
	}

	if attached > 0 {
		debugLog("[propagate] image %s attached to %d publish tasks", url, attached)
		o.emit(OrchestratorEvent{
			Type:       EventImageAttached,
			WorkflowID: wf.ID,
			TaskID:     task.ID,
			Message:    url,
		})
	}
}

// emit forwards an event through the emitter.
func (o *Orchestrator) emit(event OrchestratorEvent) {
	o.emitter.Emit(event)
}

// extractImageURL reads the image URL from a result map, supporting both a
// direct field and a nested result object.
func extractImageURL(result map[string]any) string {
	if url, ok := result[resultImageURL].(string); ok && url != "" {
		return url
	}
	if nested, ok := result[resultNested].(map[string]any); ok {
		if url, ok := nested[resultImageURL].(string); ok {
			return url
		}
	}
	return ""
}

// appendMediaURL appends the URL to the content's media list unless it is
// already present. Returns true when the list changed.
func appendMediaURL(content map[string]any, url string) bool {
	urls := toStringSlice(content[models.ContentMediaURLs])
	for _, existing := range urls {
		if existing == url {
			return false
		}
	}
	content[models.ContentMediaURLs] = append(urls, url)
	return true
}

// toStringSlice normalizes a list value that may arrive as []string or
// []any depending on which agent produced it.
func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
