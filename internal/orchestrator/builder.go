package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"contentpipe/pkg/models"
)

// BuildWorkflow creates a workflow for the brief and returns its id.
//
// Task order is fixed: one image task first (when requested), then one
// create task per (platform, contentType) pair, then one publish task per
// pair (when publishing immediately). Publish tasks carry everything known
// at build time except the content itself, which propagation fills in after
// the matching create task completes.
//
// Build-time validation failures return an error before any task exists;
// no partial workflow is ever registered.
func (o *Orchestrator) BuildWorkflow(brief *models.ContentBrief, platforms, contentTypes []string, opts models.BuildOptions) (string, error) {
	if err := brief.Validate(); err != nil {
		return "", fmt.Errorf("invalid brief: %w", err)
	}
	if len(platforms) == 0 {
		return "", fmt.Errorf("at least one platform is required")
	}
	if len(contentTypes) == 0 {
		return "", fmt.Errorf("at least one content type is required")
	}
	for _, p := range platforms {
		if strings.TrimSpace(p) == "" {
			return "", fmt.Errorf("platform names must not be blank")
		}
	}
	for _, ct := range contentTypes {
		if strings.TrimSpace(ct) == "" {
			return "", fmt.Errorf("content type names must not be blank")
		}
	}

	imageSource := opts.ImageSource
	if opts.GenerateImage {
		if imageSource == "" {
			imageSource = models.ImageSourceAI
		}
		if !imageSource.Valid() {
			return "", fmt.Errorf("unknown image source %q", opts.ImageSource)
		}
	}

	briefID := uuid.New().String()
	wf := &models.Workflow{
		ID:     uuid.New().String()[:8],
		Name:   "Content run: " + brief.Title,
		Status: models.WorkflowStatusCreated,
		Context: map[string]any{
			models.CtxBrief:    brief,
			models.CtxBriefID:  briefID,
			models.CtxUserID:   opts.UserID,
			models.CtxTestMode: opts.TestMode,
		},
		CreatedAt: time.Now(),
	}
	if opts.ChannelID != "" {
		wf.Context[models.CtxAccountID] = opts.ChannelID
	}

	if opts.GenerateImage {
		wf.Tasks = append(wf.Tasks, newImageTask(brief, briefID, imageSource, opts))
	}

	for _, platform := range platforms {
		for _, contentType := range contentTypes {
			wf.Tasks = append(wf.Tasks, newCreateTask(brief, briefID, platform, contentType))
		}
	}

	if opts.PublishImmediately {
		for _, platform := range platforms {
			for _, contentType := range contentTypes {
				wf.Tasks = append(wf.Tasks, newPublishTask(briefID, platform, contentType, opts))
			}
		}
	}

	wf.TotalTasks = len(wf.Tasks)

	o.mu.Lock()
	o.workflows[wf.ID] = wf
	o.mu.Unlock()

	debugLog("[orchestrator] built workflow %s (%q) with %d tasks", wf.ID, wf.Name, wf.TotalTasks)
	return wf.ID, nil
}

// newCreateTask builds the content-creation task for one platform/type pair.
func newCreateTask(brief *models.ContentBrief, briefID, platform, contentType string) *models.Task {
	return &models.Task{
		ID:       uuid.New().String(),
		Name:     fmt.Sprintf("Create content: %s/%s", platform, contentType),
		Category: models.CategoryPlanned,
		Priority: models.PriorityMedium,
		Status:   models.TaskStatusPending,
		Context: map[string]any{
			models.CtxBrief:       brief,
			models.CtxBriefID:     briefID,
			models.CtxPlatform:    platform,
			models.CtxContentType: contentType,
		},
		CreatedAt: time.Now(),
	}
}

// newImageTask builds the single image task for the brief. It carries either
// an AI generation prompt or a stock search query depending on the source.
func newImageTask(brief *models.ContentBrief, briefID string, source models.ImageSource, opts models.BuildOptions) *models.Task {
	ctx := map[string]any{
		models.CtxBriefID:     briefID,
		models.CtxImageSource: string(source),
	}

	var name string
	if source == models.ImageSourceStock {
		name = "Find Stock Image"
		ctx[models.CtxImageQuery] = imageQuery(brief)
	} else {
		name = "Generate Image"
		ctx[models.CtxImagePrompt] = imagePrompt(brief)
	}

	return &models.Task{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  models.CategoryComplex,
		Priority:  models.PriorityMedium,
		Status:    models.TaskStatusPending,
		Context:   ctx,
		CreatedAt: time.Now(),
	}
}

// newPublishTask builds a publish task pre-populated with everything known
// at build time. The content itself arrives via propagation.
func newPublishTask(briefID, platform, contentType string, opts models.BuildOptions) *models.Task {
	ctx := map[string]any{
		models.CtxBriefID:     briefID,
		models.CtxPlatform:    platform,
		models.CtxContentType: contentType,
		models.CtxTestMode:    opts.TestMode,
	}
	if opts.ChannelID != "" {
		ctx[models.CtxAccountID] = opts.ChannelID
	}

	return &models.Task{
		ID:        uuid.New().String(),
		Name:      fmt.Sprintf("Publish to %s: %s", platform, contentType),
		Category:  models.CategoryRealTime,
		Priority:  models.PriorityHigh,
		Status:    models.TaskStatusPending,
		Context:   ctx,
		CreatedAt: time.Now(),
	}
}

// imagePrompt derives an AI generation prompt from the brief.
func imagePrompt(brief *models.ContentBrief) string {
	var b strings.Builder
	fmt.Fprintf(&b, "An illustration for %q", brief.Title)
	if brief.Description != "" {
		fmt.Fprintf(&b, ": %s", brief.Description)
	}
	if brief.Tone != "" {
		fmt.Fprintf(&b, ". Style: %s", brief.Tone)
	}
	return b.String()
}

// imageQuery derives a stock-photo search query from the brief.
func imageQuery(brief *models.ContentBrief) string {
	if len(brief.Keywords) > 0 {
		return strings.Join(brief.Keywords, " ")
	}
	return brief.Title
}
