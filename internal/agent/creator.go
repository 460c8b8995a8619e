package agent

import (
	"context"
	"fmt"
	"strings"

	"contentpipe/pkg/models"
)

// ContentCreator drafts platform-specific content from a brief.
// With no completer configured it produces deterministic offline content,
// which is what test mode uses.
type ContentCreator struct {
	completer Completer
}

// NewContentCreator creates a content creation worker.
// A nil completer enables offline mode.
func NewContentCreator(completer Completer) *ContentCreator {
	return &ContentCreator{completer: completer}
}

// createdContent is the JSON shape the model is asked to return.
type createdContent struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Hashtags []string `json:"hashtags"`
}

// ExecuteTask drafts content for the task's platform and content type.
// The result carries a "content" map that propagation merges into the
// matching publish task.
func (c *ContentCreator) ExecuteTask(ctx context.Context, task *models.Task) (map[string]any, error) {
	brief, _ := task.Context[models.CtxBrief].(*models.ContentBrief)
	if brief == nil {
		return nil, fmt.Errorf("create task %s carries no brief", task.ID)
	}
	platform := task.StringContext(models.CtxPlatform)
	contentType := task.StringContext(models.CtxContentType)

	var content createdContent
	if c.completer == nil {
		content = offlineContent(brief)
	} else {
		prompt := creatorPrompt(brief, platform, contentType)
		if err := c.completer.RunJSON(ctx, prompt, &content); err != nil {
			return nil, fmt.Errorf("draft content: %w", err)
		}
		if strings.TrimSpace(content.Text) == "" {
			return nil, fmt.Errorf("model returned empty content text")
		}
	}

	return map[string]any{
		models.CtxContent: map[string]any{
			models.ContentTitle:    content.Title,
			models.ContentText:     content.Text,
			models.ContentHashtags: content.Hashtags,
		},
	}, nil
}

// offlineContent builds deterministic content straight from the brief.
func offlineContent(brief *models.ContentBrief) createdContent {
	text := brief.Description
	if text == "" {
		text = brief.Title
	}
	hashtags := make([]string, 0, len(brief.Keywords))
	for _, kw := range brief.Keywords {
		hashtags = append(hashtags, "#"+strings.ReplaceAll(strings.ToLower(kw), " ", ""))
	}
	return createdContent{
		Title:    brief.Title,
		Text:     text,
		Hashtags: hashtags,
	}
}

// creatorPrompt renders the drafting prompt for one platform/type pair.
func creatorPrompt(brief *models.ContentBrief, platform, contentType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s for %s.\n\n", contentType, platform)
	fmt.Fprintf(&b, "Topic: %s\n", brief.Title)
	if brief.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", brief.Description)
	}
	if brief.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s\n", brief.Audience)
	}
	if len(brief.Goals) > 0 {
		fmt.Fprintf(&b, "Goals: %s\n", strings.Join(brief.Goals, "; "))
	}
	if brief.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", brief.Tone)
	}
	if len(brief.Keywords) > 0 {
		fmt.Fprintf(&b, "Include keywords: %s\n", strings.Join(brief.Keywords, ", "))
	}
	b.WriteString(`
Return ONLY a JSON object with this exact structure (no other text):
{
  "title": "short headline",
  "text": "the full content body",
  "hashtags": ["#tag1", "#tag2"]
}`)
	return b.String()
}
