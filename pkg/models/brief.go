package models

import (
	"fmt"
	"strings"
)

// ContentBrief is the input description of desired content.
type ContentBrief struct {
	// Title is the working title of the content.
	Title string `json:"title" yaml:"title"`
	// Description explains what the content should cover.
	Description string `json:"description,omitempty" yaml:"description"`
	// Audience describes who the content is for.
	Audience string `json:"audience,omitempty" yaml:"audience"`
	// Goals are the outcomes the content should achieve.
	Goals []string `json:"goals,omitempty" yaml:"goals"`
	// Tone is the desired voice ("friendly", "formal").
	Tone string `json:"tone,omitempty" yaml:"tone"`
	// Keywords are terms the content should include.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords"`
}

// Validate checks that the brief carries enough to build a workflow from.
func (b *ContentBrief) Validate() error {
	if b == nil {
		return fmt.Errorf("brief is nil")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("brief title is required")
	}
	return nil
}

// ImageSource selects how an image task obtains its image.
type ImageSource string

const (
	// ImageSourceAI generates an image from a prompt.
	ImageSourceAI ImageSource = "ai"
	// ImageSourceStock searches a stock-photo catalog.
	ImageSourceStock ImageSource = "stock"
)

// Valid returns true if the source is a known value.
func (s ImageSource) Valid() bool {
	return s == ImageSourceAI || s == ImageSourceStock
}

// BuildOptions control which tasks BuildWorkflow appends for a brief.
type BuildOptions struct {
	// GenerateImage adds one image task ahead of the create/publish tasks.
	GenerateImage bool `json:"generate_image"`
	// ImageSource selects the AI or stock path when GenerateImage is set.
	ImageSource ImageSource `json:"image_source,omitempty"`
	// PublishImmediately adds one publish task per (platform, content type).
	PublishImmediately bool `json:"publish_immediately"`
	// ChannelID pre-populates the publish tasks' destination account.
	ChannelID string `json:"channel_id,omitempty"`
	// FactCheck requests injection of a fact-check task into the run.
	FactCheck bool `json:"fact_check"`
	// TestMode disables outbound delivery for the whole run.
	TestMode bool `json:"test_mode"`
	// UserID identifies who requested the run.
	UserID string `json:"user_id,omitempty"`
}
