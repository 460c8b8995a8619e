// Package agent defines the worker interface the scheduler delegates task
// execution to, plus the reference workers wired up by the CLI: content
// creation, image sourcing, publishing, and fact checking.
package agent

import (
	"context"

	"contentpipe/pkg/models"
)

// Agent executes tasks matched to it by the scheduler.
//
// ExecuteTask is the only operation in the engine expected to block: it
// talks to external generation and delivery services. The returned map is
// an open payload; the orchestrator copies relevant fields into dependent
// tasks' contexts after completion.
type Agent interface {
	ExecuteTask(ctx context.Context, task *models.Task) (map[string]any, error)
}

// Completer is the text-completion surface the AI-backed workers need.
// *api.Runner satisfies it.
type Completer interface {
	RunWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	RunJSON(ctx context.Context, prompt string, target interface{}) error
}

// stringList normalizes a list value that may arrive as []string or []any
// after passing through the context bag.
func stringList(value any) []string {
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
