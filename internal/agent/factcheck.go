package agent

import (
	"context"
	"fmt"
	"strings"

	"contentpipe/pkg/models"
)

// FactChecker reviews a brief's claims before publication. It always
// completes its task; findings travel in the result payload rather than as
// an execution error.
type FactChecker struct {
	completer Completer
}

// NewFactChecker creates a fact-checking worker.
// A nil completer enables offline mode, which always passes.
func NewFactChecker(completer Completer) *FactChecker {
	return &FactChecker{completer: completer}
}

// factCheckReport is the JSON shape the model is asked to return.
type factCheckReport struct {
	Verdict string   `json:"verdict"`
	Issues  []string `json:"issues"`
}

// ExecuteTask checks the brief attached to the task and reports a verdict.
func (f *FactChecker) ExecuteTask(ctx context.Context, task *models.Task) (map[string]any, error) {
	brief, _ := task.Context[models.CtxBrief].(*models.ContentBrief)
	if brief == nil {
		return nil, fmt.Errorf("fact-check task %s carries no brief", task.ID)
	}

	if f.completer == nil {
		return map[string]any{"verdict": "pass", "issues": []string{}}, nil
	}

	prompt := fmt.Sprintf(`Review the following content brief for factual claims that are
wrong, unverifiable, or misleading.

Title: %s
Description: %s

Return ONLY a JSON object with this exact structure (no other text):
{
  "verdict": "pass" or "fail",
  "issues": ["each problematic claim, if any"]
}`, brief.Title, brief.Description)

	var report factCheckReport
	if err := f.completer.RunJSON(ctx, prompt, &report); err != nil {
		return nil, fmt.Errorf("fact check: %w", err)
	}
	if report.Verdict == "" {
		report.Verdict = "pass"
	}
	report.Verdict = strings.ToLower(report.Verdict)

	return map[string]any{
		"verdict": report.Verdict,
		"issues":  report.Issues,
	}, nil
}
