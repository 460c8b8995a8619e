package models

import "testing"

func TestWorkflowStatusValid(t *testing.T) {
	valid := []WorkflowStatus{
		WorkflowStatusCreated, WorkflowStatusInProgress,
		WorkflowStatusCompleted, WorkflowStatusFailed, WorkflowStatusCancelled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if WorkflowStatus("paused").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestWorkflowStringContext(t *testing.T) {
	wf := &Workflow{Context: map[string]any{
		CtxUserID:  "u-1",
		CtxBriefID: "b-1",
	}}

	if got := wf.StringContext(CtxUserID); got != "u-1" {
		t.Errorf("expected u-1, got %q", got)
	}
	if got := (&Workflow{}).StringContext(CtxUserID); got != "" {
		t.Errorf("expected empty string for nil context, got %q", got)
	}
}

func TestBriefValidate(t *testing.T) {
	brief := &ContentBrief{Title: "Launch post"}
	if err := brief.Validate(); err != nil {
		t.Errorf("expected valid brief, got %v", err)
	}

	if err := (&ContentBrief{Title: "   "}).Validate(); err == nil {
		t.Error("expected error for blank title")
	}

	var nilBrief *ContentBrief
	if err := nilBrief.Validate(); err == nil {
		t.Error("expected error for nil brief")
	}
}

func TestImageSourceValid(t *testing.T) {
	if !ImageSourceAI.Valid() || !ImageSourceStock.Valid() {
		t.Error("expected ai and stock to be valid")
	}
	if ImageSource("dalle").Valid() {
		t.Error("expected unknown source to be invalid")
	}
}
