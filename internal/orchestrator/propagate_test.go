package orchestrator

import (
	"testing"
	"time"

	"contentpipe/pkg/models"
)

func testWorkflow(tasks ...*models.Task) *models.Workflow {
	return &models.Workflow{
		ID:         "wf-test",
		Name:       "Content run: test",
		Status:     models.WorkflowStatusInProgress,
		Context:    map[string]any{models.CtxBriefID: "brief-wf"},
		Tasks:      tasks,
		TotalTasks: len(tasks),
		CreatedAt:  time.Now(),
	}
}

func createTaskFor(platform, contentType string) *models.Task {
	task := pendingTask("Create content: "+platform+"/"+contentType, models.CategoryPlanned)
	task.Context[models.CtxPlatform] = platform
	task.Context[models.CtxContentType] = contentType
	return task
}

func publishTaskFor(platform, contentType string) *models.Task {
	task := pendingTask("Publish to "+platform+": "+contentType, models.CategoryRealTime)
	task.ID = "publish-" + platform + "-" + contentType
	task.Context[models.CtxPlatform] = platform
	task.Context[models.CtxContentType] = contentType
	return task
}

func contentPayload(title string) map[string]any {
	return map[string]any{
		models.CtxContent: map[string]any{
			models.ContentTitle: title,
			models.ContentText:  "Body",
		},
	}
}

func TestPropagateContentFillsMatchingPublishTask(t *testing.T) {
	o := newTestOrchestrator()
	create := createTaskFor("telegram", "post")
	create.Status = models.TaskStatusCompleted
	publish := publishTaskFor("telegram", "post")
	wf := testWorkflow(create, publish)

	o.propagate(wf, create, contentPayload("Hello"))

	content := publish.ContentMap()
	if content[models.ContentTitle] != "Hello" {
		t.Errorf("publish title = %v, want Hello", content[models.ContentTitle])
	}
	if content[models.ContentText] != "Body" {
		t.Errorf("publish text = %v, want Body", content[models.ContentText])
	}
}

func TestPropagateContentFirstMatchOnly(t *testing.T) {
	o := newTestOrchestrator()
	create := createTaskFor("telegram", "post")
	create.Status = models.TaskStatusCompleted
	first := publishTaskFor("telegram", "post")
	first.ID = "publish-first"
	second := publishTaskFor("telegram", "post")
	second.ID = "publish-second"
	wf := testWorkflow(create, first, second)

	o.propagate(wf, create, contentPayload("Once"))

	if first.ContentMap()[models.ContentTitle] != "Once" {
		t.Error("first publish task did not receive the content")
	}
	if _, ok := second.Context[models.CtxContent]; ok {
		t.Error("second publish task should stay contentless (first match only)")
	}
}

func TestPropagateContentSkipsNonPendingAndMismatched(t *testing.T) {
	o := newTestOrchestrator()
	create := createTaskFor("telegram", "post")
	create.Status = models.TaskStatusCompleted

	completed := publishTaskFor("telegram", "post")
	completed.Status = models.TaskStatusCompleted
	otherType := publishTaskFor("telegram", "story")
	wf := testWorkflow(create, completed, otherType)

	o.propagate(wf, create, contentPayload("Skip"))

	if _, ok := completed.Context[models.CtxContent]; ok {
		t.Error("completed publish task must not be touched")
	}
	if _, ok := otherType.Context[models.CtxContent]; ok {
		t.Error("publish task for another content type must not be touched")
	}
}

func TestPropagateContentPreservesAttachedMedia(t *testing.T) {
	o := newTestOrchestrator()
	create := createTaskFor("telegram", "post")
	create.Status = models.TaskStatusCompleted
	publish := publishTaskFor("telegram", "post")
	// An earlier image propagation already attached media.
	publish.ContentMap()[models.ContentMediaURLs] = []string{"https://img.example/a.png"}
	wf := testWorkflow(create, publish)

	o.propagate(wf, create, contentPayload("Keep media"))

	content := publish.ContentMap()
	urls := toStringSlice(content[models.ContentMediaURLs])
	if len(urls) != 1 || urls[0] != "https://img.example/a.png" {
		t.Fatalf("media urls = %v, attached media was dropped", urls)
	}
	if content[models.ContentTitle] != "Keep media" {
		t.Errorf("title = %v, want Keep media", content[models.ContentTitle])
	}
}

func TestPropagateContentMergesMediaLists(t *testing.T) {
	o := newTestOrchestrator()
	create := createTaskFor("telegram", "post")
	create.Status = models.TaskStatusCompleted
	publish := publishTaskFor("telegram", "post")
	publish.ContentMap()[models.ContentMediaURLs] = []string{"https://img.example/a.png"}
	wf := testWorkflow(create, publish)

	payload := map[string]any{
		models.CtxContent: map[string]any{
			models.ContentTitle:     "Merged",
			models.ContentMediaURLs: []any{"https://img.example/a.png", "https://img.example/b.png"},
		},
	}
	o.propagate(wf, create, payload)

	urls := toStringSlice(publish.ContentMap()[models.ContentMediaURLs])
	if len(urls) != 2 {
		t.Fatalf("media urls = %v, want the two distinct urls", urls)
	}
	if urls[0] != "https://img.example/a.png" || urls[1] != "https://img.example/b.png" {
		t.Errorf("media urls = %v, want a then b", urls)
	}
}

func TestPropagateImageAppendsToAllPendingPublishTasks(t *testing.T) {
	o := newTestOrchestrator()
	image := pendingTask("Generate Image", models.CategoryComplex)
	image.Status = models.TaskStatusCompleted
	image.Context[models.CtxBriefID] = "brief-1"

	first := publishTaskFor("telegram", "post")
	second := publishTaskFor("telegram", "story")
	inFlight := publishTaskFor("telegram", "reel")
	inFlight.Status = models.TaskStatusInProgress
	create := createTaskFor("telegram", "post")
	wf := testWorkflow(image, create, first, second, inFlight)

	result := map[string]any{"image_url": "https://img.example/1.png"}
	o.propagate(wf, image, result)
	// A second propagation of the same URL must not duplicate it.
	o.propagate(wf, image, result)

	for _, task := range []*models.Task{first, second} {
		urls := toStringSlice(task.ContentMap()[models.ContentMediaURLs])
		if len(urls) != 1 || urls[0] != "https://img.example/1.png" {
			t.Errorf("task %s media urls = %v, want exactly one copy", task.ID, urls)
		}
	}
	if _, ok := inFlight.Context[models.CtxContent]; ok {
		t.Error("in-flight publish task must not be touched")
	}
	if _, ok := create.Context[models.CtxContent]; ok {
		t.Error("create task must not receive media")
	}
}

func TestPropagateImageNestedResultShape(t *testing.T) {
	o := newTestOrchestrator()
	image := pendingTask("Generate Image", models.CategoryComplex)
	image.Status = models.TaskStatusCompleted
	publish := publishTaskFor("telegram", "post")
	wf := testWorkflow(image, publish)

	o.propagate(wf, image, map[string]any{
		"result": map[string]any{"image_url": "https://img.example/nested.png"},
	})

	urls := toStringSlice(publish.ContentMap()[models.ContentMediaURLs])
	if len(urls) != 1 || urls[0] != "https://img.example/nested.png" {
		t.Fatalf("media urls = %v, want the nested url", urls)
	}
}

func TestPropagateImageRecordsMedia(t *testing.T) {
	media := &recordingMedia{}
	o := New(Config{EventBuffer: 64, Media: media})

	image := pendingTask("Generate Image", models.CategoryComplex)
	image.Status = models.TaskStatusCompleted
	image.Context[models.CtxBriefID] = "brief-task"
	wf := testWorkflow(image, publishTaskFor("telegram", "post"))

	o.propagate(wf, image, map[string]any{"image_url": "https://img.example/1.png"})

	if briefs := media.briefIDs(); len(briefs) != 1 || briefs[0] != "brief-task" {
		t.Fatalf("recorded briefs = %v, want the task's brief id", briefs)
	}

	// Without a task-level brief id the workflow's is used.
	bare := pendingTask("Generate Image", models.CategoryComplex)
	bare.Status = models.TaskStatusCompleted
	wf2 := testWorkflow(bare, publishTaskFor("telegram", "post"))
	o.propagate(wf2, bare, map[string]any{"image_url": "https://img.example/2.png"})

	if briefs := media.briefIDs(); len(briefs) != 2 || briefs[1] != "brief-wf" {
		t.Fatalf("recorded briefs = %v, want fallback to the workflow brief id", briefs)
	}
}

func TestPropagateIgnoresUnrelatedResults(t *testing.T) {
	o := newTestOrchestrator()
	publishDone := pendingTask("Publish to telegram: post", models.CategoryRealTime)
	publishDone.Status = models.TaskStatusCompleted
	pendingPublish := publishTaskFor("telegram", "post")
	wf := testWorkflow(publishDone, pendingPublish)

	// Publish results and nil results never propagate.
	o.propagate(wf, publishDone, map[string]any{"published": true})
	o.propagate(wf, publishDone, nil)

	if _, ok := pendingPublish.Context[models.CtxContent]; ok {
		t.Error("publish results must not propagate")
	}
}

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name   string
		result map[string]any
		want   string
	}{
		{"flat", map[string]any{"image_url": "u1"}, "u1"},
		{"nested", map[string]any{"result": map[string]any{"image_url": "u2"}}, "u2"},
		{"flat wins", map[string]any{"image_url": "u1", "result": map[string]any{"image_url": "u2"}}, "u1"},
		{"missing", map[string]any{"other": "x"}, ""},
		{"wrong type", map[string]any{"image_url": 7}, ""},
		{"empty flat falls through", map[string]any{"image_url": "", "result": map[string]any{"image_url": "u3"}}, "u3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractImageURL(tt.result); got != tt.want {
				t.Errorf("extractImageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendMediaURL(t *testing.T) {
	content := map[string]any{}
	if !appendMediaURL(content, "a") {
		t.Fatal("first append should report a change")
	}
	if appendMediaURL(content, "a") {
		t.Fatal("duplicate append should be a no-op")
	}
	if !appendMediaURL(content, "b") {
		t.Fatal("second distinct append should report a change")
	}
	urls := toStringSlice(content[models.ContentMediaURLs])
	if len(urls) != 2 || urls[0] != "a" || urls[1] != "b" {
		t.Errorf("urls = %v, want [a b]", urls)
	}

	// Lists that crossed a serialization boundary arrive as []any.
	content = map[string]any{models.ContentMediaURLs: []any{"a"}}
	if appendMediaURL(content, "a") {
		t.Error("duplicate in an []any list should be detected")
	}
}
