package state

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return db
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path = %q, want %q", db.Path(), path)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	// Second run should be a no-op
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var version int
	row := db.QueryRow("SELECT MAX(version) FROM schema_version")
	if err := row.Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
}

func TestSaveAndGetContent(t *testing.T) {
	db := openTestDB(t)

	rec := &ContentRecord{
		BriefID:  "brief-1",
		Title:    "Launch",
		Body:     "We ship Monday",
		Hashtags: []string{"#launch"},
	}
	if err := db.SaveContent(rec); err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	got, err := db.GetContent("brief-1")
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetContent returned nil")
	}
	if got.Title != "Launch" || got.Body != "We ship Monday" {
		t.Errorf("content = %+v", got)
	}
	if len(got.Hashtags) != 1 || got.Hashtags[0] != "#launch" {
		t.Errorf("hashtags = %v", got.Hashtags)
	}
}

func TestGetContentMissing(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetContent("nope")
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing content, got %+v", got)
	}
}

func TestAttachMedia(t *testing.T) {
	db := openTestDB(t)

	// Attach before any content exists creates a stub row
	if err := db.AttachMedia("brief-2", "https://cdn.example/a.png"); err != nil {
		t.Fatalf("AttachMedia failed: %v", err)
	}

	got, err := db.GetContent("brief-2")
	if err != nil {
		t.Fatalf("GetContent failed: %v", err)
	}
	if got == nil || len(got.MediaURLs) != 1 {
		t.Fatalf("stub row = %+v", got)
	}

	// Re-attaching the same URL is a no-op
	if err := db.AttachMedia("brief-2", "https://cdn.example/a.png"); err != nil {
		t.Fatalf("AttachMedia repeat failed: %v", err)
	}
	got, _ = db.GetContent("brief-2")
	if len(got.MediaURLs) != 1 {
		t.Errorf("media_urls after duplicate attach = %v", got.MediaURLs)
	}

	// A different URL appends
	if err := db.AttachMedia("brief-2", "https://cdn.example/b.png"); err != nil {
		t.Fatalf("AttachMedia second url failed: %v", err)
	}
	got, _ = db.GetContent("brief-2")
	if len(got.MediaURLs) != 2 {
		t.Errorf("media_urls = %v", got.MediaURLs)
	}
}

func TestSaveContentPreservesAttachedMedia(t *testing.T) {
	db := openTestDB(t)

	if err := db.AttachMedia("brief-3", "https://cdn.example/pre.png"); err != nil {
		t.Fatalf("AttachMedia failed: %v", err)
	}

	// Saving content afterwards must not drop the attached URL
	if err := db.SaveContent(&ContentRecord{
		BriefID: "brief-3",
		Title:   "T",
		Body:    "B",
	}); err != nil {
		t.Fatalf("SaveContent failed: %v", err)
	}

	got, _ := db.GetContent("brief-3")
	if len(got.MediaURLs) != 1 || got.MediaURLs[0] != "https://cdn.example/pre.png" {
		t.Errorf("media_urls after save = %v", got.MediaURLs)
	}
}

func TestSaveAndListRuns(t *testing.T) {
	db := openTestDB(t)

	base := time.Now().Add(-time.Hour)
	for i, status := range []RunStatus{RunCompleted, RunFailed, RunCompleted} {
		rec := &RunRecord{
			ID:             string(rune('a' + i)),
			Name:           "run",
			Status:         status,
			CompletedTasks: i,
			TotalTasks:     3,
			Duration:       2 * time.Second,
			StartedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.SaveRun(rec); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := db.ListRecentRuns(2)
	if err != nil {
		t.Fatalf("ListRecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	// Newest first
	if runs[0].ID != "c" {
		t.Errorf("first run = %s, want c", runs[0].ID)
	}
	if runs[0].Duration != 2*time.Second {
		t.Errorf("duration round-trip = %v", runs[0].Duration)
	}
}

func TestGetRun(t *testing.T) {
	db := openTestDB(t)

	if got, err := db.GetRun("missing"); err != nil || got != nil {
		t.Errorf("missing run: got %+v, err %v", got, err)
	}

	rec := &RunRecord{ID: "wf1", Name: "n", Status: RunCompleted, TotalTasks: 1}
	if err := db.SaveRun(rec); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	got, err := db.GetRun("wf1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Status != RunCompleted {
		t.Errorf("status = %s", got.Status)
	}
}

func TestPurgeOldRuns(t *testing.T) {
	db := openTestDB(t)

	old := &RunRecord{ID: "old", Name: "n", Status: RunCompleted, StartedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &RunRecord{ID: "fresh", Name: "n", Status: RunCompleted, StartedAt: time.Now()}
	if err := db.SaveRun(old); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := db.SaveRun(fresh); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	count, err := db.PurgeOldRuns(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldRuns failed: %v", err)
	}
	if count != 1 {
		t.Errorf("purged = %d, want 1", count)
	}
	if got, _ := db.GetRun("fresh"); got == nil {
		t.Error("fresh run should survive purge")
	}
}
