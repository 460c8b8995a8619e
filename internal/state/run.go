package state

import (
	"database/sql"
	"fmt"
	"time"
)

// RunStatus represents the final status of a recorded workflow run.
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// RunRecord is the persisted summary of one workflow execution.
type RunRecord struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Status         RunStatus     `json:"status"`
	CompletedTasks int           `json:"completed_tasks"`
	FailedTasks    int           `json:"failed_tasks"`
	TotalTasks     int           `json:"total_tasks"`
	Duration       time.Duration `json:"duration"`
	StartedAt      time.Time     `json:"started_at"`
}

// SaveRun inserts or replaces a run record.
func (db *DB) SaveRun(rec *RunRecord) error {
	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO runs (id, name, status, completed_tasks, failed_tasks, total_tasks, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			completed_tasks = excluded.completed_tasks,
			failed_tasks = excluded.failed_tasks,
			total_tasks = excluded.total_tasks,
			duration_ms = excluded.duration_ms
	`, rec.ID, rec.Name, string(rec.Status), rec.CompletedTasks, rec.FailedTasks, rec.TotalTasks,
		rec.Duration.Milliseconds(), formatTime(startedAt))
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run record by workflow id. Returns nil when no run
// with that id has been recorded.
func (db *DB) GetRun(id string) (*RunRecord, error) {
	row := db.QueryRow(`
		SELECT id, name, status, completed_tasks, failed_tasks, total_tasks, duration_ms, started_at
		FROM runs WHERE id = ?
	`, id)

	rec, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return rec, nil
}

// ListRecentRuns returns the most recent run records, newest first.
func (db *DB) ListRecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, name, status, completed_tasks, failed_tasks, total_tasks, duration_ms, started_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *rec)
	}
	return runs, nil
}

// scanRun reads one run row via the given scan function.
func scanRun(scan func(dest ...any) error) (*RunRecord, error) {
	var rec RunRecord
	var durationMS int64
	var startedAt string
	if err := scan(&rec.ID, &rec.Name, &rec.Status, &rec.CompletedTasks, &rec.FailedTasks,
		&rec.TotalTasks, &durationMS, &startedAt); err != nil {
		return nil, err
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.StartedAt, _ = parseTime(startedAt)
	return &rec, nil
}
