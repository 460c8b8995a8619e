// Package state provides SQLite-based state management for contentpipe.
package state

import "io"

// ContentStore handles content-related persistence operations.
type ContentStore interface {
	SaveContent(rec *ContentRecord) error
	GetContent(briefID string) (*ContentRecord, error)
	AttachMedia(briefID, url string) error
}

// RunStore handles run-related persistence operations.
type RunStore interface {
	SaveRun(rec *RunRecord) error
	GetRun(id string) (*RunRecord, error)
	ListRecentRuns(limit int) ([]RunRecord, error)
}

// Migrator handles database schema migrations.
// Separating this allows clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store defines the interface for state persistence.
// This interface allows the CLI and orchestrator to work with any state
// backend without depending on the concrete SQLite implementation.
// It composes focused sub-interfaces for better modularity.
type Store interface {
	io.Closer
	Migrator
	ContentStore
	RunStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store        = (*DB)(nil)
	_ Migrator     = (*DB)(nil)
	_ ContentStore = (*DB)(nil)
	_ RunStore     = (*DB)(nil)
)
