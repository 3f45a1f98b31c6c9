package bsync

import (
	"database/sql"
	"time"
)

// SyncRun is one recorded invocation of a sync or plan operation.
type SyncRun struct {
	ID         int64
	Operation  string // "Sync" or "Plan"
	LocalPath  string
	Bucket     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Status     string // "success", "cancelled", or "error"
	Uploaded   int64
	Failed     int64
	Skipped    int64
}

// Database is the local run-history journal. It records what each run did
// and is never consulted for change detection; the remote manifest is the
// single source of truth for remote state.
type Database interface {
	// CreateSyncRun records the start of a run and returns it with its
	// assigned ID.
	CreateSyncRun(operation, localPath, bucket string) (*SyncRun, error)

	// FinishSyncRun sets the final status and counters of a run.
	FinishSyncRun(id int64, status string, uploaded, failed, skipped int64) error

	// ListSyncRuns returns the most recent runs, newest first.
	ListSyncRuns(limit int) ([]*SyncRun, error)

	Close() error
}
