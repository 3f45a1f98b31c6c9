package database

import (
	"database/sql"
	"fmt"
	"time"

	"bsync/internal/bsync"
	"bsync/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the bsync.Database run-history journal using
// SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens (or creates) the database at path and applies
// pending migrations. path can be a file path or ":memory:".
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the
// appropriate PRAGMAs. Exported for tools and tests.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// CreateSyncRun records the start of a run.
func (s *SQLiteDatabase) CreateSyncRun(operation, localPath, bucket string) (*bsync.SyncRun, error) {
	startedAt := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO sync_runs (operation, local_path, bucket, started_at, status)
		 VALUES (?, ?, ?, ?, 'running')`,
		operation, localPath, bucket, startedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sync run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading sync run id: %w", err)
	}

	return &bsync.SyncRun{
		ID:        id,
		Operation: operation,
		LocalPath: localPath,
		Bucket:    bucket,
		StartedAt: startedAt,
		Status:    "running",
	}, nil
}

// FinishSyncRun sets the final status and counters of a run.
func (s *SQLiteDatabase) FinishSyncRun(id int64, status string, uploaded, failed, skipped int64) error {
	res, err := s.db.Exec(
		`UPDATE sync_runs
		 SET finished_at = ?, status = ?, uploaded = ?, failed = ?, skipped = ?
		 WHERE id = ?`,
		time.Now().UTC(), status, uploaded, failed, skipped, id,
	)
	if err != nil {
		return fmt.Errorf("finishing sync run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("sync run not found: %d", id)
	}
	return nil
}

// ListSyncRuns returns the most recent runs, newest first.
func (s *SQLiteDatabase) ListSyncRuns(limit int) ([]*bsync.SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, operation, local_path, bucket, started_at, finished_at, status, uploaded, failed, skipped
		 FROM sync_runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*bsync.SyncRun
	for rows.Next() {
		run := &bsync.SyncRun{}
		if err := rows.Scan(
			&run.ID, &run.Operation, &run.LocalPath, &run.Bucket,
			&run.StartedAt, &run.FinishedAt, &run.Status,
			&run.Uploaded, &run.Failed, &run.Skipped,
		); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase implements bsync.Database
var _ bsync.Database = (*SQLiteDatabase)(nil)
