package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"bsync/internal/bsync"
	"bsync/internal/config"
	"bsync/internal/database"
	"bsync/internal/fs"
	"bsync/internal/store"
	"bsync/internal/ui"
)

// App is the application layer between the CLI and SyncService. It
// constructs all dependencies from config, exposes high-level operations
// that accept raw string arguments, and manages the DB and log lifecycle
// on Close.
type App struct {
	cfg     *config.Config
	db      bsync.Database
	fsmgr   bsync.FilesystemManager
	logger  bsync.Logger
	op      *SyncOperation
	logFile *os.File
}

// RunOptions carries per-invocation overrides from CLI flags.
type RunOptions struct {
	IgnoredDirectories []string // merged with the configured ignore list
	AssumeYes          bool
	Visibility         string // "" means use config
	Concurrency        int    // <=0 means use config
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Sync", "Plan"). The caller
// must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating database: %w", err)
	}

	return &App{
		cfg:     cfg,
		db:      db,
		fsmgr:   fs.NewOSFilesystemManager(adapter),
		logger:  adapter,
		op:      NewSyncOperation(operation),
		logFile: logFile,
	}, nil
}

// Sync runs one full sync cycle against the configured object store.
// The store client is constructed here, once per process, and credential
// problems abort before any core logic runs.
func (a *App) Sync(ctx context.Context, root, bucket string, opts RunOptions) (*bsync.SyncResult, error) {
	a.op.LocalPath = root
	a.op.Bucket = bucket

	st, err := store.NewS3Store(ctx, a.cfg.AWS)
	if err != nil {
		a.op.Status = "error"
		return nil, err
	}

	if err := a.persistOperation(); err != nil {
		a.op.Status = "error"
		return nil, err
	}

	svc := a.newService(st, opts)
	result, err := svc.Sync(ctx, a.syncRequest(root, bucket, opts))
	if result != nil {
		a.op.Uploaded = int64(result.Uploaded)
		a.op.Failed = int64(result.Failed)
		if result.Plan != nil {
			a.op.Skipped = int64(result.Plan.Unmodified)
		}
		if result.Cancelled {
			a.op.Status = "cancelled"
		}
	}
	if err != nil {
		a.op.Status = "error"
		return result, err
	}
	return result, nil
}

// Plan computes the upload plan without mutating anything.
func (a *App) Plan(ctx context.Context, root, bucket string, opts RunOptions) (*bsync.UploadPlan, error) {
	a.op.LocalPath = root
	a.op.Bucket = bucket

	st, err := store.NewS3Store(ctx, a.cfg.AWS)
	if err != nil {
		a.op.Status = "error"
		return nil, err
	}

	if err := a.persistOperation(); err != nil {
		a.op.Status = "error"
		return nil, err
	}

	svc := a.newService(st, opts)
	plan, _, _, err := svc.Plan(ctx, a.syncRequest(root, bucket, opts))
	if err != nil {
		a.op.Status = "error"
		return nil, err
	}
	a.op.Skipped = int64(plan.Unmodified)
	return plan, nil
}

// History returns the most recent sync runs.
func (a *App) History(limit int) ([]*bsync.SyncRun, error) {
	return a.db.ListSyncRuns(limit)
}

func (a *App) newService(st bsync.ObjectStore, opts RunOptions) *bsync.SyncService {
	visibility := bsync.Visibility(a.cfg.Upload.Visibility)
	if opts.Visibility != "" {
		visibility = bsync.Visibility(opts.Visibility)
	}
	if visibility != bsync.VisibilityPrivate {
		visibility = bsync.VisibilityPublic
	}

	concurrency := a.cfg.Upload.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	confirmer := ui.NewPromptConfirmer(os.Stdin, os.Stdout, opts.AssumeYes)
	return bsync.NewSyncService(st, a.fsmgr, confirmer, a.logger, bsync.RealClock{}, bsync.UUIDGenerator{}, visibility, concurrency)
}

func (a *App) syncRequest(root, bucket string, opts RunOptions) bsync.SyncRequest {
	names := append([]string{}, a.cfg.Filesystem.Ignore...)
	names = append(names, opts.IgnoredDirectories...)
	return bsync.SyncRequest{
		Root:   root,
		Bucket: bucket,
		Ignore: bsync.NewIgnoreSet(names...),
	}
}

// persistOperation saves the operation to the database, giving it an
// auto-increment ID. Called before any store mutation.
func (a *App) persistOperation() error {
	if a.op.Persisted() {
		return nil
	}
	run, err := a.db.CreateSyncRun(a.op.Operation, a.op.LocalPath, a.op.Bucket)
	if err != nil {
		return fmt.Errorf("persisting sync operation: %w", err)
	}
	a.op.ID = run.ID
	return nil
}

// Close finalizes the operation record and closes all resources.
func (a *App) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.db.FinishSyncRun(a.op.ID, a.op.Status, a.op.Uploaded, a.op.Failed, a.op.Skipped); err != nil {
			firstErr = fmt.Errorf("finishing sync operation: %w", err)
		}
	}

	if err := a.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
