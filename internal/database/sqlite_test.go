package database_test

import (
	"testing"

	"bsync/internal/database"
)

func newTestDB(t *testing.T) *database.SQLiteDatabase {
	t.Helper()
	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteDatabase_SyncRuns(t *testing.T) {
	t.Run("creates and finishes a run", func(t *testing.T) {
		db := newTestDB(t)

		run, err := db.CreateSyncRun("Sync", "/src", "my-bucket")
		if err != nil {
			t.Fatalf("CreateSyncRun() error = %v", err)
		}
		if run.ID == 0 {
			t.Error("CreateSyncRun() returned ID 0")
		}
		if run.Status != "running" {
			t.Errorf("Status = %s, want running", run.Status)
		}

		if err := db.FinishSyncRun(run.ID, "success", 3, 1, 7); err != nil {
			t.Fatalf("FinishSyncRun() error = %v", err)
		}

		runs, err := db.ListSyncRuns(10)
		if err != nil {
			t.Fatalf("ListSyncRuns() error = %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("ListSyncRuns() returned %d runs, want 1", len(runs))
		}

		got := runs[0]
		if got.Status != "success" || got.Uploaded != 3 || got.Failed != 1 || got.Skipped != 7 {
			t.Errorf("run = %+v, want success/3/1/7", got)
		}
		if !got.FinishedAt.Valid {
			t.Error("FinishedAt not set")
		}
		if got.Bucket != "my-bucket" || got.LocalPath != "/src" {
			t.Errorf("run = %+v, want bucket/path preserved", got)
		}
	})

	t.Run("finishing an unknown run fails", func(t *testing.T) {
		db := newTestDB(t)
		if err := db.FinishSyncRun(999, "success", 0, 0, 0); err == nil {
			t.Error("FinishSyncRun() error = nil, want not-found error")
		}
	})

	t.Run("lists newest runs first with a limit", func(t *testing.T) {
		db := newTestDB(t)

		var lastID int64
		for i := 0; i < 5; i++ {
			run, err := db.CreateSyncRun("Sync", "/src", "b")
			if err != nil {
				t.Fatalf("CreateSyncRun() error = %v", err)
			}
			lastID = run.ID
		}

		runs, err := db.ListSyncRuns(3)
		if err != nil {
			t.Fatalf("ListSyncRuns() error = %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("ListSyncRuns(3) returned %d runs, want 3", len(runs))
		}
		if runs[0].ID != lastID {
			t.Errorf("first run ID = %d, want newest %d", runs[0].ID, lastID)
		}
	})
}
