package testutil

import (
	"testing"

	"bsync/internal/bsync"
	"bsync/internal/database"
)

// NewTestDatabase creates an in-memory SQLite database with migrations
// applied. It is closed automatically when the test finishes.
func NewTestDatabase(t *testing.T) bsync.Database {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
