package testutil

import (
	"context"
	"fmt"
	"io"

	"bsync/internal/bsync"
	"bsync/internal/store"
)

// NewTestStore creates a new in-memory object store for testing.
func NewTestStore() *store.MemoryStore {
	return store.NewMemoryStore()
}

// FlakyStore wraps a MemoryStore and fails Put for selected keys,
// simulating per-file upload errors and manifest publish errors.
type FlakyStore struct {
	*store.MemoryStore

	// FailPut lists keys whose Put fails.
	FailPut map[string]bool
}

// NewFlakyStore creates a FlakyStore with no failures configured.
func NewFlakyStore() *FlakyStore {
	return &FlakyStore{
		MemoryStore: store.NewMemoryStore(),
		FailPut:     make(map[string]bool),
	}
}

// Put fails for configured keys and otherwise delegates to the memory store.
func (f *FlakyStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string, vis bsync.Visibility) error {
	if f.FailPut[key] {
		return fmt.Errorf("injected put failure for %s", key)
	}
	return f.MemoryStore.Put(ctx, bucket, key, body, contentType, vis)
}

// Compile-time check that FlakyStore implements bsync.ObjectStore
var _ bsync.ObjectStore = (*FlakyStore)(nil)
