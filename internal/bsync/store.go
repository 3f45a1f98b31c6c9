package bsync

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned by ObjectStore.Get when the key does not
// exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes one remote object from a bucket listing.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the narrow object-store contract the core depends on.
// Transport concerns (connection setup, authentication, per-call retries)
// belong to the implementation, not to callers.
type ObjectStore interface {
	// List returns the current listing of object keys in the bucket.
	List(ctx context.Context, bucket string) ([]ObjectInfo, error)

	// Get fetches the body of an object. Returns ErrObjectNotFound when
	// the key does not exist.
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Put uploads an object with the given content type and visibility.
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string, vis Visibility) error
}
