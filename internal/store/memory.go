package store

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"bsync/internal/bsync"
)

// memoryObject is one stored object with its upload attributes.
type memoryObject struct {
	body         []byte
	contentType  string
	visibility   bsync.Visibility
	lastModified time.Time
}

// MemoryStore is an in-memory implementation of bsync.ObjectStore. It
// retains content type and visibility alongside each body, making it
// useful for asserting upload attributes in tests. Safe for concurrent use.
type MemoryStore struct {
	buckets map[string]map[string]*memoryObject
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory object store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]map[string]*memoryObject),
	}
}

// List returns the objects in a bucket. An unknown bucket lists as empty.
func (m *MemoryStore) List(_ context.Context, bucket string) ([]bsync.ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var objects []bsync.ObjectInfo
	for key, obj := range m.buckets[bucket] {
		objects = append(objects, bsync.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.body)),
			LastModified: obj.lastModified,
		})
	}
	return objects, nil
}

// Get returns a copy of an object body.
func (m *MemoryStore) Get(_ context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.buckets[bucket][key]
	if !ok {
		return nil, bsync.ErrObjectNotFound
	}
	body := make([]byte, len(obj.body))
	copy(body, obj.body)
	return body, nil
}

// Put stores an object, creating the bucket on first use.
func (m *MemoryStore) Put(_ context.Context, bucket, key string, body io.Reader, contentType string, vis bsync.Visibility) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string]*memoryObject)
	}
	m.buckets[bucket][key] = &memoryObject{
		body:         data,
		contentType:  contentType,
		visibility:   vis,
		lastModified: time.Now(),
	}
	return nil
}

// ContentType returns the content type an object was stored with.
func (m *MemoryStore) ContentType(bucket, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.buckets[bucket][key]
	if !ok {
		return "", false
	}
	return obj.contentType, true
}

// Visibility returns the visibility an object was stored with.
func (m *MemoryStore) Visibility(bucket, key string) (bsync.Visibility, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.buckets[bucket][key]
	if !ok {
		return "", false
	}
	return obj.visibility, true
}

// PutCount returns the number of objects in a bucket.
func (m *MemoryStore) PutCount(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets[bucket])
}

// Compile-time check that MemoryStore implements bsync.ObjectStore
var _ bsync.ObjectStore = (*MemoryStore)(nil)
