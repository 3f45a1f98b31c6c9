package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bsync/internal/bsync"
	"bsync/internal/store"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put then get returns the body", func(t *testing.T) {
		s := store.NewMemoryStore()
		err := s.Put(ctx, "b", "k.txt", strings.NewReader("body"), "text/plain", bsync.VisibilityPublic)
		if err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		body, err := s.Get(ctx, "b", "k.txt")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(body) != "body" {
			t.Errorf("Get() = %q, want %q", body, "body")
		}
	})

	t.Run("get of a missing key returns ErrObjectNotFound", func(t *testing.T) {
		s := store.NewMemoryStore()
		_, err := s.Get(ctx, "b", "missing")
		if !errors.Is(err, bsync.ErrObjectNotFound) {
			t.Errorf("Get() error = %v, want ErrObjectNotFound", err)
		}
	})

	t.Run("list returns stored objects", func(t *testing.T) {
		s := store.NewMemoryStore()
		s.Put(ctx, "b", "a.txt", strings.NewReader("a"), "text/plain", bsync.VisibilityPublic)
		s.Put(ctx, "b", "c.txt", strings.NewReader("ccc"), "text/plain", bsync.VisibilityPrivate)

		objects, err := s.List(ctx, "b")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(objects) != 2 {
			t.Fatalf("List() returned %d objects, want 2", len(objects))
		}

		sizes := map[string]int64{}
		for _, obj := range objects {
			sizes[obj.Key] = obj.Size
		}
		if sizes["a.txt"] != 1 || sizes["c.txt"] != 3 {
			t.Errorf("sizes = %v, want a.txt:1 c.txt:3", sizes)
		}
	})

	t.Run("list of an unknown bucket is empty", func(t *testing.T) {
		s := store.NewMemoryStore()
		objects, err := s.List(ctx, "nope")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(objects) != 0 {
			t.Errorf("List() = %v, want empty", objects)
		}
	})

	t.Run("records content type and visibility", func(t *testing.T) {
		s := store.NewMemoryStore()
		s.Put(ctx, "b", "k.css", strings.NewReader("x"), "text/css", bsync.VisibilityPrivate)

		if ct, ok := s.ContentType("b", "k.css"); !ok || ct != "text/css" {
			t.Errorf("ContentType() = %q, %v, want text/css", ct, ok)
		}
		if vis, ok := s.Visibility("b", "k.css"); !ok || vis != bsync.VisibilityPrivate {
			t.Errorf("Visibility() = %q, %v, want private", vis, ok)
		}
	})

	t.Run("put overwrites an existing object", func(t *testing.T) {
		s := store.NewMemoryStore()
		s.Put(ctx, "b", "k", strings.NewReader("v1"), "text/plain", bsync.VisibilityPublic)
		s.Put(ctx, "b", "k", strings.NewReader("v2"), "text/plain", bsync.VisibilityPublic)

		body, _ := s.Get(ctx, "b", "k")
		if string(body) != "v2" {
			t.Errorf("Get() = %q, want v2", body)
		}
		if n := s.PutCount("b"); n != 1 {
			t.Errorf("PutCount() = %d, want 1", n)
		}
	})
}
