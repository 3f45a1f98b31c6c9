package testutil

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"bsync/internal/bsync"
)

// MockFilesystemManager is an in-memory filesystem for testing. Paths use
// forward slashes; files are added with absolute paths.
type MockFilesystemManager struct {
	files map[string][]byte

	// Unreadable marks paths whose open (and therefore fingerprinting)
	// fails, simulating permission errors.
	Unreadable map[string]bool
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:      make(map[string][]byte),
		Unreadable: make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(p string, content []byte) {
	m.files[p] = content
}

// Walk enumerates files under root, honoring the ignore set the same way
// the real walker does: any path segment matching an ignored name excludes
// the file. Unreadable files are dropped, not fatal.
func (m *MockFilesystemManager) Walk(root string, ignore bsync.IgnoreSet) ([]*bsync.LocalFile, error) {
	prefix := strings.TrimSuffix(root, "/") + "/"

	var files []*bsync.LocalFile
	for p, content := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rel := strings.TrimPrefix(p, prefix)

		skip := false
		for _, segment := range strings.Split(path.Dir(rel), "/") {
			if ignore.Contains(segment) {
				skip = true
				break
			}
		}
		if skip || m.Unreadable[p] {
			continue
		}

		fingerprint, err := bsync.Fingerprint(bytes.NewReader(content))
		if err != nil {
			continue
		}
		files = append(files, &bsync.LocalFile{
			Path:        p,
			RelativeKey: rel,
			Fingerprint: fingerprint,
			Size:        int64(len(content)),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativeKey < files[j].RelativeKey
	})
	return files, nil
}

// Open opens a file for reading.
func (m *MockFilesystemManager) Open(p string) (io.ReadCloser, error) {
	if m.Unreadable[p] {
		return nil, fmt.Errorf("permission denied: %s", p)
	}
	content, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// Compile-time check that MockFilesystemManager implements bsync.FilesystemManager
var _ bsync.FilesystemManager = (*MockFilesystemManager)(nil)
