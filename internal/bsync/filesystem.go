package bsync

import "io"

// FilesystemManager abstracts local filesystem access so the service layer
// can be tested against an in-memory implementation.
type FilesystemManager interface {
	// Walk enumerates regular files beneath root, skipping any directory
	// whose base name is in ignore (together with its subtree) and
	// computing a fingerprint for each file. Unreadable entries are
	// skipped, never fatal. The result is sorted by relative key so the
	// inventory is stable within a run.
	Walk(root string, ignore IgnoreSet) ([]*LocalFile, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)
}
