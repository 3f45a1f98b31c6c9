package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"bsync/internal/bsync"
)

// defaultHashConcurrency bounds the fingerprinting worker pool.
// Fingerprinting is read-only and files are independent, so hashing fans
// out; the walk itself stays sequential.
const defaultHashConcurrency = 8

// OSFilesystemManager is the real filesystem implementation of
// bsync.FilesystemManager.
type OSFilesystemManager struct {
	logger          bsync.Logger
	hashConcurrency int
}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem. Warnings about skipped entries go to logger.
func NewOSFilesystemManager(logger bsync.Logger) *OSFilesystemManager {
	return &OSFilesystemManager{
		logger:          logger,
		hashConcurrency: defaultHashConcurrency,
	}
}

// Walk enumerates regular files beneath root. A directory whose base name
// is in ignore is skipped with its entire subtree, regardless of depth.
// Symlinks, special files, and unreadable entries are skipped with a
// warning; a single bad entry never aborts the walk. The result is sorted
// by relative key so the inventory is deterministic within a run.
func (m *OSFilesystemManager) Walk(root string, ignore bsync.IgnoreSet) ([]*bsync.LocalFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", absRoot)
	}

	var candidates []*bsync.LocalFile
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory or entry: skip, keep walking.
			m.logger.Warn("skipping unreadable entry", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != absRoot && ignore.Contains(d.Name()) {
				m.logger.Debug("skipping ignored directory", "path", p)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			m.logger.Warn("skipping non-regular file", "path", p)
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w", p, err)
		}
		f := &bsync.LocalFile{
			Path:        p,
			RelativeKey: filepath.ToSlash(rel),
		}
		if fi, err := d.Info(); err == nil {
			f.Size = fi.Size()
		}
		candidates = append(candidates, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	files := m.fingerprintAll(candidates)

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativeKey < files[j].RelativeKey
	})
	return files, nil
}

// fingerprintAll computes fingerprints across a bounded worker pool and
// drops files that could not be read. A hash failure is a distinct state,
// never a classification: the file is skipped with a warning.
func (m *OSFilesystemManager) fingerprintAll(candidates []*bsync.LocalFile) []*bsync.LocalFile {
	g := new(errgroup.Group)
	g.SetLimit(m.hashConcurrency)

	ok := make([]bool, len(candidates))
	for i, f := range candidates {
		i, f := i, f
		g.Go(func() error {
			fingerprint, err := m.fingerprintFile(f.Path)
			if err != nil {
				m.logger.Warn("skipping unreadable file", "path", f.Path, "error", err)
				return nil
			}
			f.Fingerprint = fingerprint
			ok[i] = true
			return nil
		})
	}
	g.Wait()

	files := make([]*bsync.LocalFile, 0, len(candidates))
	for i, f := range candidates {
		if ok[i] {
			files = append(files, f)
		}
	}
	return files
}

func (m *OSFilesystemManager) fingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return bsync.Fingerprint(f)
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Compile-time check that OSFilesystemManager implements bsync.FilesystemManager
var _ bsync.FilesystemManager = (*OSFilesystemManager)(nil)
