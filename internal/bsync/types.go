package bsync

// LocalFile represents one file discovered under the sync root.
// Instances are created during the directory walk and immutable afterwards.
type LocalFile struct {
	// Path is the absolute filesystem path of the file.
	Path string

	// RelativeKey is the path relative to the sync root with separators
	// normalized to forward slashes. It is the sole join key against
	// manifest entries and must not depend on platform separator
	// conventions.
	RelativeKey string

	// Fingerprint is the content hash, computed once per run.
	Fingerprint string

	// Size is the file size in bytes at walk time.
	Size int64
}

// FileStatus classifies a local file relative to the remote manifest.
type FileStatus int

const (
	// StatusNew means the file's key is absent from the remote manifest.
	StatusNew FileStatus = iota

	// StatusModified means the key is present but the fingerprint differs.
	StatusModified

	// StatusUnmodified means the key is present with an equal fingerprint.
	StatusUnmodified
)

func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnmodified:
		return "unmodified"
	default:
		return "unknown"
	}
}

// UploadPlan is the set of local files requiring upload, split by status.
// Unmodified files are excluded entirely.
type UploadPlan struct {
	Modified []*LocalFile
	New      []*LocalFile

	// Unmodified is the count of files excluded from the plan. Kept for
	// reporting; the files themselves are not retained here.
	Unmodified int
}

// Empty reports whether no local file differs from the remote manifest.
func (p *UploadPlan) Empty() bool {
	return len(p.Modified) == 0 && len(p.New) == 0
}

// Count returns the total number of files to upload.
func (p *UploadPlan) Count() int {
	return len(p.Modified) + len(p.New)
}

// IgnoreSet is a set of directory names (not paths). A directory is
// excluded together with its entire subtree if its base name is a member,
// regardless of nesting depth.
type IgnoreSet map[string]struct{}

// NewIgnoreSet builds an IgnoreSet from directory names.
// Empty names are dropped.
func NewIgnoreSet(names ...string) IgnoreSet {
	s := make(IgnoreSet, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether the given directory base name is ignored.
func (s IgnoreSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Visibility controls whether an uploaded object is publicly readable.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)
