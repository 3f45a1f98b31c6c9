package bsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Confirmer asks the user whether the computed plan should be executed.
// Implementations present the plan and block for an answer.
type Confirmer interface {
	ConfirmUpload(plan *UploadPlan) (bool, error)
}

// ManifestPublishError reports that data uploads succeeded but the manifest
// could not be republished. Remote state is now ahead of the manifest, so
// the run must not be reported as a generic success.
type ManifestPublishError struct {
	Err error
}

func (e *ManifestPublishError) Error() string {
	return fmt.Sprintf("manifest publish failed, remote objects are ahead of the manifest: %v", e.Err)
}

func (e *ManifestPublishError) Unwrap() error { return e.Err }

// SyncRequest describes one sync or plan invocation.
type SyncRequest struct {
	Root   string
	Bucket string
	Ignore IgnoreSet
}

// SyncResult summarizes what a run did.
type SyncResult struct {
	Plan      *UploadPlan
	Uploaded  int
	Failed    int
	Cancelled bool
}

// SyncService drives one full sync cycle: inventory, diff, confirmation,
// uploads, and manifest republish.
type SyncService struct {
	store       ObjectStore
	fsmgr       FilesystemManager
	confirmer   Confirmer
	logger      Logger
	clock       Clock
	idgen       IDGenerator
	visibility  Visibility
	concurrency int
}

// NewSyncService creates a SyncService with the provided dependencies.
// visibility applies to data objects only; the manifest is always private.
// concurrency bounds the upload worker pool and defaults to 1 (strictly
// sequential) when not positive.
func NewSyncService(store ObjectStore, fsmgr FilesystemManager, confirmer Confirmer, logger Logger, clock Clock, idgen IDGenerator, visibility Visibility, concurrency int) *SyncService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &SyncService{
		store:       store,
		fsmgr:       fsmgr,
		confirmer:   confirmer,
		logger:      logger,
		clock:       clock,
		idgen:       idgen,
		visibility:  visibility,
		concurrency: concurrency,
	}
}

// Plan builds the local inventory, loads the remote manifest, and returns
// the resulting upload plan without mutating anything.
func (s *SyncService) Plan(ctx context.Context, req SyncRequest) (*UploadPlan, []*LocalFile, Manifest, error) {
	inventory, err := s.fsmgr.Walk(req.Root, req.Ignore)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("walking %s: %w", req.Root, err)
	}
	s.logger.Debug("local inventory built", "root", req.Root, "files", len(inventory))

	remote := s.LoadRemoteManifest(ctx, req.Bucket)
	plan := BuildPlan(inventory, remote)
	s.logger.Info("plan computed",
		"new", len(plan.New),
		"modified", len(plan.Modified),
		"unmodified", plan.Unmodified,
	)
	return plan, inventory, remote, nil
}

// Sync runs one full cycle. An empty plan or a rejected confirmation
// terminates without any network mutation. Per-file upload failures are
// reported and do not abort remaining uploads; a manifest publish failure
// is returned as a ManifestPublishError.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	started := s.clock.Now()
	runID := s.idgen.New()
	s.logger.Info("sync started", "run_id", runID, "root", req.Root, "bucket", req.Bucket)

	plan, inventory, remote, err := s.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	result := &SyncResult{Plan: plan}

	if plan.Empty() {
		s.logger.Info("nothing to upload", "bucket", req.Bucket)
		return result, nil
	}

	ok, err := s.confirmer.ConfirmUpload(plan)
	if err != nil {
		return nil, fmt.Errorf("confirming upload: %w", err)
	}
	if !ok {
		s.logger.Info("upload cancelled")
		result.Cancelled = true
		return result, nil
	}

	// Modified files first, then new files. Each batch fans out across a
	// bounded pool; the next step never starts before the batch settles.
	failed := make(map[string]struct{})
	s.uploadBatch(ctx, req.Bucket, plan.Modified, failed)
	s.uploadBatch(ctx, req.Bucket, plan.New, failed)

	result.Uploaded = plan.Count() - len(failed)
	result.Failed = len(failed)

	// The new manifest covers the complete inventory, not just the
	// uploaded subset. Entries for files whose upload failed keep the
	// previous remote fingerprint (or are omitted when the file was new)
	// so the next run retries them.
	newManifest := make(Manifest, len(inventory))
	for _, f := range inventory {
		if _, bad := failed[f.RelativeKey]; bad {
			if prev, ok := remote[f.RelativeKey]; ok {
				newManifest[f.RelativeKey] = prev
			}
			continue
		}
		newManifest[f.RelativeKey] = f.Fingerprint
	}

	if err := s.publishManifest(ctx, req.Bucket, newManifest); err != nil {
		return result, &ManifestPublishError{Err: err}
	}

	s.logger.Info("sync complete",
		"run_id", runID,
		"bucket", req.Bucket,
		"uploaded", result.Uploaded,
		"failed", result.Failed,
		"duration", s.clock.Now().Sub(started).String(),
	)
	return result, nil
}

// LoadRemoteManifest retrieves and parses the manifest object from the
// bucket. A missing object, a listing or fetch failure, or a malformed body
// all yield an empty manifest: that is the "first sync ever" fallback and
// never an error that aborts the run.
func (s *SyncService) LoadRemoteManifest(ctx context.Context, bucket string) Manifest {
	objects, err := s.store.List(ctx, bucket)
	if err != nil {
		s.logger.Warn("listing bucket failed, assuming no prior manifest", "bucket", bucket, "error", err)
		return Manifest{}
	}

	present := false
	for _, obj := range objects {
		if obj.Key == ManifestKey {
			present = true
			break
		}
	}
	if !present {
		s.logger.Info("no manifest in bucket, treating all files as new", "bucket", bucket)
		return Manifest{}
	}

	body, err := s.store.Get(ctx, bucket, ManifestKey)
	if err != nil {
		s.logger.Warn("fetching manifest failed, assuming no prior manifest", "bucket", bucket, "error", err)
		return Manifest{}
	}

	m, err := DecodeManifest(bytes.NewReader(body))
	if err != nil {
		s.logger.Warn("parsing manifest failed, assuming no prior manifest", "bucket", bucket, "error", err)
		return Manifest{}
	}
	return m
}

// uploadBatch uploads the given files through a bounded worker pool and
// records the relative keys of failures. Individual failures never abort
// the batch.
func (s *SyncService) uploadBatch(ctx context.Context, bucket string, files []*LocalFile, failed map[string]struct{}) {
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)

	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := s.uploadOne(ctx, bucket, f); err != nil {
				s.logger.Error("upload failed", "key", f.RelativeKey, "error", err)
				mu.Lock()
				failed[f.RelativeKey] = struct{}{}
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()
}

func (s *SyncService) uploadOne(ctx context.Context, bucket string, f *LocalFile) error {
	r, err := s.fsmgr.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer r.Close()

	s.logger.Info("uploading", "key", f.RelativeKey, "bucket", bucket)
	if err := s.store.Put(ctx, bucket, f.RelativeKey, r, ContentTypeForKey(f.RelativeKey), s.visibility); err != nil {
		return fmt.Errorf("putting %s: %w", f.RelativeKey, err)
	}
	return nil
}

// publishManifest serializes the manifest to a transient local file,
// uploads it to the well-known key with private visibility, then removes
// the local copy. Removal failure is a warning only; it does not affect
// the correctness of the published manifest.
func (s *SyncService) publishManifest(ctx context.Context, bucket string, m Manifest) error {
	tmp, err := os.CreateTemp("", "bsync-manifest-*.txt")
	if err != nil {
		return fmt.Errorf("creating manifest temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("removing manifest temp file failed", "path", tmpPath, "error", err)
		}
	}()

	if err := m.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing manifest temp file: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("reopening manifest temp file: %w", err)
	}
	defer f.Close()

	if err := s.store.Put(ctx, bucket, ManifestKey, f, "text/plain; charset=utf-8", VisibilityPrivate); err != nil {
		return fmt.Errorf("uploading manifest: %w", err)
	}

	s.logger.Info("manifest published", "bucket", bucket, "key", ManifestKey, "entries", len(m))
	return nil
}
