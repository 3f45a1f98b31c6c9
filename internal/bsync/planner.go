package bsync

// Classify determines a file's status relative to the remote manifest.
func Classify(file *LocalFile, remote Manifest) FileStatus {
	fingerprint, ok := remote[file.RelativeKey]
	switch {
	case !ok:
		return StatusNew
	case fingerprint != file.Fingerprint:
		return StatusModified
	default:
		return StatusUnmodified
	}
}

// BuildPlan reconciles the local inventory against the remote manifest in a
// single pass. Unmodified files are counted but excluded from the plan.
// Remote keys with no local counterpart are never considered: deletion of
// remote objects is out of scope.
func BuildPlan(inventory []*LocalFile, remote Manifest) *UploadPlan {
	plan := &UploadPlan{}
	for _, f := range inventory {
		switch Classify(f, remote) {
		case StatusNew:
			plan.New = append(plan.New, f)
		case StatusModified:
			plan.Modified = append(plan.Modified, f)
		case StatusUnmodified:
			plan.Unmodified++
		}
	}
	return plan
}
