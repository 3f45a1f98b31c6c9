package app

// SyncOperation tracks a CLI operation for the run-history journal.
// Operations are created in memory with ID=0 and persisted (receiving an
// auto-increment ID) before any store mutation happens.
type SyncOperation struct {
	ID        int64
	Operation string
	LocalPath string
	Bucket    string
	Status    string // "success", "cancelled", or "error"
	Uploaded  int64
	Failed    int64
	Skipped   int64
}

// NewSyncOperation creates a new in-memory operation record.
func NewSyncOperation(operation string) *SyncOperation {
	return &SyncOperation{
		Operation: operation,
		Status:    "success",
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *SyncOperation) Persisted() bool {
	return op.ID != 0
}
