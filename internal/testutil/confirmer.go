package testutil

import "bsync/internal/bsync"

// StaticConfirmer answers every confirmation with a fixed value and
// records how often it was asked.
type StaticConfirmer struct {
	Answer bool
	Calls  int
}

func (c *StaticConfirmer) ConfirmUpload(*bsync.UploadPlan) (bool, error) {
	c.Calls++
	return c.Answer, nil
}

// Compile-time check that StaticConfirmer implements bsync.Confirmer
var _ bsync.Confirmer = (*StaticConfirmer)(nil)
