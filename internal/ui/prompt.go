package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"bsync/internal/bsync"
)

// PromptConfirmer presents the upload plan and blocks for a yes/no answer
// on in. It implements bsync.Confirmer.
//
// Accepted answers are y/yes and n/no, case-insensitive; an empty line
// means no. Anything else re-prompts. When in is not a terminal and
// assumeYes is unset, the answer is no: a non-interactive run never
// mutates the store by accident.
type PromptConfirmer struct {
	in        io.Reader
	out       io.Writer
	assumeYes bool
}

// NewPromptConfirmer creates a confirmer reading answers from in and
// writing the plan and prompt to out. assumeYes skips the prompt entirely.
func NewPromptConfirmer(in io.Reader, out io.Writer, assumeYes bool) *PromptConfirmer {
	return &PromptConfirmer{in: in, out: out, assumeYes: assumeYes}
}

// ConfirmUpload renders the plan and asks for confirmation.
func (c *PromptConfirmer) ConfirmUpload(plan *bsync.UploadPlan) (bool, error) {
	RenderPlan(c.out, plan)

	if c.assumeYes {
		return true, nil
	}
	if !c.interactive() {
		fmt.Fprintln(c.out, "stdin is not a terminal; pass --yes to confirm non-interactively")
		return false, nil
	}

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "\nConfirm upload? [y/N] ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("reading answer: %w", err)
			}
			// EOF counts as no.
			return false, nil
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		// Unrecognized input: ask again.
	}
}

// interactive reports whether in is a terminal. Non-file readers (as used
// in tests) are treated as interactive so the prompt loop is exercised.
func (c *PromptConfirmer) interactive() bool {
	f, ok := c.in.(*os.File)
	if !ok {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}

// Compile-time check that PromptConfirmer implements bsync.Confirmer
var _ bsync.Confirmer = (*PromptConfirmer)(nil)
