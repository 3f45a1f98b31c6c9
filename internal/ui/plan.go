package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"bsync/internal/bsync"
)

var (
	newTag      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("new     ")
	modifiedTag = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("modified")
	dim         = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// RenderPlan writes a human-readable summary of the upload plan: each key
// tagged new or modified, followed by counts and the total upload size.
func RenderPlan(w io.Writer, plan *bsync.UploadPlan) {
	var total int64
	for _, f := range plan.Modified {
		fmt.Fprintf(w, "  %s  %s %s\n", modifiedTag, f.RelativeKey, dim.Render("["+f.Fingerprint+"]"))
		total += f.Size
	}
	for _, f := range plan.New {
		fmt.Fprintf(w, "  %s  %s %s\n", newTag, f.RelativeKey, dim.Render("["+f.Fingerprint+"]"))
		total += f.Size
	}

	fmt.Fprintf(w, "\n%d file(s) to upload (%d new, %d modified, %s), %d unchanged\n",
		plan.Count(), len(plan.New), len(plan.Modified), humanize.Bytes(uint64(total)), plan.Unmodified)
}
