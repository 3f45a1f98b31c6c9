package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"bsync/internal/bsync"
	"bsync/internal/ui"
)

func testPlan() *bsync.UploadPlan {
	return &bsync.UploadPlan{
		New:      []*bsync.LocalFile{{RelativeKey: "a.txt", Fingerprint: "h1", Size: 5}},
		Modified: []*bsync.LocalFile{{RelativeKey: "b.css", Fingerprint: "h2", Size: 10}},
	}
}

func TestPromptConfirmer(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"y confirms", "y\n", true},
		{"yes confirms", "yes\n", true},
		{"case-insensitive yes", "YES\n", true},
		{"n rejects", "n\n", false},
		{"no rejects", "No\n", false},
		{"empty line defaults to no", "\n", false},
		{"unrecognized input re-prompts", "maybe\nok?\ny\n", true},
		{"whitespace is trimmed", "  y  \n", true},
		{"eof defaults to no", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			confirmer := ui.NewPromptConfirmer(strings.NewReader(c.input), &out, false)

			got, err := confirmer.ConfirmUpload(testPlan())
			if err != nil {
				t.Fatalf("ConfirmUpload() error = %v", err)
			}
			if got != c.want {
				t.Errorf("ConfirmUpload() = %v, want %v", got, c.want)
			}
		})
	}

	t.Run("assumeYes skips the prompt", func(t *testing.T) {
		var out bytes.Buffer
		confirmer := ui.NewPromptConfirmer(strings.NewReader(""), &out, true)

		got, err := confirmer.ConfirmUpload(testPlan())
		if err != nil {
			t.Fatalf("ConfirmUpload() error = %v", err)
		}
		if !got {
			t.Error("ConfirmUpload() = false, want true with assumeYes")
		}
		if strings.Contains(out.String(), "Confirm upload?") {
			t.Error("prompt shown despite assumeYes")
		}
	})

	t.Run("plan is presented before the prompt", func(t *testing.T) {
		var out bytes.Buffer
		confirmer := ui.NewPromptConfirmer(strings.NewReader("n\n"), &out, false)

		if _, err := confirmer.ConfirmUpload(testPlan()); err != nil {
			t.Fatalf("ConfirmUpload() error = %v", err)
		}

		for _, want := range []string{"a.txt", "b.css", "2 file(s) to upload"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})
}
