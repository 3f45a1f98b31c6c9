package bsync_test

import (
	"errors"
	"strings"
	"testing"

	"bsync/internal/bsync"
)

func TestFingerprint(t *testing.T) {
	t.Run("computes known md5 values", func(t *testing.T) {
		cases := []struct {
			input string
			want  string
		}{
			{"", "d41d8cd98f00b204e9800998ecf8427e"},
			{"hello world", "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		}
		for _, c := range cases {
			got, err := bsync.Fingerprint(strings.NewReader(c.input))
			if err != nil {
				t.Fatalf("Fingerprint(%q) error = %v", c.input, err)
			}
			if got != c.want {
				t.Errorf("Fingerprint(%q) = %s, want %s", c.input, got, c.want)
			}
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		a, _ := bsync.Fingerprint(strings.NewReader("content"))
		b, _ := bsync.Fingerprint(strings.NewReader("content"))
		if a != b {
			t.Errorf("fingerprints differ: %s vs %s", a, b)
		}
	})

	t.Run("reports read failures", func(t *testing.T) {
		_, err := bsync.Fingerprint(failingReader{})
		if err == nil {
			t.Fatal("Fingerprint() expected error, got nil")
		}
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}
