package bsync_test

import (
	"testing"

	"bsync/internal/bsync"
)

func TestClassify(t *testing.T) {
	remote := bsync.Manifest{"a.txt": "H1"}

	cases := []struct {
		name string
		file *bsync.LocalFile
		want bsync.FileStatus
	}{
		{"key absent is new", &bsync.LocalFile{RelativeKey: "b.txt", Fingerprint: "H9"}, bsync.StatusNew},
		{"differing fingerprint is modified", &bsync.LocalFile{RelativeKey: "a.txt", Fingerprint: "H2"}, bsync.StatusModified},
		{"equal fingerprint is unmodified", &bsync.LocalFile{RelativeKey: "a.txt", Fingerprint: "H1"}, bsync.StatusUnmodified},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := bsync.Classify(c.file, remote); got != c.want {
				t.Errorf("Classify() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestBuildPlan(t *testing.T) {
	t.Run("empty manifest classifies everything as new", func(t *testing.T) {
		inventory := []*bsync.LocalFile{
			{RelativeKey: "a.txt", Fingerprint: "H1"},
		}

		plan := bsync.BuildPlan(inventory, bsync.Manifest{})
		if len(plan.New) != 1 || plan.New[0].RelativeKey != "a.txt" {
			t.Errorf("plan.New = %v, want [a.txt]", plan.New)
		}
		if len(plan.Modified) != 0 || plan.Unmodified != 0 {
			t.Errorf("plan = %+v, want only new entries", plan)
		}
	})

	t.Run("matching manifest yields an empty plan", func(t *testing.T) {
		inventory := []*bsync.LocalFile{
			{RelativeKey: "a.txt", Fingerprint: "H1"},
		}
		remote := bsync.Manifest{"a.txt": "H1"}

		plan := bsync.BuildPlan(inventory, remote)
		if !plan.Empty() {
			t.Errorf("plan not empty: %+v", plan)
		}
		if plan.Unmodified != 1 {
			t.Errorf("plan.Unmodified = %d, want 1", plan.Unmodified)
		}
	})

	t.Run("differing fingerprint yields a modified entry", func(t *testing.T) {
		inventory := []*bsync.LocalFile{
			{RelativeKey: "a.txt", Fingerprint: "H1"},
		}
		remote := bsync.Manifest{"a.txt": "H0"}

		plan := bsync.BuildPlan(inventory, remote)
		if len(plan.Modified) != 1 || plan.Modified[0].RelativeKey != "a.txt" {
			t.Errorf("plan.Modified = %v, want [a.txt]", plan.Modified)
		}
		if len(plan.New) != 0 {
			t.Errorf("plan.New = %v, want empty", plan.New)
		}
	})

	t.Run("remote-only keys are never considered", func(t *testing.T) {
		remote := bsync.Manifest{"gone.txt": "H1"}

		plan := bsync.BuildPlan(nil, remote)
		if !plan.Empty() {
			t.Errorf("plan not empty: %+v", plan)
		}
	})

	t.Run("mixed inventory is split by status", func(t *testing.T) {
		inventory := []*bsync.LocalFile{
			{RelativeKey: "new.txt", Fingerprint: "H1"},
			{RelativeKey: "changed.txt", Fingerprint: "H2"},
			{RelativeKey: "same.txt", Fingerprint: "H3"},
		}
		remote := bsync.Manifest{
			"changed.txt": "H0",
			"same.txt":    "H3",
		}

		plan := bsync.BuildPlan(inventory, remote)
		if plan.Count() != 2 {
			t.Errorf("plan.Count() = %d, want 2", plan.Count())
		}
		if len(plan.New) != 1 || plan.New[0].RelativeKey != "new.txt" {
			t.Errorf("plan.New = %v, want [new.txt]", plan.New)
		}
		if len(plan.Modified) != 1 || plan.Modified[0].RelativeKey != "changed.txt" {
			t.Errorf("plan.Modified = %v, want [changed.txt]", plan.Modified)
		}
		if plan.Unmodified != 1 {
			t.Errorf("plan.Unmodified = %d, want 1", plan.Unmodified)
		}
	})
}

func TestContentTypeForKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"index.html", "text/html"},
		{"style.css", "text/css"},
		{"logo.PNG", "image/png"},
		{"photo.jpg", "image/jpeg"},
		{"feed.xml", "application/xml"},
		{"archive.tar.gz", "application/octet-stream"},
		{"README", "application/octet-stream"},
	}
	for _, c := range cases {
		if got := bsync.ContentTypeForKey(c.key); got != c.want {
			t.Errorf("ContentTypeForKey(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}
