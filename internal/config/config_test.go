package config_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"bsync/internal/config"
)

func TestManager_ReadWrite(t *testing.T) {
	t.Run("round-trips a config", func(t *testing.T) {
		cfg := config.NewConfig("/home/user/.local/share/bsync")
		cfg.AWS.Region = "us-east-1"
		cfg.AWS.Endpoint = "http://localhost:9000"
		cfg.Filesystem.Ignore = []string{".git", "node_modules"}
		cfg.Upload.Visibility = "private"

		m := &config.Manager{}
		var buf bytes.Buffer
		if err := m.Write(&buf, cfg); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		got, err := m.Read(&buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}

		if got.AWS.Region != "us-east-1" {
			t.Errorf("Region = %s, want us-east-1", got.AWS.Region)
		}
		if got.AWS.Endpoint != "http://localhost:9000" {
			t.Errorf("Endpoint = %s, want http://localhost:9000", got.AWS.Endpoint)
		}
		if len(got.Filesystem.Ignore) != 2 || got.Filesystem.Ignore[1] != "node_modules" {
			t.Errorf("Ignore = %v, want [.git node_modules]", got.Filesystem.Ignore)
		}
		if got.Upload.Visibility != "private" {
			t.Errorf("Visibility = %s, want private", got.Upload.Visibility)
		}
	})

	t.Run("rejects malformed toml", func(t *testing.T) {
		m := &config.Manager{}
		if _, err := m.Read(strings.NewReader("not [valid")); err == nil {
			t.Error("Read() error = nil, want decode error")
		}
	})
}

func TestNewConfig(t *testing.T) {
	cfg := config.NewConfig("/base")

	if cfg.LogDir != filepath.Join("/base", "log") {
		t.Errorf("LogDir = %s, want /base/log", cfg.LogDir)
	}
	if cfg.Upload.Visibility != "public" {
		t.Errorf("Visibility = %s, want public", cfg.Upload.Visibility)
	}
	if cfg.Upload.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Upload.Concurrency)
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %s, want sqlite", cfg.Database.Type)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates a config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "bsync.toml")
		cfg := config.NewConfig("/base")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := config.ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.LogDir != cfg.LogDir {
			t.Errorf("LogDir = %s, want %s", got.LogDir, cfg.LogDir)
		}
	})

	t.Run("refuses to overwrite an existing config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bsync.toml")
		cfg := config.NewConfig("/base")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if err := config.Init(path, cfg); err == nil {
			t.Error("second Init() error = nil, want already-exists error")
		}
	})
}

func TestReadFromFile_Missing(t *testing.T) {
	_, err := config.ReadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("ReadFromFile() error = nil, want error for missing file")
	}
}
