package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "projects"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	s, cleanup, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	if s == nil {
		t.Fatal("server should not be nil")
	}
	// The index database lands under the resolution root.
	if _, err := os.Stat(filepath.Join(root, ".grove", "index.db")); err != nil {
		t.Errorf("index database should exist: %v", err)
	}
}

func TestNewInvalidRoot(t *testing.T) {
	_, cleanup, err := New(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("missing root should fail")
	}
	cleanup() // must be safe even on failure
}
