package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveRootsResolutionRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ProjectsDir), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	roots := ResolveRoots(root)
	if roots.Resolution != root {
		t.Errorf("Resolution = %s, want %s", roots.Resolution, root)
	}
	if roots.Scanning != filepath.Dir(root) {
		t.Errorf("Scanning = %s, want %s", roots.Scanning, filepath.Dir(root))
	}
}

// Pointing at a planning child directory resolves to its parent.
func TestResolveRootsPlanningChild(t *testing.T) {
	base := t.TempDir()
	for _, child := range []string{ProjectsDir, TasksOpenDir, TasksDoneDir} {
		t.Run(child, func(t *testing.T) {
			dir := filepath.Join(base, child)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				t.Fatalf("setup: %v", err)
			}

			roots := ResolveRoots(dir)
			if roots.Resolution != base {
				t.Errorf("Resolution = %s, want %s", roots.Resolution, base)
			}
			if roots.Scanning != filepath.Dir(base) {
				t.Errorf("Scanning = %s, want %s", roots.Scanning, filepath.Dir(base))
			}
		})
	}
}

// A fresh directory with no layout yet becomes the resolution root.
func TestResolveRootsFreshTree(t *testing.T) {
	root := t.TempDir()

	roots := ResolveRoots(root)
	if roots.Resolution != root {
		t.Errorf("Resolution = %s, want %s", roots.Resolution, root)
	}
}

// A directory that contains projects/ wins over its own name looking
// like a planning child.
func TestResolveRootsProjectsChildWins(t *testing.T) {
	base := t.TempDir()
	// A resolution root that is itself named tasks-open.
	root := filepath.Join(base, TasksOpenDir)
	if err := os.MkdirAll(filepath.Join(root, ProjectsDir), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	roots := ResolveRoots(root)
	if roots.Resolution != root {
		t.Errorf("Resolution = %s, want %s", roots.Resolution, root)
	}
}
