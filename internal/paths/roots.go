package paths

import (
	"os"
	"path/filepath"
)

// Roots carries the two root directories of a planning tree.
//
// The resolution root is the directory that directly contains
// projects/, tasks-open/ and tasks-done/. The scanning root is one
// level above it, used when enumerating top-level planning trees.
// Roots is resolved once at startup and passed by value; nothing
// re-probes the layout per call.
type Roots struct {
	Scanning   string
	Resolution string
}

// planningChildren are directory names that only appear directly under
// a resolution root.
var planningChildren = map[string]bool{
	ProjectsDir:  true,
	TasksOpenDir: true,
	TasksDoneDir: true,
}

// ResolveRoots normalizes a user-supplied root into a Roots pair.
// Callers may pass either the resolution root itself or a directory one
// level inside it (for example the projects/ directory); both resolve
// to the same pair:
//
//   - root contains a projects/ child: root is the resolution root.
//   - root's own name is a planning child (projects, tasks-open,
//     tasks-done): the parent is the resolution root.
//   - neither (fresh tree with no layout yet): root is taken as the
//     resolution root. This is a deliberate choice; the alternative of
//     synthesizing a resolution root one level above would scatter new
//     trees into the parent directory. See DESIGN.md, "Root resolution
//     fallback".
func ResolveRoots(root string) Roots {
	root = filepath.Clean(root)

	if info, err := os.Stat(filepath.Join(root, ProjectsDir)); err == nil && info.IsDir() {
		return Roots{Scanning: filepath.Dir(root), Resolution: root}
	}
	if planningChildren[filepath.Base(root)] {
		resolution := filepath.Dir(root)
		return Roots{Scanning: filepath.Dir(resolution), Resolution: resolution}
	}
	return Roots{Scanning: filepath.Dir(root), Resolution: root}
}
