package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/groveplan/grove/internal/object"
)

// Builder constructs the path for a new object with security validation
// in front of the resolver. One builder value serves one request: the
// With* methods return updated copies, Build is called once, and
// Materialize only works after a successful Build.
//
//	b := paths.NewBuilder(roots).
//		ForObject(object.KindTask, "T-implement-login").
//		WithStatus(object.StatusOpen)
//	path, err := b.Build()
type Builder struct {
	roots  Roots
	kind   object.Kind
	id     string
	parent string
	status object.Status
	now    func() time.Time

	path string
}

// NewBuilder creates a builder rooted at a resolved planning tree.
func NewBuilder(roots Roots) Builder {
	return Builder{roots: roots, now: time.Now}
}

// ForObject sets the kind and ID of the object whose path is wanted.
func (b Builder) ForObject(kind object.Kind, id string) Builder {
	b.kind = kind
	b.id = id
	return b
}

// WithParent sets the parent ID. Required for epics and features;
// omitting it for a task selects the standalone layout.
func (b Builder) WithParent(id string) Builder {
	b.parent = id
	return b
}

// WithStatus sets the task status that routes between tasks-open and
// tasks-done. Ignored for non-task kinds.
func (b Builder) WithStatus(status object.Status) Builder {
	b.status = status
	return b
}

// withClock overrides the timestamp source for done-task filenames.
func (b Builder) withClock(now func() time.Time) Builder {
	b.now = now
	return b
}

// Build validates the configured parameters, computes the path, and
// verifies it stays inside the resolution root. No filesystem access
// happens before parameter validation passes. Calling Build before
// ForObject fails with a precondition error.
func (b *Builder) Build() (string, error) {
	if b.kind == "" && b.id == "" {
		return "", object.Errorf(object.ErrPrecondition, "Build called before ForObject")
	}

	if violations := ValidatePathParameters(b.kind, b.id, b.parent); len(violations) > 0 {
		return "", object.Errorf(object.ErrSecurityViolation, "%s", strings.Join(violations, "; "))
	}

	path, err := ResolvePathForNewObject(b.roots, b.kind, b.id, b.parent, b.status, b.now())
	if err != nil {
		return "", err
	}

	var violations []string
	violations = append(violations, ValidatePathSecurity(path)...)
	violations = append(violations, ValidatePathBoundaries(b.roots.Resolution, path)...)
	if len(violations) > 0 {
		return "", object.Errorf(object.ErrSecurityViolation, "%s", strings.Join(violations, "; "))
	}

	b.path = path
	return path, nil
}

// Materialize creates every missing parent directory for the built
// path. It fails with a precondition error when no path has been built.
func (b *Builder) Materialize() error {
	if b.path == "" {
		return object.Errorf(object.ErrPrecondition, "Materialize called before a successful Build")
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("creating parent directories: %w", err)
	}
	return nil
}
