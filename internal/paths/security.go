package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/groveplan/grove/internal/object"
)

// maxIDLength caps object IDs well below filesystem filename limits,
// leaving room for the timestamp prefix and extension.
const maxIDLength = 128

// ValidatePathParameters checks the raw kind/id/parent inputs of a path
// construction request and returns every violation found. An empty
// result means the parameters are safe to join into a path.
func ValidatePathParameters(kind object.Kind, id, parent string) []string {
	var violations []string
	if !kind.Valid() {
		violations = append(violations, fmt.Sprintf("unknown kind %q", string(kind)))
	}
	violations = append(violations, idViolations("id", id)...)
	if parent != "" {
		violations = append(violations, idViolations("parent", parent)...)
	}
	return violations
}

// idViolations checks one ID parameter for injection-capable content.
func idViolations(field, id string) []string {
	var violations []string
	if id == "" {
		violations = append(violations, field+" is empty")
		return violations
	}
	if len(id) > maxIDLength {
		violations = append(violations, fmt.Sprintf("%s exceeds %d characters", field, maxIDLength))
	}
	if strings.ContainsAny(id, `/\`) {
		violations = append(violations, field+" contains a path separator")
	}
	if strings.Contains(id, "..") {
		violations = append(violations, field+" contains a parent-directory reference")
	}
	if strings.ContainsRune(id, 0) {
		violations = append(violations, field+" contains a null byte")
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			violations = append(violations, field+" contains control characters")
			break
		}
	}
	if filepath.IsAbs(id) {
		violations = append(violations, field+" is an absolute path")
	}
	return violations
}

// ValidatePathSecurity checks an assembled path for content that should
// never survive a clean join of validated parameters.
func ValidatePathSecurity(path string) []string {
	var violations []string
	if strings.ContainsRune(path, 0) {
		violations = append(violations, "path contains a null byte")
	}
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == ".." {
			violations = append(violations, "path contains a parent-directory segment")
			break
		}
	}
	return violations
}

// ValidatePathBoundaries verifies that path stays inside root once both
// are cleaned. It catches traversal that survives string joining.
func ValidatePathBoundaries(root, path string) []string {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return []string{"path cannot be made relative to the planning root"}
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return []string{"path escapes the planning root"}
	}
	return nil
}
