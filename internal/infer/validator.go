package infer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/groveplan/grove/internal/markdown"
	"github.com/groveplan/grove/internal/object"
	"github.com/groveplan/grove/internal/paths"
	"github.com/groveplan/grove/internal/schema"
)

// ValidationResult reports which validation stage an object passed or
// failed. Stages short-circuit: once a flag is false, later stages were
// not attempted.
type ValidationResult struct {
	IsValid       bool     `json:"is_valid"`
	ObjectExists  bool     `json:"object_exists"`
	TypeMatches   bool     `json:"type_matches"`
	MetadataValid bool     `json:"metadata_valid"`
	Errors        []string `json:"errors,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// ParseFunc parses a planning file into an object. Injected so tests
// can fail parsing deterministically; defaults to markdown.ParseObject.
type ParseFunc func(path string) (*object.Object, error)

// Validator confirms that an inferred kind matches what is actually
// stored on disk. All operations are read-only.
type Validator struct {
	roots paths.Roots
	parse ParseFunc
}

// NewValidator creates a validator over a resolved planning tree.
func NewValidator(roots paths.Roots) *Validator {
	return &Validator{roots: roots, parse: markdown.ParseObject}
}

// ValidateObjectStructure runs the four-stage check: existence, front
// matter parse, kind comparison, schema validation. A non-empty status
// restricts task lookup to that status's directories instead of the
// usual open-then-done preference.
func (v *Validator) ValidateObjectStructure(kind object.Kind, id string, status object.Status) *ValidationResult {
	res := &ValidationResult{}
	bare := object.StripPrefix(id)

	path, err := v.resolve(kind, id, status)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("no %s with id %q on disk", kind, bare))
		return res
	}
	res.ObjectExists = true

	obj, err := v.parse(path)
	if err != nil {
		res.Errors = append(res.Errors, "unreadable front matter: "+scrub(err.Error(), path))
		return res
	}
	res.MetadataValid = true

	if obj.Kind != kind {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"stored object declares kind %q, inferred %q", string(obj.Kind), string(kind)))
		return res
	}
	res.TypeMatches = true

	if obj.ID != "" && object.CleanID(obj.ID) != object.CleanID(id) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"stored id %q differs from requested id %q", obj.ID, id))
	}

	collector := schema.ValidateObjectData(obj)
	res.Warnings = append(res.Warnings, collector.Warnings()...)
	if collector.HasErrors() {
		res.Errors = append(res.Errors, collector.PrioritizedErrors()...)
		return res
	}

	res.IsValid = true
	return res
}

// resolve locates the object's file for the existence stage.
func (v *Validator) resolve(kind object.Kind, id string, status object.Status) (string, error) {
	if kind == object.KindTask && status != "" {
		return paths.FindTask(v.roots, id, status)
	}
	return paths.IDToPath(v.roots, kind, id)
}

// scrub removes the raw filesystem path from a message before it
// travels to callers, leaving only the base filename.
func scrub(msg, path string) string {
	return strings.ReplaceAll(msg, path, filepath.Base(path))
}
