package infer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/groveplan/grove/internal/object"
	"github.com/groveplan/grove/internal/paths"
)

func newTestValidator(t *testing.T) (*Validator, string) {
	t.Helper()
	e, root := newTestEngine(t)
	return NewValidator(e.Roots()), root
}

// Stages short-circuit in order: existence, front matter, kind
// agreement, schema.
func TestValidateObjectStructureStages(t *testing.T) {
	v, _ := newTestValidator(t)

	tests := []struct {
		name   string
		kind   object.Kind
		id     string
		exists bool
		meta   bool
		typeOK bool
		valid  bool
	}{
		{"all stages pass", object.KindProject, "P-ecommerce", true, true, true, true},
		{"missing object stops at existence", object.KindProject, "P-ghost", false, false, false, false},
		{"broken front matter stops at parse", object.KindProject, "P-broken", true, false, false, false},
		{"kind disagreement stops at type", object.KindProject, "P-masquerade", true, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.ValidateObjectStructure(tt.kind, tt.id, "")
			if res.ObjectExists != tt.exists {
				t.Errorf("ObjectExists = %t, want %t", res.ObjectExists, tt.exists)
			}
			if res.MetadataValid != tt.meta {
				t.Errorf("MetadataValid = %t, want %t", res.MetadataValid, tt.meta)
			}
			if res.TypeMatches != tt.typeOK {
				t.Errorf("TypeMatches = %t, want %t", res.TypeMatches, tt.typeOK)
			}
			if res.IsValid != tt.valid {
				t.Errorf("IsValid = %t, want %t", res.IsValid, tt.valid)
			}
			if !tt.valid && len(res.Errors) == 0 {
				t.Error("failed validation must report errors")
			}
		})
	}
}

// Schema problems fail the final stage while the structural flags stay
// true.
func TestValidateObjectStructureSchemaErrors(t *testing.T) {
	v, root := newTestValidator(t)

	// An epic that is missing its required parent.
	writeObject(t, root, "projects/P-ecommerce/epics/E-orphan/epic.md",
		"id: E-orphan\nkind: epic\ntitle: Orphan\n")

	res := v.ValidateObjectStructure(object.KindEpic, "E-orphan", "")
	if !res.ObjectExists || !res.MetadataValid || !res.TypeMatches {
		t.Errorf("structural flags should pass, got %+v", res)
	}
	if res.IsValid {
		t.Error("schema errors must fail validation")
	}
	if joined := strings.Join(res.Errors, "; "); !strings.Contains(joined, "parent") {
		t.Errorf("errors = %q, want a parent finding", joined)
	}
}

// A stored id that differs from the requested one is a warning, not a
// failure.
func TestValidateObjectStructureIDMismatchWarns(t *testing.T) {
	v, root := newTestValidator(t)

	writeObject(t, root, "projects/P-renamed/project.md",
		"id: P-original\nkind: project\ntitle: Renamed on disk\n")

	res := v.ValidateObjectStructure(object.KindProject, "P-renamed", "")
	if !res.IsValid {
		t.Fatalf("should be valid, errors: %v", res.Errors)
	}
	if joined := strings.Join(res.Warnings, "; "); !strings.Contains(joined, "differs") {
		t.Errorf("warnings = %q, want an id mismatch warning", joined)
	}
}

// A non-empty status restricts task lookup to that status's side.
func TestValidateObjectStructureStatusScoped(t *testing.T) {
	v, _ := newTestValidator(t)

	open := v.ValidateObjectStructure(object.KindTask, "T-add-button", object.StatusOpen)
	if !open.IsValid {
		t.Errorf("open task should validate in open scope: %v", open.Errors)
	}

	done := v.ValidateObjectStructure(object.KindTask, "T-add-button", object.StatusDone)
	if done.ObjectExists {
		t.Error("open task must not be found in done scope")
	}
}

// Parse failure messages carry the filename only, never the absolute
// path.
func TestValidateObjectStructureScrubsPaths(t *testing.T) {
	v, root := newTestValidator(t)

	res := v.ValidateObjectStructure(object.KindProject, "P-broken", "")
	joined := strings.Join(res.Errors, "; ")
	if strings.Contains(joined, root) {
		t.Errorf("errors leak the planning root: %q", joined)
	}
}

// An injected parser failure is reported as unreadable metadata.
func TestValidatorInjectedParser(t *testing.T) {
	v, _ := newTestValidator(t)
	v.parse = func(path string) (*object.Object, error) {
		return nil, errors.New("forced parse failure")
	}

	res := v.ValidateObjectStructure(object.KindProject, "P-ecommerce", "")
	if !res.ObjectExists || res.MetadataValid {
		t.Errorf("got %+v", res)
	}
}

func TestValidatorResolve(t *testing.T) {
	v, root := newTestValidator(t)

	p, err := v.resolve(object.KindTask, "T-standalone-chore", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join(root, paths.TasksOpenDir, "T-standalone-chore.md")
	if p != want {
		t.Errorf("resolve = %s, want %s", p, want)
	}

	if _, err := os.Stat(p); err != nil {
		t.Errorf("resolved path should exist: %v", err)
	}
}
