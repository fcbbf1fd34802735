package paths

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/groveplan/grove/internal/object"
)

// --- Test fixtures ---

// writePlanning creates a file at a slash-separated path relative to
// root, making parent directories as needed.
func writePlanning(t *testing.T, root, rel string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("setup: mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(p, []byte("---\nid: placeholder\n---\n"), 0o644); err != nil {
		t.Fatalf("setup: write %s: %v", rel, err)
	}
	return p
}

// plantTree builds a planning tree exercising every layout branch:
// two projects (P-analytics sorts before P-ecommerce), a full
// project/epic/feature/task chain, done tasks, standalone tasks, and
// the id T-dup present both as a done hierarchy task and an open
// standalone task.
func plantTree(t *testing.T) Roots {
	t.Helper()
	root := t.TempDir()
	for _, rel := range []string{
		"projects/P-analytics/project.md",
		"projects/P-analytics/epics/E-dash/epic.md",
		"projects/P-analytics/epics/E-dup/epic.md",
		"projects/P-ecommerce/project.md",
		"projects/P-ecommerce/epics/E-checkout/epic.md",
		"projects/P-ecommerce/epics/E-dup/epic.md",
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/feature.md",
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-open/T-add-button.md",
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-done/20240110_090000-T-wire-totals.md",
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-done/20240111_100000-T-dup.md",
		"tasks-open/T-standalone-chore.md",
		"tasks-open/T-dup.md",
		"tasks-done/20240105_080000-T-archived-chore.md",
	} {
		writePlanning(t, root, rel)
	}
	return ResolveRoots(root)
}

// rel renders a path relative to the resolution root with forward
// slashes for assertion readability.
func rel(t *testing.T, roots Roots, p string) string {
	t.Helper()
	r, err := filepath.Rel(roots.Resolution, p)
	if err != nil {
		t.Fatalf("rel %s: %v", p, err)
	}
	return filepath.ToSlash(r)
}

// --- IDToPath ---

func TestIDToPath(t *testing.T) {
	roots := plantTree(t)

	tests := []struct {
		name string
		kind object.Kind
		id   string
		want string
	}{
		{"project", object.KindProject, "ecommerce", "projects/P-ecommerce/project.md"},
		{"project with prefix", object.KindProject, "P-ecommerce", "projects/P-ecommerce/project.md"},
		{"epic scans projects", object.KindEpic, "checkout", "projects/P-ecommerce/epics/E-checkout/epic.md"},
		{"feature scans epics", object.KindFeature, "cart", "projects/P-ecommerce/epics/E-checkout/features/F-cart/feature.md"},
		{"open task in hierarchy", object.KindTask, "add-button", "projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-open/T-add-button.md"},
		{"done task keeps timestamp name", object.KindTask, "wire-totals", "projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-done/20240110_090000-T-wire-totals.md"},
		{"standalone open task", object.KindTask, "standalone-chore", "tasks-open/T-standalone-chore.md"},
		{"standalone done task", object.KindTask, "archived-chore", "tasks-done/20240105_080000-T-archived-chore.md"},
		{"task with prefix", object.KindTask, "T-add-button", "projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-open/T-add-button.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IDToPath(roots, tt.kind, tt.id)
			if err != nil {
				t.Fatalf("IDToPath(%s, %q): %v", tt.kind, tt.id, err)
			}
			if rel(t, roots, got) != tt.want {
				t.Errorf("IDToPath(%s, %q) = %s, want %s", tt.kind, tt.id, rel(t, roots, got), tt.want)
			}
		})
	}
}

func TestIDToPathErrors(t *testing.T) {
	roots := plantTree(t)

	tests := []struct {
		name string
		kind object.Kind
		id   string
		want error
	}{
		{"missing project", object.KindProject, "ghost", object.ErrNotFound},
		{"missing task", object.KindTask, "ghost", object.ErrNotFound},
		{"unknown kind", object.Kind("story"), "add-button", object.ErrInvalidArgument},
		{"empty id", object.KindTask, "", object.ErrMissingRequired},
		{"prefix-only id", object.KindTask, "T-", object.ErrMissingRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IDToPath(roots, tt.kind, tt.id)
			if err == nil {
				t.Fatalf("IDToPath(%s, %q) should fail", tt.kind, tt.id)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("IDToPath(%s, %q) error = %v, want %v", tt.kind, tt.id, err, tt.want)
			}
		})
	}
}

// An ID present both in a tasks-done directory and a tasks-open
// directory resolves to the open file, even when the open copy lives in
// a different part of the tree.
func TestIDToPathOpenPreferredOverDone(t *testing.T) {
	roots := plantTree(t)

	got, err := IDToPath(roots, object.KindTask, "dup")
	if err != nil {
		t.Fatalf("IDToPath: %v", err)
	}
	if want := "tasks-open/T-dup.md"; rel(t, roots, got) != want {
		t.Errorf("IDToPath(task, dup) = %s, want open copy %s", rel(t, roots, got), want)
	}
}

// When the same epic ID exists under two projects, the match from the
// lexicographically first project directory wins, every time.
func TestIDToPathLexicographicFirstMatch(t *testing.T) {
	roots := plantTree(t)

	for i := 0; i < 5; i++ {
		got, err := IDToPath(roots, object.KindEpic, "dup")
		if err != nil {
			t.Fatalf("IDToPath: %v", err)
		}
		if want := "projects/P-analytics/epics/E-dup/epic.md"; rel(t, roots, got) != want {
			t.Fatalf("IDToPath(epic, dup) = %s, want %s", rel(t, roots, got), want)
		}
	}
}

// --- FindTask ---

func TestFindTaskStatusScoped(t *testing.T) {
	roots := plantTree(t)

	// dup exists on both sides; the status picks the side.
	open, err := FindTask(roots, "dup", object.StatusOpen)
	if err != nil {
		t.Fatalf("FindTask open: %v", err)
	}
	if want := "tasks-open/T-dup.md"; rel(t, roots, open) != want {
		t.Errorf("FindTask(dup, open) = %s, want %s", rel(t, roots, open), want)
	}

	done, err := FindTask(roots, "dup", object.StatusDone)
	if err != nil {
		t.Fatalf("FindTask done: %v", err)
	}
	if want := "projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-done/20240111_100000-T-dup.md"; rel(t, roots, done) != want {
		t.Errorf("FindTask(dup, done) = %s, want %s", rel(t, roots, done), want)
	}

	// wire-totals is done only; asking for open must not fall back.
	if _, err := FindTask(roots, "wire-totals", object.StatusOpen); !errors.Is(err, object.ErrNotFound) {
		t.Errorf("FindTask(wire-totals, open) error = %v, want ErrNotFound", err)
	}
}

// --- PathToID ---

func TestPathToIDRoundTrip(t *testing.T) {
	roots := plantTree(t)

	tests := []struct {
		kind object.Kind
		id   string
	}{
		{object.KindProject, "ecommerce"},
		{object.KindEpic, "checkout"},
		{object.KindFeature, "cart"},
		{object.KindTask, "add-button"},
		{object.KindTask, "wire-totals"},
		{object.KindTask, "standalone-chore"},
	}

	for _, tt := range tests {
		p, err := IDToPath(roots, tt.kind, tt.id)
		if err != nil {
			t.Fatalf("IDToPath(%s, %q): %v", tt.kind, tt.id, err)
		}
		kind, id, err := PathToID(p)
		if err != nil {
			t.Fatalf("PathToID(%s): %v", p, err)
		}
		if kind != tt.kind || id != tt.id {
			t.Errorf("PathToID(%s) = (%s, %q), want (%s, %q)", p, kind, id, tt.kind, tt.id)
		}
	}
}

func TestPathToIDErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"task outside status dir", "projects/P-x/T-loose.md", object.ErrMalformedHierarchy},
		{"timestamped task outside status dir", "somewhere/20240101_000000-T-loose.md", object.ErrMalformedHierarchy},
		{"project file in unprefixed dir", "projects/ecommerce/project.md", object.ErrMalformedHierarchy},
		{"epic file in bare prefix dir", "projects/P-x/epics/E-/epic.md", object.ErrMalformedHierarchy},
		{"unrelated markdown", "projects/P-x/README.md", object.ErrUnrecognized},
		{"non-planning file", "notes.txt", object.ErrUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := PathToID(filepath.FromSlash(tt.path))
			if err == nil {
				t.Fatalf("PathToID(%s) should fail", tt.path)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("PathToID(%s) error = %v, want %v", tt.path, err, tt.want)
			}
		})
	}
}

// --- ResolvePathForNewObject ---

func TestResolvePathForNewObject(t *testing.T) {
	roots := plantTree(t)
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		kind   object.Kind
		id     string
		parent string
		status object.Status
		want   string
	}{
		{"new project", object.KindProject, "billing", "", "", "projects/P-billing/project.md"},
		{"new epic under project", object.KindEpic, "payments", "ecommerce", "", "projects/P-ecommerce/epics/E-payments/epic.md"},
		{"new feature under epic", object.KindFeature, "wallet", "E-checkout", "", "projects/P-ecommerce/epics/E-checkout/features/F-wallet/feature.md"},
		{"new open task under feature", object.KindTask, "add-coupon", "cart", object.StatusOpen, "projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-open/T-add-coupon.md"},
		{"new done task gets timestamp", object.KindTask, "add-coupon", "cart", object.StatusDone, "projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-done/20240315_103000-T-add-coupon.md"},
		{"standalone open task", object.KindTask, "chore", "", object.StatusOpen, "tasks-open/T-chore.md"},
		{"standalone done task", object.KindTask, "chore", "", object.StatusDone, "tasks-done/20240315_103000-T-chore.md"},
		{"in-progress routes to open", object.KindTask, "chore", "", object.StatusInProgress, "tasks-open/T-chore.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePathForNewObject(roots, tt.kind, tt.id, tt.parent, tt.status, now)
			if err != nil {
				t.Fatalf("ResolvePathForNewObject: %v", err)
			}
			if rel(t, roots, got) != tt.want {
				t.Errorf("got %s, want %s", rel(t, roots, got), tt.want)
			}
		})
	}
}

func TestResolvePathForNewObjectErrors(t *testing.T) {
	roots := plantTree(t)
	now := time.Now()

	tests := []struct {
		name   string
		kind   object.Kind
		id     string
		parent string
		want   error
	}{
		{"epic without parent", object.KindEpic, "payments", "", object.ErrMissingParent},
		{"feature without parent", object.KindFeature, "wallet", "", object.ErrMissingParent},
		{"epic under missing project", object.KindEpic, "payments", "ghost", object.ErrParentNotFound},
		{"task under missing feature", object.KindTask, "chore", "ghost", object.ErrParentNotFound},
		{"unknown kind", object.Kind("story"), "x", "", object.ErrInvalidArgument},
		{"empty id", object.KindProject, "", "", object.ErrMissingRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePathForNewObject(roots, tt.kind, tt.id, tt.parent, object.StatusOpen, now)
			if err == nil {
				t.Fatal("should fail")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTaskFileName(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	if got := TaskFileName("chore", object.StatusOpen, now); got != "T-chore.md" {
		t.Errorf("open = %q, want T-chore.md", got)
	}
	if got := TaskFileName("T-chore", object.StatusDone, now); got != "20240315_103000-T-chore.md" {
		t.Errorf("done = %q, want 20240315_103000-T-chore.md", got)
	}

	// The timestamp formats in UTC regardless of the clock's zone.
	est := time.FixedZone("EST", -5*3600)
	if got := TaskFileName("chore", object.StatusDone, now.In(est)); got != "20240315_103000-T-chore.md" {
		t.Errorf("non-UTC clock = %q, want 20240315_103000-T-chore.md", got)
	}
}

// --- ChildrenOf ---

func TestChildrenOf(t *testing.T) {
	roots := plantTree(t)

	got, err := ChildrenOf(roots, object.KindEpic, "checkout")
	if err != nil {
		t.Fatalf("ChildrenOf: %v", err)
	}
	var relGot []string
	for _, p := range got {
		relGot = append(relGot, rel(t, roots, p))
	}

	want := []string{
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/feature.md",
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-done/20240110_090000-T-wire-totals.md",
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-done/20240111_100000-T-dup.md",
		"projects/P-ecommerce/epics/E-checkout/features/F-cart/tasks-open/T-add-button.md",
	}
	if len(relGot) != len(want) {
		t.Fatalf("ChildrenOf returned %d paths, want %d: %v", len(relGot), len(want), relGot)
	}
	if !sort.StringsAreSorted(relGot) {
		t.Error("descendants should be sorted")
	}
	for i := range want {
		if relGot[i] != want[i] {
			t.Errorf("descendant[%d] = %s, want %s", i, relGot[i], want[i])
		}
	}
}

func TestChildrenOfTaskIsEmpty(t *testing.T) {
	roots := plantTree(t)
	got, err := ChildrenOf(roots, object.KindTask, "add-button")
	if err != nil {
		t.Fatalf("ChildrenOf: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("tasks have no descendants, got %v", got)
	}
}

func TestChildrenOfMissingObject(t *testing.T) {
	roots := plantTree(t)
	if _, err := ChildrenOf(roots, object.KindProject, "ghost"); !errors.Is(err, object.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
