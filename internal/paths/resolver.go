package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/groveplan/grove/internal/object"
)

// IDToPath locates an existing object on disk and returns its file path.
//
// Projects resolve by direct lookup. Epics and features are found by
// scanning parents, since the parent is not part of the call; scan order
// is lexicographic by directory name, so first-match is deterministic.
// Tasks check every feature's tasks-open directory before any
// tasks-done directory, then the standalone directories; open is
// always preferred over done when both hold the same ID.
//
// The ID may be passed with or without its kind prefix; any known
// prefix is stripped before use.
func IDToPath(roots Roots, kind object.Kind, id string) (string, error) {
	if err := object.ValidateKind(kind); err != nil {
		return "", err
	}
	id = object.StripPrefix(id)
	if id == "" {
		return "", object.Errorf(object.ErrMissingRequired, "empty id")
	}

	switch kind {
	case object.KindProject:
		p := filepath.Join(roots.Resolution, ProjectsDir, "P-"+id, ProjectFile)
		if fileExists(p) {
			return p, nil
		}
	case object.KindEpic:
		for _, pd := range projectDirs(roots) {
			p := filepath.Join(pd, EpicsDir, "E-"+id, EpicFile)
			if fileExists(p) {
				return p, nil
			}
		}
	case object.KindFeature:
		for _, ed := range epicDirs(roots) {
			p := filepath.Join(ed, FeaturesDir, "F-"+id, FeatureFile)
			if fileExists(p) {
				return p, nil
			}
		}
	case object.KindTask:
		for _, dir := range []string{TasksOpenDir, TasksDoneDir} {
			if p, ok := findTaskIn(roots, id, dir); ok {
				return p, nil
			}
		}
	}

	return "", object.Errorf(object.ErrNotFound, "no %s with id %q", kind, id)
}

// FindTask locates a task within a single status location only: the
// open directories for anything but done, the done directories for
// done. Used when the caller knows (or asserts) which side the task is
// on and must not fall back to the other.
func FindTask(roots Roots, id string, status object.Status) (string, error) {
	id = object.StripPrefix(id)
	if id == "" {
		return "", object.Errorf(object.ErrMissingRequired, "empty id")
	}
	if p, ok := findTaskIn(roots, id, StatusDir(status)); ok {
		return p, nil
	}
	return "", object.Errorf(object.ErrNotFound, "no task with id %q in %s", id, StatusDir(status))
}

// findTaskIn scans every hierarchy feature's status directory, then the
// standalone status directory, for a file carrying the task ID.
func findTaskIn(roots Roots, id, statusDir string) (string, bool) {
	for _, fd := range featureDirs(roots) {
		if p, ok := taskFileIn(filepath.Join(fd, statusDir), id); ok {
			return p, true
		}
	}
	return taskFileIn(filepath.Join(roots.Resolution, statusDir), id)
}

// taskFileIn returns the path of the file in dir whose name carries the
// task ID, with or without a timestamp prefix.
func taskFileIn(dir, id string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := taskFileRe.FindStringSubmatch(e.Name()); m != nil && m[1] == id {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// PathToID is the inverse of IDToPath: it recovers (kind, id) from a
// path by filename and directory naming convention alone, without
// touching the filesystem. IDs are returned unprefixed.
func PathToID(path string) (object.Kind, string, error) {
	base := filepath.Base(path)

	switch base {
	case ProjectFile:
		return idFromParentDir(path, object.KindProject)
	case EpicFile:
		return idFromParentDir(path, object.KindEpic)
	case FeatureFile:
		return idFromParentDir(path, object.KindFeature)
	}

	if m := taskFileRe.FindStringSubmatch(base); m != nil {
		dir := filepath.Base(filepath.Dir(path))
		if dir != TasksOpenDir && dir != TasksDoneDir {
			return "", "", object.Errorf(object.ErrMalformedHierarchy,
				"task file %q must live under %s or %s", base, TasksOpenDir, TasksDoneDir)
		}
		return object.KindTask, m[1], nil
	}

	return "", "", object.Errorf(object.ErrUnrecognized,
		"file %q does not match any planning layout convention", base)
}

// idFromParentDir extracts the ID from the prefixed directory that
// contains a project.md/epic.md/feature.md file.
func idFromParentDir(path string, kind object.Kind) (object.Kind, string, error) {
	dir := filepath.Base(filepath.Dir(path))
	prefix := kind.Prefix()
	if !strings.HasPrefix(dir, prefix) || len(dir) == len(prefix) {
		return "", "", object.Errorf(object.ErrMalformedHierarchy,
			"%s file expects a %s<id> directory, found %q", filepath.Base(path), prefix, dir)
	}
	return kind, dir[len(prefix):], nil
}

// ResolvePathForNewObject computes the path for an object that does not
// yet exist. Epics and features require a parent one level up; a task
// without a parent uses the standalone layout. The timestamp feeds the
// done-task filename prefix and is ignored otherwise.
func ResolvePathForNewObject(roots Roots, kind object.Kind, id, parent string, status object.Status, now time.Time) (string, error) {
	if err := object.ValidateKind(kind); err != nil {
		return "", err
	}
	id = object.StripPrefix(id)
	if id == "" {
		return "", object.Errorf(object.ErrMissingRequired, "empty id")
	}
	parent = object.StripPrefix(parent)

	switch kind {
	case object.KindProject:
		return filepath.Join(roots.Resolution, ProjectsDir, "P-"+id, markdownFor(kind)), nil

	case object.KindEpic, object.KindFeature:
		if parent == "" {
			return "", object.Errorf(object.ErrMissingParent,
				"%s %q requires a %s parent", kind, id, kind.ParentKind())
		}
		pp, err := IDToPath(roots, kind.ParentKind(), parent)
		if err != nil {
			return "", object.Errorf(object.ErrParentNotFound,
				"%s %q not found for new %s %q", kind.ParentKind(), parent, kind, id)
		}
		dir := EpicsDir
		if kind == object.KindFeature {
			dir = FeaturesDir
		}
		return filepath.Join(filepath.Dir(pp), dir, kind.Prefix()+id, markdownFor(kind)), nil

	case object.KindTask:
		name := TaskFileName(id, status, now)
		if parent == "" {
			return filepath.Join(roots.Resolution, StatusDir(status), name), nil
		}
		fp, err := IDToPath(roots, object.KindFeature, parent)
		if err != nil {
			return "", object.Errorf(object.ErrParentNotFound,
				"feature %q not found for new task %q", parent, id)
		}
		return filepath.Join(filepath.Dir(fp), StatusDir(status), name), nil
	}

	return "", object.Errorf(object.ErrInvalidArgument, "unknown kind %q", string(kind))
}

// TaskFileName builds a task filename for a status. Done tasks carry a
// sortable UTC timestamp prefix so a re-completed ID never collides
// with its history.
func TaskFileName(id string, status object.Status, now time.Time) string {
	id = object.StripPrefix(id)
	if status.Closed() {
		return now.UTC().Format(DoneTimestampLayout) + "-T-" + id + ".md"
	}
	return "T-" + id + ".md"
}

// ChildrenOf returns the paths of all direct and transitive descendants
// of an object, sorted lexicographically. Tasks have none. Task
// descendants are drawn from both tasks-open and tasks-done.
func ChildrenOf(roots Roots, kind object.Kind, id string) ([]string, error) {
	if kind == object.KindTask {
		return nil, nil
	}
	own, err := IDToPath(roots, kind, id)
	if err != nil {
		return nil, err
	}

	var out []string
	walkErr := filepath.WalkDir(filepath.Dir(own), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || p == own {
			return nil
		}
		if _, _, err := PathToID(p); err == nil {
			out = append(out, p)
		}
		return nil
	})
	if walkErr != nil {
		return nil, object.Errorf(object.ErrNotFound, "walking descendants of %s %q", kind, id)
	}
	sort.Strings(out)
	return out, nil
}

// --- directory enumeration helpers ---

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// subDirs lists the immediate subdirectories of dir, lexicographically
// ordered (os.ReadDir sorts by name). A missing dir yields nil.
func subDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

func projectDirs(roots Roots) []string {
	return subDirs(filepath.Join(roots.Resolution, ProjectsDir))
}

func epicDirs(roots Roots) []string {
	var out []string
	for _, pd := range projectDirs(roots) {
		out = append(out, subDirs(filepath.Join(pd, EpicsDir))...)
	}
	return out
}

func featureDirs(roots Roots) []string {
	var out []string
	for _, ed := range epicDirs(roots) {
		out = append(out, subDirs(filepath.Join(ed, FeaturesDir))...)
	}
	return out
}
