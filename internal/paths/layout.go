// Package paths encodes the on-disk layout of a planning tree and maps
// object IDs to filesystem paths and back.
//
// The layout contract, relative to the resolution root:
//
//	projects/P-<id>/project.md
//	projects/P-<id>/epics/E-<id>/epic.md
//	projects/P-<id>/epics/E-<id>/features/F-<id>/feature.md
//	projects/P-<id>/epics/E-<id>/features/F-<id>/tasks-open/T-<id>.md
//	projects/P-<id>/epics/E-<id>/features/F-<id>/tasks-done/<YYYYMMDD_HHMMSS>-T-<id>.md
//	tasks-open/T-<id>.md                                  (standalone)
//	tasks-done/<YYYYMMDD_HHMMSS>-T-<id>.md                (standalone)
//
// Resolution functions are pure path arithmetic plus read-only directory
// scans; the Builder adds security validation and directory creation for
// the creation path.
package paths

import (
	"regexp"

	"github.com/groveplan/grove/internal/object"
)

const (
	// ProjectsDir is the subdirectory under the resolution root where
	// the project hierarchy lives.
	ProjectsDir = "projects"
	// EpicsDir is the subdirectory within a project for its epics.
	EpicsDir = "epics"
	// FeaturesDir is the subdirectory within an epic for its features.
	FeaturesDir = "features"
	// TasksOpenDir holds tasks that are not yet done.
	TasksOpenDir = "tasks-open"
	// TasksDoneDir holds completed tasks, timestamp-prefixed.
	TasksDoneDir = "tasks-done"

	// ProjectFile, EpicFile, FeatureFile are the fixed filenames for
	// non-task objects inside their ID-named directories.
	ProjectFile = "project.md"
	EpicFile    = "epic.md"
	FeatureFile = "feature.md"

	// DoneTimestampLayout is the sortable prefix on done-task filenames.
	DoneTimestampLayout = "20060102_150405"
)

// StatusDir maps a task status to its storage directory. Open and done
// are mutually exclusive locations; exactly one holds the file.
func StatusDir(s object.Status) string {
	if s.Closed() {
		return TasksDoneDir
	}
	return TasksOpenDir
}

// taskFileRe parses a task filename: an optional sortable timestamp
// prefix, then T-<id>.md.
var taskFileRe = regexp.MustCompile(`^(?:\d{8}_\d{6}-)?T-([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`)

// markdownFor returns the fixed filename for a kind's object file, or
// "" for tasks (task filenames carry the ID and, when done, a
// timestamp, so they are built per call).
func markdownFor(kind object.Kind) string {
	switch kind {
	case object.KindProject:
		return ProjectFile
	case object.KindEpic:
		return EpicFile
	case object.KindFeature:
		return FeatureFile
	}
	return ""
}
