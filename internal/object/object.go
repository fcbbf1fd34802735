// Package object defines the planning object model: the four object
// kinds, typed ID handling, the prefix pattern matcher, and the shared
// error taxonomy.
//
// Everything here is pure, with no filesystem access. Path resolution lives
// in the paths package; classification depends only on the shape of the
// ID string.
package object

import "fmt"

// Kind classifies a planning object.
type Kind string

const (
	KindProject Kind = "project"
	KindEpic    Kind = "epic"
	KindFeature Kind = "feature"
	KindTask    Kind = "task"
)

// Kinds lists all kinds in hierarchy order, parents first.
var Kinds = []Kind{KindProject, KindEpic, KindFeature, KindTask}

// kindPrefixes maps each kind to its ID prefix. The iteration order of
// classification is fixed by Kinds, not this map.
var kindPrefixes = map[Kind]string{
	KindProject: "P-",
	KindEpic:    "E-",
	KindFeature: "F-",
	KindTask:    "T-",
}

// Prefix returns the ID prefix for the kind ("P-", "E-", "F-", "T-").
func (k Kind) Prefix() string {
	return kindPrefixes[k]
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	_, ok := kindPrefixes[k]
	return ok
}

// ParentKind returns the kind one level up the hierarchy. Projects and
// tasks return "": projects have no parent, and a task's parent
// (a feature) is optional, so callers handle tasks explicitly.
func (k Kind) ParentKind() Kind {
	switch k {
	case KindEpic:
		return KindProject
	case KindFeature:
		return KindEpic
	case KindTask:
		return KindFeature
	}
	return ""
}

// ValidateKind returns an error if the kind is not recognized.
func ValidateKind(k Kind) error {
	if !k.Valid() {
		return Errorf(ErrInvalidArgument, "unknown kind %q: must be one of: project, epic, feature, task", string(k))
	}
	return nil
}

// Object is a planning object as stored on disk: YAML front matter
// fields plus the markdown body below the front-matter block.
type Object struct {
	ID            string `yaml:"id"`
	Kind          Kind   `yaml:"kind"`
	Parent        string `yaml:"parent,omitempty"`
	Status        Status `yaml:"status,omitempty"`
	Title         string `yaml:"title"`
	Priority      string `yaml:"priority,omitempty"`
	Created       string `yaml:"created,omitempty"`
	Updated       string `yaml:"updated,omitempty"`
	SchemaVersion string `yaml:"schema_version,omitempty"`

	// Body is the markdown content below the front matter.
	Body string `yaml:"-"`
}

// String implements fmt.Stringer for log lines.
func (o *Object) String() string {
	return fmt.Sprintf("%s %s", o.Kind, o.ID)
}
