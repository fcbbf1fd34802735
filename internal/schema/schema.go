// Package schema validates the front-matter fields of planning objects
// and collects every problem found instead of stopping at the first.
//
// The collector surfaces pass/fail plus prioritized messages; callers
// that need structural validation (does the file exist, does the kind
// match) layer that on top in the infer package.
package schema

import (
	"fmt"
	"sort"

	"github.com/groveplan/grove/internal/object"
)

// Severity ranks an issue. Errors fail validation; warnings do not.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Issue is one validation finding against a single field.
type Issue struct {
	Field    string
	Message  string
	Severity Severity
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Collector accumulates issues for one object.
type Collector struct {
	issues []Issue
}

// HasErrors reports whether any error-severity issue was collected.
func (c *Collector) HasErrors() bool {
	for _, i := range c.issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// PrioritizedErrors returns error messages sorted by field name for
// stable output. Warnings are excluded.
func (c *Collector) PrioritizedErrors() []string {
	return c.messages(SeverityError)
}

// Warnings returns warning messages sorted by field name.
func (c *Collector) Warnings() []string {
	return c.messages(SeverityWarning)
}

func (c *Collector) messages(sev Severity) []string {
	var picked []Issue
	for _, i := range c.issues {
		if i.Severity == sev {
			picked = append(picked, i)
		}
	}
	sort.Slice(picked, func(a, b int) bool { return picked[a].Field < picked[b].Field })
	out := make([]string, len(picked))
	for n, i := range picked {
		out[n] = i.String()
	}
	return out
}

func (c *Collector) errorf(field, format string, args ...any) {
	c.issues = append(c.issues, Issue{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityError})
}

func (c *Collector) warnf(field, format string, args ...any) {
	c.issues = append(c.issues, Issue{Field: field, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

// knownPriorities are the accepted priority values. Empty means unset.
var knownPriorities = map[string]bool{"high": true, "normal": true, "low": true}

// ValidateObjectData checks an object's front-matter fields and returns
// the collector of findings. Messages name fields and values, never
// filesystem paths.
func ValidateObjectData(obj *object.Object) *Collector {
	c := &Collector{}

	if obj.ID == "" {
		c.errorf("id", "required")
	} else if !object.ValidIDFormat(obj.ID) {
		c.errorf("id", "%q is not a valid prefixed id", obj.ID)
	}

	if obj.Kind == "" {
		c.errorf("kind", "required")
	} else if !obj.Kind.Valid() {
		c.errorf("kind", "unknown kind %q", string(obj.Kind))
	}

	if obj.Title == "" {
		c.warnf("title", "empty title")
	}

	c.checkParent(obj)
	c.checkStatus(obj)

	if obj.Priority != "" && !knownPriorities[obj.Priority] {
		c.warnf("priority", "unknown priority %q", obj.Priority)
	}

	return c
}

// checkParent enforces hierarchy coherence: projects never have a
// parent, epics and features always do, tasks may go either way.
func (c *Collector) checkParent(obj *object.Object) {
	switch obj.Kind {
	case object.KindProject:
		if obj.Parent != "" {
			c.errorf("parent", "projects cannot have a parent, found %q", obj.Parent)
		}
	case object.KindEpic, object.KindFeature:
		if obj.Parent == "" {
			c.errorf("parent", "%ss require a %s parent", obj.Kind, obj.Kind.ParentKind())
			return
		}
		c.checkParentPrefix(obj)
	case object.KindTask:
		if obj.Parent != "" {
			c.checkParentPrefix(obj)
		}
	}
}

// checkParentPrefix verifies that a declared parent ID carries the
// prefix of the kind one level up.
func (c *Collector) checkParentPrefix(obj *object.Object) {
	want := obj.Kind.ParentKind()
	if want == "" {
		return
	}
	parentKind, err := object.InferKind(obj.Parent)
	if err != nil {
		c.errorf("parent", "%q is not a valid prefixed id", obj.Parent)
		return
	}
	if parentKind != want {
		c.errorf("parent", "a %s parent must be a %s, %q is a %s", obj.Kind, want, obj.Parent, parentKind)
	}
}

// checkStatus allows statuses only on tasks.
func (c *Collector) checkStatus(obj *object.Object) {
	if obj.Status == "" {
		return
	}
	if obj.Kind != object.KindTask && obj.Kind != "" {
		c.warnf("status", "status %q has no effect on a %s", string(obj.Status), obj.Kind)
		return
	}
	if err := object.ValidateStatus(obj.Status); err != nil {
		c.errorf("status", "unknown status %q", string(obj.Status))
	}
}
