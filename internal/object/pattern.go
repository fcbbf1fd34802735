package object

import (
	"fmt"
	"regexp"
	"strings"
)

// kindPattern pairs a prefix with its compiled ID pattern. Patterns are
// anchored and compiled once at package init; classification is a slice
// walk plus a single regexp match.
type kindPattern struct {
	kind Kind
	re   *regexp.Regexp
}

// idBody is one or more dash-separated lowercase alphanumeric segments,
// no consecutive hyphens, no leading or trailing hyphen.
const idBody = `[a-z0-9]+(-[a-z0-9]+)*`

var kindPatterns = []kindPattern{
	{KindProject, regexp.MustCompile(`^P-` + idBody + `$`)},
	{KindEpic, regexp.MustCompile(`^E-` + idBody + `$`)},
	{KindFeature, regexp.MustCompile(`^F-` + idBody + `$`)},
	{KindTask, regexp.MustCompile(`^T-` + idBody + `$`)},
}

// InferKind classifies an ID string into its object kind from the
// prefix and shape alone. It never touches the filesystem.
//
// The error detail on failure is advisory: it names what looks wrong
// with the ID (lowercase prefix, bad suffix characters, unknown prefix)
// to guide correction, but carries no behavioral contract.
func InferKind(id string) (Kind, error) {
	if id == "" {
		return "", Errorf(ErrInvalidFormat, "empty id")
	}
	for _, p := range kindPatterns {
		if p.re.MatchString(id) {
			return p.kind, nil
		}
	}
	return "", Errorf(ErrInvalidFormat, "%s", diagnose(id))
}

// ValidIDFormat is the non-throwing variant of InferKind.
func ValidIDFormat(id string) bool {
	_, err := InferKind(id)
	return err == nil
}

// diagnose explains why an ID failed classification.
func diagnose(id string) string {
	if len(id) >= 2 && id[1] == '-' {
		switch id[0] {
		case 'p', 'e', 'f', 't':
			return fmt.Sprintf("lowercase prefix %q: prefixes are uppercase, use %q", id[:2], strings.ToUpper(id[:2]))
		case 'P', 'E', 'F', 'T':
			return fmt.Sprintf("invalid characters after %q prefix: ids are lowercase alphanumeric segments separated by single hyphens", id[:2])
		}
	}
	return fmt.Sprintf("unrecognized prefix in %q: expected P-, E-, F-, or T- followed by a lowercase id", id)
}
