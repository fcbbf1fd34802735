package object

import "strings"

// knownPrefixes in classification order.
var knownPrefixes = []string{"P-", "E-", "F-", "T-"}

// StripPrefix removes a leading kind prefix from an ID if one is
// present. The prefix is stripped regardless of whether it matches the
// kind the caller is working with: passing "E-foo" where a project id
// is expected still yields "foo". The prefix is a hint, not a
// validation gate.
func StripPrefix(id string) string {
	for _, p := range knownPrefixes {
		if strings.HasPrefix(id, p) {
			return id[len(p):]
		}
	}
	return id
}

// AddPrefix prepends the kind's prefix to a bare ID. An ID that already
// carries any known prefix is first stripped, so the result always has
// exactly one prefix and it matches the kind.
func AddPrefix(kind Kind, id string) string {
	return kind.Prefix() + StripPrefix(id)
}

// CleanID canonicalizes an ID for equality comparison: lowercased and
// stripped of any kind prefix. Two spellings of the same object compare
// equal through CleanID even when one carries the prefix. It is not a
// cache key; the prefix distinguishes kinds and must survive there.
func CleanID(id string) string {
	lowered := strings.ToLower(strings.TrimSpace(id))
	for _, p := range knownPrefixes {
		if strings.HasPrefix(lowered, strings.ToLower(p)) {
			return lowered[len(p):]
		}
	}
	return lowered
}
