package object

import (
	"errors"
	"fmt"
)

// Sentinel errors form the shared taxonomy for the inference and path
// resolution subsystems. Callers match with errors.Is; the Code helper
// turns a wrapped error back into its stable machine-readable code for
// transport surfaces.
var (
	ErrInvalidFormat      = errors.New("invalid id format")
	ErrMissingRequired    = errors.New("missing required value")
	ErrNotFound           = errors.New("object not found")
	ErrSecurityViolation  = errors.New("security violation")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrPrecondition       = errors.New("precondition not met")
	ErrUnrecognized       = errors.New("unrecognized path")
	ErrMalformedHierarchy = errors.New("malformed hierarchy")
	ErrMissingParent      = errors.New("missing parent")
	ErrParentNotFound     = errors.New("parent not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidRoot        = errors.New("invalid planning root")
)

// codes maps sentinels to their stable codes. Error messages may evolve;
// these strings must not.
var codes = map[error]string{
	ErrInvalidFormat:      "INVALID_FORMAT",
	ErrMissingRequired:    "MISSING_REQUIRED",
	ErrNotFound:           "NOT_FOUND",
	ErrSecurityViolation:  "SECURITY_VIOLATION",
	ErrTypeMismatch:       "TYPE_MISMATCH",
	ErrPrecondition:       "PRECONDITION_ERROR",
	ErrUnrecognized:       "UNRECOGNIZED_PATH",
	ErrMalformedHierarchy: "MALFORMED_HIERARCHY",
	ErrMissingParent:      "MISSING_PARENT",
	ErrParentNotFound:     "PARENT_NOT_FOUND",
	ErrInvalidConfig:      "INVALID_CONFIG",
	ErrInvalidArgument:    "INVALID_ARGUMENT",
	ErrInvalidRoot:        "INVALID_ROOT",
}

// Error pairs a taxonomy sentinel with a human-readable detail string.
// The sentinel is recoverable via errors.Is / errors.Unwrap.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error from a taxonomy sentinel and a formatted
// detail message. Detail messages must not embed absolute filesystem
// paths; they travel to MCP clients verbatim.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Code returns the stable machine-readable code for an error from this
// taxonomy, or "INTERNAL" for anything else.
func Code(err error) string {
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return "INTERNAL"
}
