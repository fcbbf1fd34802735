package object

// Status is a task's lifecycle state. Only the open/done distinction
// affects storage routing; transitions between states are enforced
// elsewhere.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// validStatuses is the set of allowed task statuses.
var validStatuses = map[Status]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusReview:     true,
	StatusDone:       true,
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return Errorf(ErrInvalidArgument, "invalid status %q: must be one of: open, in-progress, review, done", string(s))
	}
	return nil
}

// Closed reports whether the status routes to the done directory.
// Everything except done lives under tasks-open; a task has exactly
// one physical file at any time.
func (s Status) Closed() bool {
	return s == StatusDone
}
