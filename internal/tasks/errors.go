package tasks

import (
	"fmt"

	"github.com/desertthunder/taskly/internal/shared"
)

// Validation failure reasons.
const (
	ReasonEmpty     = "empty"
	ReasonDuplicate = "duplicate"
	ReasonNotFound  = "not_found"
)

// ValidationError is a local rejection of a store operation. It never reaches the remote service.
type ValidationError struct {
	Reason string
	Text   string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "task text is empty"
	case ReasonDuplicate:
		return fmt.Sprintf("task %q already exists", e.Text)
	case ReasonNotFound:
		return fmt.Sprintf("task %q not found", e.Text)
	default:
		return "invalid task: " + e.Reason
	}
}

func (e *ValidationError) Unwrap() error { return shared.ErrInvalidInput }

// Message returns the user-facing notification text for the failure.
func (e *ValidationError) Message() string {
	switch e.Reason {
	case ReasonEmpty:
		return MsgEmpty
	case ReasonDuplicate:
		return MsgDuplicate
	case ReasonNotFound:
		return MsgNotFound
	default:
		return "Invalid task."
	}
}
