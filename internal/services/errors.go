package services

import (
	"fmt"

	"github.com/desertthunder/taskly/internal/shared"
)

// NetworkError reports a failed round trip to the task service: either a transport failure (Err)
// or a non-2xx response (StatusCode, with the server's Message when it supplied one).
//
// It matches [shared.ErrNetwork] with [errors.Is], and also [shared.ErrServiceUnavailable] for 5xx responses.
type NetworkError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	switch target {
	case shared.ErrNetwork:
		return true
	case shared.ErrServiceUnavailable:
		return e.StatusCode >= 500
	default:
		return false
	}
}
