package stopfinder

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited marks an HTTP 429 from the stop finder. It is fatal.
	ErrRateLimited = errors.New("stop finder rate limit exceeded")
	// ErrMatch marks any other lookup failure. It is recoverable.
	ErrMatch = errors.New("stop finder lookup failed")
	// ErrBlankID marks a blank feed id. Verify never returns it; the
	// compiler records it for the per-mode summary.
	ErrBlankID = errors.New("blank stop id")
)

// RateLimitError is returned when the stop finder answers 429.
type RateLimitError struct {
	StopID string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (HTTP 429) for stop %s", ErrRateLimited, e.StopID)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// MatchError is a recoverable lookup failure. Status is 0 for network
// level failures.
type MatchError struct {
	StopID  string
	Status  int
	Message string
	Err     error
}

func (e *MatchError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s for stop %s: status %d: %s", ErrMatch, e.StopID, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s for stop %s: status %d", ErrMatch, e.StopID, e.Status)
	default:
		return fmt.Sprintf("%s for stop %s: %v", ErrMatch, e.StopID, e.Err)
	}
}

func (e *MatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMatch}
	}
	return []error{ErrMatch, e.Err}
}

// IsRecoverable reports whether err may be absorbed as a no-match.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	var me *MatchError
	return errors.As(err, &me)
}
