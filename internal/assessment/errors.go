package assessment

import (
	"errors"
	"fmt"
)

// ErrPrecondition is matched by every failure that must send the user to
// complete their profile instead of retrying.
var ErrPrecondition = errors.New("assessment precondition not met")

var (
	ErrMissingUser       = fmt.Errorf("%w: no user is signed in", ErrPrecondition)
	ErrProfileIncomplete = fmt.Errorf("%w: academic profile is incomplete", ErrPrecondition)
)

// Sequencing violations. These are detected locally and never reach the
// service.
var (
	ErrBusy             = errors.New("another operation is in progress")
	ErrNoSession        = errors.New("no assessment session is active")
	ErrSessionComplete  = errors.New("assessment is already complete")
	ErrStaleQuestion    = errors.New("answer is for a question that is no longer current")
	ErrUnknownOption    = errors.New("option does not belong to the current question")
	ErrAtFirstRound     = errors.New("already at the first round")
	ErrFinishNotAllowed = errors.New("not enough rounds answered to finish early")
	ErrDiscarded        = errors.New("session was discarded")
)

// IsSequencing reports whether err is a local sequencing violation.
func IsSequencing(err error) bool {
	for _, target := range []error{
		ErrBusy, ErrNoSession, ErrSessionComplete, ErrStaleQuestion,
		ErrUnknownOption, ErrAtFirstRound, ErrFinishNotAllowed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
