package adaptive

import (
	"errors"
	"fmt"
)

// ServiceError is a failure reported by the assessment service itself: a
// non-2xx status or a body with success=false. Error returns the service's
// message verbatim so it can be shown to the user as-is.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("assessment service returned HTTP %d", e.StatusCode)
	}
	return "assessment service rejected the request"
}

// TransportError indicates the service could not be reached.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach the assessment service: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedError indicates the service answered with a payload that is not
// valid JSON or does not have the expected shape.
type MalformedError struct {
	Op   string
	Body []byte
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("unexpected response from the assessment service (%s): %v", e.Op, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err is one of the recoverable service
// failures: the user may retry the same action.
func IsRecoverable(err error) bool {
	var (
		svc *ServiceError
		tr  *TransportError
		mal *MalformedError
	)
	return errors.As(err, &svc) || errors.As(err, &tr) || errors.As(err, &mal)
}
