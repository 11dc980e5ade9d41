package assessment

import (
	asmt "github.com/abhisek/coursematch/internal/assessment"
)

// stepDoneMsg is sent when a navigator operation returns.
type stepDoneMsg struct {
	Op      asmt.OpKind
	Session *asmt.Session
	Err     error
}
