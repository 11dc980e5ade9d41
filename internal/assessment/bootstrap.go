package assessment

import (
	"context"
	"fmt"

	"github.com/abhisek/coursematch/internal/profile"
)

// Bootstrap checks that a user may start an assessment.
type Bootstrap struct {
	profiles profile.Checker
}

// NewBootstrap creates a Bootstrap backed by the profile collaborator.
func NewBootstrap(profiles profile.Checker) *Bootstrap {
	return &Bootstrap{profiles: profiles}
}

// Check returns nil if userID may start a session. Precondition failures
// match ErrPrecondition. Lookup failures are returned as-is and are not
// retried.
func (b *Bootstrap) Check(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrMissingUser
	}
	if b == nil || b.profiles == nil {
		return nil
	}
	ok, err := b.profiles.HasAcademicInfo(ctx, userID)
	if err != nil {
		return fmt.Errorf("check profile: %w", err)
	}
	if !ok {
		return ErrProfileIncomplete
	}
	return nil
}
