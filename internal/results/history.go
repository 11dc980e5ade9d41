package results

import (
	"context"
	"fmt"

	"github.com/abhisek/coursematch/internal/store"
)

// Save stores rec in the user's result history and returns its ID.
func Save(ctx context.Context, repo store.ResultRepo, userID int64, rec *Record) (int64, error) {
	payload, err := rec.MarshalJSON()
	if err != nil {
		return 0, fmt.Errorf("encode record: %w", err)
	}
	top := ""
	if c, ok := rec.Top(); ok {
		top = c.Name
	}
	id, err := repo.Save(ctx, store.StoredResult{
		SessionID:   rec.SessionID(),
		UserID:      userID,
		CompletedAt: rec.CompletedAt(),
		TopCourse:   top,
		CourseCount: rec.Len(),
		Payload:     payload,
	})
	if err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	return id, nil
}

// Load returns a stored record, or nil if id does not exist.
func Load(ctx context.Context, repo store.ResultRepo, id int64) (*Record, error) {
	stored, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load result %d: %w", id, err)
	}
	if stored == nil {
		return nil, nil
	}
	return Decode(stored.Payload)
}
