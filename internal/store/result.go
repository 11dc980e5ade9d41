package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// resultRepo implements ResultRepo.
type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	qb  *entsql.DialectBuilder
}

var resultColumns = []string{"id", "session_id", "user_id", "completed_at", "top_course", "course_count", "payload"}

func (r *resultRepo) Save(ctx context.Context, res StoredResult) (int64, error) {
	if res.SessionID == "" {
		return 0, errors.New("save result: session ID is required")
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	completed := res.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}

	query, args := r.qb.Insert("results").
		Columns("sequence", "session_id", "user_id", "completed_at", "top_course", "course_count", "payload").
		Values(seqNum, res.SessionID, res.UserID, completed.UTC().UnixMilli(), res.TopCourse, res.CourseCount, string(res.Payload)).
		Query()
	out, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save result: %w", err)
	}
	return id, nil
}

func (r *resultRepo) List(ctx context.Context, userID int64, limit int) ([]StoredResult, error) {
	sel := r.qb.Select(resultColumns...).
		From(entsql.Table("results")).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *resultRepo) Get(ctx context.Context, id int64) (*StoredResult, error) {
	query, args := r.qb.Select(resultColumns...).
		From(entsql.Table("results")).
		Where(entsql.EQ("id", id)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanResult(rows)
}

func scanResult(rows *sql.Rows) (*StoredResult, error) {
	var (
		res     StoredResult
		ts      int64
		payload string
	)
	if err := rows.Scan(&res.ID, &res.SessionID, &res.UserID, &ts, &res.TopCourse, &res.CourseCount, &payload); err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}
	res.CompletedAt = time.UnixMilli(ts).UTC()
	res.Payload = []byte(payload)
	return &res, nil
}
