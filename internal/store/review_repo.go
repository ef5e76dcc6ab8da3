package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/spacedrep"
)

var reviewColumns = []string{
	"item_id", "ease_factor", "interval_days", "repetitions",
	"next_review_at", "last_reviewed_at", "total_attempts", "correct_attempts",
}

// GetReview returns the learner's review record for itemID. The boolean is
// false when the item has never been attempted.
func (c *Conn) GetReview(ctx context.Context, learnerID, itemID string) (spacedrep.ReviewRecord, bool, error) {
	recs, err := c.reviews(ctx, entsql.And(
		entsql.EQ("learner_id", learnerID),
		entsql.EQ("item_id", itemID),
	))
	if err != nil {
		return spacedrep.ReviewRecord{}, false, err
	}
	rec, ok := recs[itemID]
	return rec, ok, nil
}

// ReviewsFor returns every review record of the learner keyed by item id.
func (c *Conn) ReviewsFor(ctx context.Context, learnerID string) (map[string]spacedrep.ReviewRecord, error) {
	return c.reviews(ctx, entsql.EQ("learner_id", learnerID))
}

func (c *Conn) reviews(ctx context.Context, where *entsql.Predicate) (map[string]spacedrep.ReviewRecord, error) {
	rows, err := c.queryBuilder(ctx, builder().Select(reviewColumns...).
		From(entsql.Table(ReviewRecordsTable.Name)).
		Where(where))
	if err != nil {
		return nil, persistence("list reviews", err)
	}
	defer rows.Close()

	out := make(map[string]spacedrep.ReviewRecord)
	for rows.Next() {
		var (
			id string
			r  spacedrep.ReviewRecord
		)
		if err := rows.Scan(&id, &r.EaseFactor, &r.IntervalDays, &r.Repetitions,
			&r.NextReviewAt, &r.LastReviewedAt, &r.TotalAttempts, &r.CorrectAttempts); err != nil {
			return nil, persistence("scan review", err)
		}
		r.NextReviewAt, r.LastReviewedAt = r.NextReviewAt.UTC(), r.LastReviewedAt.UTC()
		out[id] = r
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list reviews", err)
	}
	return out, nil
}

// PutReview inserts or replaces the learner's review record for itemID.
func (c *Conn) PutReview(ctx context.Context, learnerID, itemID string, r spacedrep.ReviewRecord) error {
	ins := builder().Insert(ReviewRecordsTable.Name).
		Columns(append([]string{"learner_id"}, reviewColumns...)...).
		Values(learnerID, itemID, r.EaseFactor, r.IntervalDays, r.Repetitions,
			r.NextReviewAt.UTC(), r.LastReviewedAt.UTC(), r.TotalAttempts, r.CorrectAttempts).
		OnConflict(entsql.ConflictColumns("learner_id", "item_id"), entsql.ResolveWithNewValues())
	if _, err := c.execBuilder(ctx, ins); err != nil {
		return persistence("put review", err)
	}
	return nil
}

// DeleteReviews removes every review record of the learner.
func (c *Conn) DeleteReviews(ctx context.Context, learnerID string) (int64, error) {
	res, err := c.execBuilder(ctx, builder().Delete(ReviewRecordsTable.Name).
		Where(entsql.EQ("learner_id", learnerID)))
	if err != nil {
		return 0, persistence("delete reviews", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
