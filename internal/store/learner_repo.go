package store

import (
	"context"
	"database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Learner carries the per-learner preferences and all-time streaks.
type Learner struct {
	ID            string
	DailyTarget   *int
	CurrentStreak int
	BestStreak    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GetLearner returns the learner with id or an error wrapping
// errs.ErrNotFound.
func (c *Conn) GetLearner(ctx context.Context, id string) (Learner, error) {
	rows, err := c.queryBuilder(ctx,
		builder().Select("id", "daily_target", "current_streak", "best_streak", "created_at", "updated_at").
			From(entsql.Table(LearnersTable.Name)).
			Where(entsql.EQ("id", id)))
	if err != nil {
		return Learner{}, persistence("get learner", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Learner{}, persistence("get learner", err)
		}
		return Learner{}, notFound("learner", id)
	}
	var (
		l      Learner
		target sql.NullInt64
	)
	if err := rows.Scan(&l.ID, &target, &l.CurrentStreak, &l.BestStreak, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return Learner{}, persistence("scan learner", err)
	}
	if target.Valid {
		v := int(target.Int64)
		l.DailyTarget = &v
	}
	l.CreatedAt, l.UpdatedAt = l.CreatedAt.UTC(), l.UpdatedAt.UTC()
	return l, nil
}

// EnsureLearner creates the learner row if missing and returns it.
func (c *Conn) EnsureLearner(ctx context.Context, id string, now time.Time) (Learner, error) {
	now = now.UTC()
	ins := builder().Insert(LearnersTable.Name).
		Columns("id", "current_streak", "best_streak", "created_at", "updated_at").
		Values(id, 0, 0, now, now).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing())
	if _, err := c.execBuilder(ctx, ins); err != nil {
		return Learner{}, persistence("ensure learner", err)
	}
	return c.GetLearner(ctx, id)
}

// SetLearnerDailyTarget stores the learner's daily target, creating the
// learner if needed.
func (c *Conn) SetLearnerDailyTarget(ctx context.Context, id string, target int, now time.Time) error {
	now = now.UTC()
	ins := builder().Insert(LearnersTable.Name).
		Columns("id", "daily_target", "current_streak", "best_streak", "created_at", "updated_at").
		Values(id, target, 0, 0, now, now).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("daily_target")
				u.SetExcluded("updated_at")
			}),
		)
	if _, err := c.execBuilder(ctx, ins); err != nil {
		return persistence("set daily target", err)
	}
	return nil
}

// UpdateLearnerStreaks stores the learner's all-time streak figures.
func (c *Conn) UpdateLearnerStreaks(ctx context.Context, id string, current, best int, now time.Time) error {
	res, err := c.execBuilder(ctx, builder().Update(LearnersTable.Name).
		Set("current_streak", current).
		Set("best_streak", best).
		Set("updated_at", now.UTC()).
		Where(entsql.EQ("id", id)))
	if err != nil {
		return persistence("update learner streaks", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("learner", id)
	}
	return nil
}
