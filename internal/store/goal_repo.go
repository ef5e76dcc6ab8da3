package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/goals"
)

// GetGoal returns the learner's goal record for day. The boolean is false
// when nothing has been recorded that day.
func (c *Conn) GetGoal(ctx context.Context, learnerID, day string) (goals.Record, bool, error) {
	rows, err := c.queryBuilder(ctx, builder().
		Select("day", "target", "answered", "correct_answers", "time_spent_ms", "met").
		From(entsql.Table(DailyGoalsTable.Name)).
		Where(entsql.And(
			entsql.EQ("learner_id", learnerID),
			entsql.EQ("day", day),
		)))
	if err != nil {
		return goals.Record{}, false, persistence("get goal", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return goals.Record{}, false, persistence("get goal", err)
		}
		return goals.Record{}, false, nil
	}
	var r goals.Record
	if err := rows.Scan(&r.Day, &r.Target, &r.Answered, &r.CorrectAnswers, &r.TimeSpentMs, &r.Met); err != nil {
		return goals.Record{}, false, persistence("scan goal", err)
	}
	return r, true, nil
}

// PutGoal inserts or replaces the learner's goal record for r.Day.
func (c *Conn) PutGoal(ctx context.Context, learnerID string, r goals.Record) error {
	ins := builder().Insert(DailyGoalsTable.Name).
		Columns("learner_id", "day", "target", "answered", "correct_answers", "time_spent_ms", "met").
		Values(learnerID, r.Day, r.Target, r.Answered, r.CorrectAnswers, r.TimeSpentMs, r.Met).
		OnConflict(entsql.ConflictColumns("learner_id", "day"), entsql.ResolveWithNewValues())
	if _, err := c.execBuilder(ctx, ins); err != nil {
		return persistence("put goal", err)
	}
	return nil
}
