package store

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/mastery"
)

var masteryColumns = []string{
	"skill", "category", "domain", "mastery_points", "mastery_level",
	"total_questions", "correct_answers", "current_streak", "last_practiced_at",
}

// GetMastery returns the learner's record for skill. The boolean is false
// when the skill has never been attempted.
func (c *Conn) GetMastery(ctx context.Context, learnerID, skill string) (mastery.Record, bool, error) {
	recs, err := c.masteryRecords(ctx, entsql.And(
		entsql.EQ("learner_id", learnerID),
		entsql.EQ("skill", skill),
	))
	if err != nil || len(recs) == 0 {
		return mastery.Record{}, false, err
	}
	return recs[0], true, nil
}

// MasteryFor returns every mastery record of the learner ordered by
// category, domain and skill.
func (c *Conn) MasteryFor(ctx context.Context, learnerID string) ([]mastery.Record, error) {
	return c.masteryRecords(ctx, entsql.EQ("learner_id", learnerID))
}

// MasteryBySkill returns the learner's mastery records keyed by skill.
func (c *Conn) MasteryBySkill(ctx context.Context, learnerID string) (map[string]mastery.Record, error) {
	recs, err := c.MasteryFor(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]mastery.Record, len(recs))
	for _, r := range recs {
		out[r.Skill] = r
	}
	return out, nil
}

func (c *Conn) masteryRecords(ctx context.Context, where *entsql.Predicate) ([]mastery.Record, error) {
	rows, err := c.queryBuilder(ctx, builder().Select(masteryColumns...).
		From(entsql.Table(MasteryRecordsTable.Name)).
		Where(where).
		OrderBy("category", "domain", "skill"))
	if err != nil {
		return nil, persistence("list mastery", err)
	}
	defer rows.Close()

	var out []mastery.Record
	for rows.Next() {
		var (
			r     mastery.Record
			level string
			last  sql.NullTime
		)
		if err := rows.Scan(&r.Skill, &r.Category, &r.Domain, &r.Points, &level,
			&r.TotalQuestions, &r.CorrectAnswers, &r.CurrentStreak, &last); err != nil {
			return nil, persistence("scan mastery", err)
		}
		r.Level = mastery.Level(level)
		if !r.Level.Valid() {
			return nil, errs.Invariant("skill %q has unknown mastery level %q", r.Skill, level)
		}
		r.LastPracticedAt = timePtr(last)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list mastery", err)
	}
	return out, nil
}

// PutMastery inserts or replaces the learner's record for r.Skill.
func (c *Conn) PutMastery(ctx context.Context, learnerID string, r mastery.Record) error {
	ins := builder().Insert(MasteryRecordsTable.Name).
		Columns(append([]string{"learner_id"}, masteryColumns...)...).
		Values(learnerID, r.Skill, r.Category, r.Domain, r.Points, string(r.Level),
			r.TotalQuestions, r.CorrectAnswers, r.CurrentStreak, nullTime(r.LastPracticedAt)).
		OnConflict(entsql.ConflictColumns("learner_id", "skill"), entsql.ResolveWithNewValues())
	if _, err := c.execBuilder(ctx, ins); err != nil {
		return persistence("put mastery", err)
	}
	return nil
}

// DeleteMastery removes every mastery record of the learner.
func (c *Conn) DeleteMastery(ctx context.Context, learnerID string) (int64, error) {
	res, err := c.execBuilder(ctx, builder().Delete(MasteryRecordsTable.Name).
		Where(entsql.EQ("learner_id", learnerID)))
	if err != nil {
		return 0, persistence("delete mastery", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
