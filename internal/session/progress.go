package session

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/goals"
	"github.com/abhisek/practiz/internal/store"
)

// MasteryOverview lists the learner's per-skill mastery ordered by
// category, domain and skill. Unknown learners get an empty list.
func (c *Coordinator) MasteryOverview(ctx context.Context, learnerID string) ([]SkillMastery, error) {
	if strings.TrimSpace(learnerID) == "" {
		return nil, errs.Invalid("learner id is empty")
	}
	recs, err := c.store.Conn().MasteryFor(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	out := make([]SkillMastery, 0, len(recs))
	for _, r := range recs {
		out = append(out, SkillMastery{
			Category:        r.Category,
			Domain:          r.Domain,
			Skill:           r.Skill,
			MasteryLevel:    r.Level,
			MasteryPoints:   r.Points,
			TotalQuestions:  r.TotalQuestions,
			CorrectAnswers:  r.CorrectAnswers,
			LastPracticedAt: r.LastPracticedAt,
		})
	}
	return out, nil
}

// DailyGoalProgress reports the learner's goal for the calendar day
// containing date. Days without answers report zero progress against the
// learner's current target.
func (c *Coordinator) DailyGoalProgress(ctx context.Context, learnerID string, date time.Time) (goals.Progress, error) {
	if strings.TrimSpace(learnerID) == "" {
		return goals.Progress{}, errs.Invalid("learner id is empty")
	}
	conn := c.store.Conn()
	day := goals.DayKey(date, c.cfg.Location)

	rec, ok, err := conn.GetGoal(ctx, learnerID, day)
	if err != nil {
		return goals.Progress{}, err
	}
	if !ok {
		target, err := c.learnerTarget(ctx, conn, learnerID)
		if err != nil {
			return goals.Progress{}, err
		}
		rec = goals.New(day, target)
	}
	return rec.Progress(), nil
}

// Today returns the current time, for callers that want today's progress.
func (c *Coordinator) Today() time.Time {
	return c.clock()
}

// SetDailyGoalTarget stores the learner's daily target clamped to
// [goals.MinTarget, goals.MaxTarget] and applies it to today's goal record
// if one exists. It returns the stored target.
func (c *Coordinator) SetDailyGoalTarget(ctx context.Context, learnerID string, target int) (int, error) {
	if strings.TrimSpace(learnerID) == "" {
		return 0, errs.Invalid("learner id is empty")
	}
	clamped := goals.ClampTarget(target)
	now := c.clock()

	err := c.store.InTx(ctx, func(conn *store.Conn) error {
		if err := conn.SetLearnerDailyTarget(ctx, learnerID, clamped, now); err != nil {
			return err
		}
		day := goals.DayKey(now, c.cfg.Location)
		rec, ok, err := conn.GetGoal(ctx, learnerID, day)
		if err != nil || !ok {
			return err
		}
		return conn.PutGoal(ctx, learnerID, rec.WithTarget(clamped))
	})
	if err != nil {
		return 0, c.fail("goal", err, "learner_id", learnerID)
	}

	if clamped != target {
		c.log.Info("daily target clamped", "learner_id", learnerID, "requested", target, "stored", clamped)
	}
	return clamped, nil
}
