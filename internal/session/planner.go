package session

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/goals"
	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/metrics"
	"github.com/abhisek/practiz/internal/selection"
	"github.com/abhisek/practiz/internal/store"
)

// pickNext loads the learner's selection inputs through conn and ranks the
// scoped pool. The boolean is false when no item matches the scope.
func (c *Coordinator) pickNext(ctx context.Context, conn *store.Conn, learnerID string, scope item.Scope, excluded map[string]bool, now time.Time) (selection.Pick, bool, error) {
	in, err := c.selectionInput(ctx, conn, learnerID, scope, excluded, now)
	if err != nil {
		return selection.Pick{}, false, err
	}

	start := time.Now()
	pick, ok := c.scorer.SelectNext(in)
	metrics.ObserveSince(metrics.SelectionDuration, start)
	if !ok {
		metrics.EmptyPoolTotal.Inc()
		c.log.Info("no items in scope",
			"learner_id", learnerID,
			"category", scope.Category,
			"domain", scope.Domain,
		)
		return selection.Pick{}, false, nil
	}
	if pick.Repeat {
		c.log.Debug("pool exhausted, repeating", "learner_id", learnerID, "item_id", pick.Item.ID)
	}
	return pick, true, nil
}

func (c *Coordinator) selectionInput(ctx context.Context, conn *store.Conn, learnerID string, scope item.Scope, excluded map[string]bool, now time.Time) (selection.Input, error) {
	pool, err := conn.ListItems(ctx, scope)
	if err != nil {
		return selection.Input{}, err
	}
	reviews, err := conn.ReviewsFor(ctx, learnerID)
	if err != nil {
		return selection.Input{}, err
	}
	skills, err := conn.MasteryBySkill(ctx, learnerID)
	if err != nil {
		return selection.Input{}, err
	}
	return selection.Input{
		Pool:     pool,
		Reviews:  reviews,
		Mastery:  skills,
		Excluded: excluded,
		Scope:    scope,
		Now:      now,
	}, nil
}

// Candidates ranks the learner's scoped pool with per-signal breakdowns,
// excluding the items already answered in sessionID when it is set. It
// never writes.
func (c *Coordinator) Candidates(ctx context.Context, learnerID string, scope item.Scope, sessionID string) ([]selection.Pick, error) {
	conn := c.store.Conn()
	var excluded map[string]bool
	if sessionID != "" {
		s, err := conn.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		learnerID, scope, excluded = s.LearnerID, s.Scope, s.ExcludedSet()
	}
	if learnerID == "" {
		return nil, errs.Invalid("learner id is empty")
	}
	in, err := c.selectionInput(ctx, conn, learnerID, scope, excluded, c.clock())
	if err != nil {
		return nil, err
	}
	return c.scorer.Rank(in), nil
}

// learnerTarget returns the learner's daily target, falling back to the
// configured default for unknown learners or learners without a preference.
func (c *Coordinator) learnerTarget(ctx context.Context, conn *store.Conn, learnerID string) (int, error) {
	learner, err := conn.GetLearner(ctx, learnerID)
	if errors.Is(err, errs.ErrNotFound) {
		return goals.ClampTarget(c.cfg.DefaultDailyTarget), nil
	}
	if err != nil {
		return 0, err
	}
	if learner.DailyTarget != nil {
		return goals.ClampTarget(*learner.DailyTarget), nil
	}
	return goals.ClampTarget(c.cfg.DefaultDailyTarget), nil
}
