package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/metrics"
	"github.com/abhisek/practiz/internal/store"
)

// ResetProgress deletes the learner's review and mastery records and zeroes
// the learner's streaks. It refuses while a session is active.
func (c *Coordinator) ResetProgress(ctx context.Context, learnerID string) (ResetResult, error) {
	if strings.TrimSpace(learnerID) == "" {
		return ResetResult{}, errs.Invalid("learner id is empty")
	}
	now := c.clock()

	var res ResetResult
	err := c.store.InTx(ctx, func(conn *store.Conn) error {
		if _, ok, err := conn.ActiveSession(ctx, learnerID); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("reset %q: %w", learnerID, ErrSessionActive)
		}

		var err error
		if res.ReviewsDeleted, err = conn.DeleteReviews(ctx, learnerID); err != nil {
			return err
		}
		if res.MasteryDeleted, err = conn.DeleteMastery(ctx, learnerID); err != nil {
			return err
		}
		err = conn.UpdateLearnerStreaks(ctx, learnerID, 0, 0, now)
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return ResetResult{}, c.fail("reset", err, "learner_id", learnerID)
	}

	c.log.Info("progress reset",
		"learner_id", learnerID,
		"reviews_deleted", res.ReviewsDeleted,
		"mastery_deleted", res.MasteryDeleted,
	)
	return res, nil
}

// ReapIdle ends every active session whose last activity is older than
// idleFor and returns how many were ended. Each session ends in its own
// transaction.
func (c *Coordinator) ReapIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	now := c.clock()
	cutoff := now.Add(-idleFor)

	active, err := c.store.Conn().ActiveSessions(ctx)
	if err != nil {
		return 0, c.fail("reap", err)
	}

	reaped := 0
	for _, s := range active {
		if !s.LastActivityAt.Before(cutoff) {
			continue
		}
		ended, ok, err := c.reapSession(ctx, s.ID, cutoff, now)
		if err != nil {
			return reaped, c.fail("reap", err, "session_id", s.ID)
		}
		if !ok {
			continue
		}
		reaped++
		metrics.RecordSession(store.ActionReap)
		c.log.Info("idle session ended",
			"session_id", ended.ID,
			"learner_id", ended.LearnerID,
			"questions_answered", ended.QuestionsAnswered,
			"idle_for", now.Sub(ended.LastActivityAt).String(),
		)
	}
	return reaped, nil
}

// reapSession ends session id if it is still active and idle since before
// cutoff when re-read inside the transaction. An answer that lands after the
// scan keeps the session open. The returned session holds the tallies as of
// the end.
func (c *Coordinator) reapSession(ctx context.Context, id string, cutoff, now time.Time) (store.Session, bool, error) {
	var (
		cur   store.Session
		ended bool
	)
	err := c.store.InTx(ctx, func(conn *store.Conn) error {
		var err error
		if cur, err = conn.GetSession(ctx, id); err != nil {
			return err
		}
		if cur.Status != store.SessionActive || !cur.LastActivityAt.Before(cutoff) {
			return nil
		}
		if ended, err = conn.EndSession(ctx, id, now); err != nil || !ended {
			return err
		}
		return conn.AppendSessionEvent(ctx, lifecycleEvent(cur, store.ActionReap, now))
	})
	if err != nil {
		return store.Session{}, false, err
	}
	return cur, ended, nil
}
