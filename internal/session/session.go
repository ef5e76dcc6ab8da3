// Package session coordinates practice sessions: it checks answers, applies
// the review and mastery updates, keeps session and daily goal tallies, and
// picks the next item, committing each answer as one transaction.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/goals"
	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/logging"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/metrics"
	"github.com/abhisek/practiz/internal/selection"
	"github.com/abhisek/practiz/internal/spacedrep"
	"github.com/abhisek/practiz/internal/store"
)

// DefaultDailyTarget is used when neither the learner nor the config sets a
// daily target.
const DefaultDailyTarget = 10

// Config holds the tunables of a Coordinator.
type Config struct {
	// DefaultDailyTarget applies to learners without a stored preference.
	DefaultDailyTarget int
	// Location decides calendar-day boundaries for daily goals.
	Location *time.Location
	Weights  selection.Weights
	Mastery  mastery.Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		DefaultDailyTarget: DefaultDailyTarget,
		Location:           time.UTC,
		Weights:            selection.DefaultWeights(),
		Mastery:            mastery.DefaultParams(),
	}
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithRandSource overrides the selection jitter source.
func WithRandSource(src selection.RandSource) Option {
	return func(c *Coordinator) { c.rand = src }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(gen func() string) Option {
	return func(c *Coordinator) { c.newID = gen }
}

// Coordinator runs the session state machine on top of a Store.
type Coordinator struct {
	store  *store.Store
	cfg    Config
	scorer *selection.Scorer
	rand   selection.RandSource
	now    func() time.Time
	newID  func() string
	log    *slog.Logger
}

// New creates a Coordinator.
func New(st *store.Store, cfg Config, opts ...Option) *Coordinator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultDailyTarget == 0 {
		cfg.DefaultDailyTarget = DefaultDailyTarget
	}
	c := &Coordinator{
		store: st,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
		log:   logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	c.scorer = selection.NewScorer(cfg.Weights, c.rand)
	return c
}

// Config returns the coordinator configuration.
func (c *Coordinator) Config() Config {
	return c.cfg
}

func (c *Coordinator) clock() time.Time {
	return c.now().UTC()
}

// Start opens a session for the learner and selects its first item. If the
// learner already has an active session it is returned unchanged.
func (c *Coordinator) Start(ctx context.Context, req StartRequest) (StartResult, error) {
	if strings.TrimSpace(req.LearnerID) == "" {
		return StartResult{}, errs.Invalid("learner id is empty")
	}
	now := c.clock()

	var res StartResult
	err := c.store.InTx(ctx, func(conn *store.Conn) error {
		learner, err := conn.EnsureLearner(ctx, req.LearnerID, now)
		if err != nil {
			return err
		}

		if active, ok, err := conn.ActiveSession(ctx, req.LearnerID); err != nil {
			return err
		} else if ok {
			res = StartResult{SessionID: active.ID, FirstItemID: active.CurrentItemID, Resumed: true}
			return conn.AppendSessionEvent(ctx, lifecycleEvent(active, store.ActionResume, now))
		}

		pick, found, err := c.pickNext(ctx, conn, req.LearnerID, req.Scope, nil, now)
		if err != nil {
			return err
		}
		s := store.Session{
			ID:             c.newID(),
			LearnerID:      req.LearnerID,
			Status:         store.SessionActive,
			Scope:          req.Scope,
			CurrentStreak:  learner.CurrentStreak,
			BestStreak:     learner.BestStreak,
			StartedAt:      now,
			LastActivityAt: now,
		}
		if found {
			s.CurrentItemID = pick.Item.ID
		}

		if err := conn.CreateSession(ctx, s); err != nil {
			if !errors.Is(err, store.ErrActiveSessionExists) {
				return err
			}
			// Lost a creation race; hand back the winner.
			active, ok, rerr := conn.ActiveSession(ctx, req.LearnerID)
			if rerr != nil {
				return rerr
			}
			if !ok {
				return err
			}
			res = StartResult{SessionID: active.ID, FirstItemID: active.CurrentItemID, Resumed: true}
			return conn.AppendSessionEvent(ctx, lifecycleEvent(active, store.ActionResume, now))
		}
		res = StartResult{SessionID: s.ID, FirstItemID: s.CurrentItemID}
		return conn.AppendSessionEvent(ctx, lifecycleEvent(s, store.ActionStart, now))
	})
	if err != nil {
		return StartResult{}, c.fail("start", err, "learner_id", req.LearnerID)
	}

	action := store.ActionStart
	if res.Resumed {
		action = store.ActionResume
	}
	metrics.RecordSession(action)
	c.log.Info("session "+action,
		"session_id", res.SessionID,
		"learner_id", req.LearnerID,
		"first_item_id", res.FirstItemID,
	)
	return res, nil
}

// SubmitAnswer grades an answer and applies every resulting update in one
// transaction: review record, mastery record, session tallies, daily goal
// and the answer log.
func (c *Coordinator) SubmitAnswer(ctx context.Context, req AnswerRequest) (AnswerResult, error) {
	switch {
	case strings.TrimSpace(req.SessionID) == "":
		return AnswerResult{}, errs.Invalid("session id is empty")
	case strings.TrimSpace(req.ItemID) == "":
		return AnswerResult{}, errs.Invalid("item id is empty")
	case req.TimeSpentMs < 0:
		return AnswerResult{}, errs.Invalid("negative time spent %d", req.TimeSpentMs)
	}
	start := time.Now()
	now := c.clock()

	var res AnswerResult
	err := c.store.InTx(ctx, func(conn *store.Conn) error {
		if req.RequestID != "" {
			prev, ok, err := conn.FindAnswerEvent(ctx, req.SessionID, req.RequestID)
			if err != nil {
				return err
			}
			if ok {
				if err := json.Unmarshal(prev.Result, &res); err != nil {
					return fmt.Errorf("decode stored result: %w", err)
				}
				res.Replayed = true
				return nil
			}
		}

		s, err := conn.GetSession(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if s.Status != store.SessionActive {
			return fmt.Errorf("session %q: %w", s.ID, ErrSessionEnded)
		}
		if s.CurrentItemID == "" || s.CurrentItemID != req.ItemID {
			return fmt.Errorf("answer for %q, presented %q: %w", req.ItemID, s.CurrentItemID, ErrItemMismatch)
		}

		it, err := conn.GetItem(ctx, req.ItemID)
		if err != nil {
			return err
		}
		correct := it.CheckAnswer(req.SelectedAnswer)

		if err := c.applyReview(ctx, conn, s.LearnerID, it, correct, now); err != nil {
			return err
		}
		mres, err := c.applyMastery(ctx, conn, s.LearnerID, it, correct, now)
		if err != nil {
			return err
		}

		expect := s.QuestionsAnswered
		next := advance(s, it.ID, correct, now)
		if err := c.applyLearnerStreaks(ctx, conn, next, now); err != nil {
			return err
		}
		if err := c.applyGoal(ctx, conn, s.LearnerID, correct, req.TimeSpentMs, now); err != nil {
			return err
		}

		pick, found, err := c.pickNext(ctx, conn, s.LearnerID, s.Scope, next.ExcludedSet(), now)
		if err != nil {
			return err
		}
		next.CurrentItemID = ""
		if found {
			next.CurrentItemID = pick.Item.ID
		}

		ok, err := conn.UpdateSessionProgress(ctx, next, expect)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("session %q: %w", s.ID, ErrConcurrentSubmission)
		}

		res = AnswerResult{
			IsCorrect:     correct,
			CorrectAnswer: it.CorrectAnswer,
			NextItemID:    next.CurrentItemID,
			CurrentStreak: next.CurrentStreak,
			SessionStreak: next.SessionStreak,
			BestStreak:    next.BestStreak,
			Skill:         it.Skill,
			MasteryLevel:  mres.Record.Level,
			MasteryPoints: mres.Record.Points,
			PointChange:   mres.PointChange,
		}
		encoded, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		err = conn.AppendAnswerEvent(ctx, &store.AnswerEvent{
			Timestamp:      now,
			SessionID:      s.ID,
			LearnerID:      s.LearnerID,
			ItemID:         it.ID,
			RequestID:      req.RequestID,
			SelectedAnswer: req.SelectedAnswer,
			Correct:        correct,
			TimeSpentMs:    req.TimeSpentMs,
			Result:         encoded,
		})
		if errors.Is(err, store.ErrDuplicateRequest) {
			return fmt.Errorf("session %q: %w", s.ID, ErrConcurrentSubmission)
		}
		return err
	})
	if err != nil {
		return AnswerResult{}, c.fail("submit", err, "session_id", req.SessionID, "item_id", req.ItemID)
	}
	metrics.ObserveSince(metrics.SubmitDuration, start)

	if res.Replayed {
		c.log.Warn("duplicate submission replayed",
			"session_id", req.SessionID,
			"request_id", req.RequestID,
		)
		return res, nil
	}
	metrics.RecordAnswer(res.IsCorrect)
	c.log.Debug("answer submitted",
		"session_id", req.SessionID,
		"item_id", req.ItemID,
		"correct", res.IsCorrect,
		"point_change", res.PointChange,
		"next_item_id", res.NextItemID,
	)
	return res, nil
}

// End closes a session and returns its final tallies.
func (c *Coordinator) End(ctx context.Context, sessionID string) (Summary, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Summary{}, errs.Invalid("session id is empty")
	}
	now := c.clock()

	var sum Summary
	err := c.store.InTx(ctx, func(conn *store.Conn) error {
		s, err := conn.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		ended, err := conn.EndSession(ctx, sessionID, now)
		if err != nil {
			return err
		}
		if !ended {
			return fmt.Errorf("session %q: %w", sessionID, ErrSessionEnded)
		}
		sum = BuildSummary(s)
		return conn.AppendSessionEvent(ctx, lifecycleEvent(s, store.ActionEnd, now))
	})
	if err != nil {
		return Summary{}, c.fail("end", err, "session_id", sessionID)
	}

	metrics.RecordSession(store.ActionEnd)
	c.log.Info("session end",
		"session_id", sessionID,
		"questions_answered", sum.QuestionsAnswered,
		"correct_answers", sum.CorrectAnswers,
	)
	return sum, nil
}

// Session returns the current state of a session.
func (c *Coordinator) Session(ctx context.Context, sessionID string) (State, error) {
	s, err := c.store.Conn().GetSession(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return stateOf(s), nil
}

func (c *Coordinator) applyReview(ctx context.Context, conn *store.Conn, learnerID string, it item.Item, correct bool, now time.Time) error {
	prior, ok, err := conn.GetReview(ctx, learnerID, it.ID)
	if err != nil {
		return err
	}
	if !ok {
		prior = spacedrep.NewRecord()
	}
	next, err := spacedrep.Update(prior, correct, now)
	if err != nil {
		return fmt.Errorf("review %q: %w", it.ID, err)
	}
	return conn.PutReview(ctx, learnerID, it.ID, next)
}

func (c *Coordinator) applyMastery(ctx context.Context, conn *store.Conn, learnerID string, it item.Item, correct bool, now time.Time) (mastery.Result, error) {
	prior, ok, err := conn.GetMastery(ctx, learnerID, it.Skill)
	if err != nil {
		return mastery.Result{}, err
	}
	if !ok {
		prior = mastery.NewRecord(it.Skill, it.Category, it.Domain)
	}
	res, err := mastery.Update(prior, correct, it.Difficulty, now, c.cfg.Mastery)
	if err != nil {
		return mastery.Result{}, fmt.Errorf("mastery %q: %w", it.Skill, err)
	}
	if err := conn.PutMastery(ctx, learnerID, res.Record); err != nil {
		return mastery.Result{}, err
	}
	return res, nil
}

func (c *Coordinator) applyLearnerStreaks(ctx context.Context, conn *store.Conn, s store.Session, now time.Time) error {
	learner, err := conn.EnsureLearner(ctx, s.LearnerID, now)
	if err != nil {
		return err
	}
	return conn.UpdateLearnerStreaks(ctx, s.LearnerID, s.CurrentStreak, max(learner.BestStreak, s.BestStreak), now)
}

func (c *Coordinator) applyGoal(ctx context.Context, conn *store.Conn, learnerID string, correct bool, timeSpentMs int64, now time.Time) error {
	day := goals.DayKey(now, c.cfg.Location)
	rec, ok, err := conn.GetGoal(ctx, learnerID, day)
	if err != nil {
		return err
	}
	if !ok {
		target, err := c.learnerTarget(ctx, conn, learnerID)
		if err != nil {
			return err
		}
		rec = goals.New(day, target)
	}
	return conn.PutGoal(ctx, learnerID, rec.Apply(correct, timeSpentMs))
}

// advance applies one answer to the session tallies.
func advance(s store.Session, itemID string, correct bool, now time.Time) store.Session {
	next := s
	if !s.Answered(itemID) {
		next.AnsweredItemIDs = append(append([]string(nil), s.AnsweredItemIDs...), itemID)
	}
	next.QuestionsAnswered++
	if correct {
		next.CorrectAnswers++
		next.CurrentStreak++
		next.SessionStreak++
	} else {
		next.CurrentStreak = 0
		next.SessionStreak = 0
	}
	next.BestStreak = max(next.BestStreak, next.CurrentStreak)
	next.LastActivityAt = now
	return next
}

func lifecycleEvent(s store.Session, action string, now time.Time) store.SessionEvent {
	return store.SessionEvent{
		Timestamp:         now,
		SessionID:         s.ID,
		LearnerID:         s.LearnerID,
		Action:            action,
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
	}
}

// fail logs and counts a failed unit of work and returns err unchanged.
func (c *Coordinator) fail(op string, err error, attrs ...any) error {
	attrs = append(attrs, "op", op, "error", err)
	switch {
	case errs.IsPersistence(err):
		metrics.PersistenceFailures.WithLabelValues(op).Inc()
		c.log.Error("unit of work failed", attrs...)
	case errors.Is(err, ErrItemMismatch), errors.Is(err, ErrConcurrentSubmission), errors.Is(err, ErrSessionEnded):
		c.log.Warn("request rejected", attrs...)
	case errors.Is(err, errs.ErrInvariantViolation):
		c.log.Error("invariant violation", attrs...)
	default:
		c.log.Debug("request failed", attrs...)
	}
	return err
}
