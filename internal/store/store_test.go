package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/goals"
	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/spacedrep"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN("/tmp/x.db")
	assert.Contains(t, dsn, "file:/tmp/x.db?")
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.Equal(t, "file::memory:?cache=shared", DSN("file::memory:?cache=shared"))
}

func TestItems(t *testing.T) {
	s := openTestStore(t)
	c := s.Conn()
	ctx := context.Background()

	items := []item.Item{
		{ID: "q1", Category: "math", Domain: "sat", Skill: "algebra", Difficulty: 2, CorrectAnswer: "A"},
		{ID: "q2", Category: "math", Domain: "act", Skill: "geometry", Difficulty: 1, CorrectAnswer: "B"},
		{ID: "q3", Category: "reading", Domain: "sat", Skill: "inference", Difficulty: 3, CorrectAnswer: "C"},
	}
	require.NoError(t, c.UpsertItems(ctx, items, now))

	got, err := c.GetItem(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, items[0], got)

	_, err = c.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	all, err := c.ListItems(ctx, item.Scope{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	math, err := c.ListItems(ctx, item.Scope{Category: "math"})
	require.NoError(t, err)
	assert.Len(t, math, 2)

	satMath, err := c.ListItems(ctx, item.Scope{Category: "math", Domain: "sat"})
	require.NoError(t, err)
	require.Len(t, satMath, 1)
	assert.Equal(t, "q1", satMath[0].ID)

	// Upsert replaces metadata.
	items[0].CorrectAnswer = "D"
	require.NoError(t, c.UpsertItems(ctx, items[:1], now.Add(time.Hour)))
	got, err = c.GetItem(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "D", got.CorrectAnswer)

	n, err := c.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestLearner(t *testing.T) {
	s := openTestStore(t)
	c := s.Conn()
	ctx := context.Background()

	_, err := c.GetLearner(ctx, "alice")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	l, err := c.EnsureLearner(ctx, "alice", now)
	require.NoError(t, err)
	assert.Nil(t, l.DailyTarget)
	assert.True(t, l.CreatedAt.Equal(now))

	require.NoError(t, c.SetLearnerDailyTarget(ctx, "alice", 25, now))
	require.NoError(t, c.UpdateLearnerStreaks(ctx, "alice", 3, 7, now))

	// Ensuring again keeps existing values.
	l, err = c.EnsureLearner(ctx, "alice", now.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, l.DailyTarget)
	assert.Equal(t, 25, *l.DailyTarget)
	assert.Equal(t, 3, l.CurrentStreak)
	assert.Equal(t, 7, l.BestStreak)

	// Setting a target creates a missing learner.
	require.NoError(t, c.SetLearnerDailyTarget(ctx, "bob", 5, now))
	l, err = c.GetLearner(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 5, *l.DailyTarget)

	err = c.UpdateLearnerStreaks(ctx, "carol", 1, 1, now)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestReviews(t *testing.T) {
	s := openTestStore(t)
	c := s.Conn()
	ctx := context.Background()

	_, ok, err := c.GetReview(ctx, "alice", "q1")
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err := spacedrep.Update(spacedrep.NewRecord(), true, now)
	require.NoError(t, err)
	require.NoError(t, c.PutReview(ctx, "alice", "q1", rec))

	got, ok, err := c.GetReview(ctx, "alice", "q1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.EaseFactor, got.EaseFactor)
	assert.Equal(t, rec.IntervalDays, got.IntervalDays)
	assert.Equal(t, rec.Repetitions, got.Repetitions)
	assert.True(t, rec.NextReviewAt.Equal(got.NextReviewAt))
	assert.True(t, rec.LastReviewedAt.Equal(got.LastReviewedAt))

	rec2, err := spacedrep.Update(rec, false, now.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, c.PutReview(ctx, "alice", "q1", rec2))
	require.NoError(t, c.PutReview(ctx, "alice", "q2", rec))
	require.NoError(t, c.PutReview(ctx, "bob", "q1", rec))

	all, err := c.ReviewsFor(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 0, all["q1"].Repetitions)
	assert.Equal(t, 2, all["q1"].TotalAttempts)

	n, err := c.DeleteReviews(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	bob, err := c.ReviewsFor(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob, 1)
}

func TestMastery(t *testing.T) {
	s := openTestStore(t)
	c := s.Conn()
	ctx := context.Background()

	_, ok, err := c.GetMastery(ctx, "alice", "algebra")
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := mastery.Update(mastery.NewRecord("algebra", "math", "sat"), true, 2, now, mastery.DefaultParams())
	require.NoError(t, err)
	require.NoError(t, c.PutMastery(ctx, "alice", res.Record))
	require.NoError(t, c.PutMastery(ctx, "alice", mastery.NewRecord("geometry", "math", "act")))

	got, ok, err := c.GetMastery(ctx, "alice", "algebra")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 15, got.Points)
	assert.Equal(t, mastery.LevelNovice, got.Level)
	require.NotNil(t, got.LastPracticedAt)
	assert.True(t, got.LastPracticedAt.Equal(now))

	untouched, _, err := c.GetMastery(ctx, "alice", "geometry")
	require.NoError(t, err)
	assert.Nil(t, untouched.LastPracticedAt)

	list, err := c.MasteryFor(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by category, domain, skill: "act" sorts before "sat".
	assert.Equal(t, "geometry", list[0].Skill)

	bySkill, err := c.MasteryBySkill(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, bySkill, "algebra")

	n, err := c.DeleteMastery(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMastery_RejectsUnknownLevel(t *testing.T) {
	s := openTestStore(t)
	c := s.Conn()
	ctx := context.Background()

	require.NoError(t, c.PutMastery(ctx, "alice", mastery.NewRecord("algebra", "math", "sat")))
	_, err := s.DB().ExecContext(ctx,
		`UPDATE mastery_records SET mastery_level = 'grandmaster' WHERE learner_id = 'alice'`)
	require.NoError(t, err)

	_, _, err = c.GetMastery(ctx, "alice", "algebra")
	assert.ErrorIs(t, err, errs.ErrInvariantViolation)
}

func TestGoals(t *testing.T) {
	s := openTestStore(t)
	c := s.Conn()
	ctx := context.Background()

	_, ok, err := c.GetGoal(ctx, "alice", "2026-03-10")
	require.NoError(t, err)
	assert.False(t, ok)

	rec := goals.New("2026-03-10", 1).Apply(true, 1500)
	require.NoError(t, c.PutGoal(ctx, "alice", rec))

	got, ok, err := c.GetGoal(ctx, "alice", "2026-03-10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.True(t, got.Met)
}

func newSession(id, learner string) Session {
	return Session{
		ID:             id,
		LearnerID:      learner,
		Status:         SessionActive,
		CurrentItemID:  "q1",
		StartedAt:      now,
		LastActivityAt: now,
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	c := s.Conn()
	ctx := context.Background()

	require.NoError(t, c.CreateSession(ctx, newSession("s1", "alice")))

	err := c.CreateSession(ctx, newSession("s2", "alice"))
	assert.ErrorIs(t, err, ErrActiveSessionExists)

	// Other learners are unaffected.
	require.NoError(t, c.CreateSession(ctx, newSession("s3", "bob")))

	active, ok, err := c.ActiveSession(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "s1", active.ID)
	assert.Empty(t, active.AnsweredItemIDs)

	updated := active
	updated.QuestionsAnswered = 1
	updated.CorrectAnswers = 1
	updated.SessionStreak = 1
	updated.AnsweredItemIDs = []string{"q1"}
	updated.CurrentItemID = "q2"
	updated.LastActivityAt = now.Add(time.Minute)

	ok, err = c.UpdateSessionProgress(ctx, updated, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	// A stale writer expecting zero answers loses.
	ok, err = c.UpdateSessionProgress(ctx, updated, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := c.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, got.AnsweredItemIDs)
	assert.Equal(t, "q2", got.CurrentItemID)
	assert.True(t, got.Answered("q1"))
	assert.True(t, got.ExcludedSet()["q1"])

	ended, err := c.EndSession(ctx, "s1", now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, ended)

	ended, err = c.EndSession(ctx, "s1", now.Add(3*time.Minute))
	require.NoError(t, err)
	assert.False(t, ended)

	got, err = c.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, SessionEnded, got.Status)
	require.NotNil(t, got.EndedAt)

	// Once ended, a new active session is allowed.
	require.NoError(t, c.CreateSession(ctx, newSession("s4", "alice")))

	_, err = c.GetSession(ctx, "nope")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	active2, err := c.ActiveSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, active2, 2)

	history, err := c.SessionsFor(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "s1", history[0].ID)
}

func TestInTxRollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(c *Conn) error {
		if err := c.PutMastery(ctx, "alice", mastery.NewRecord("algebra", "", "")); err != nil {
			return err
		}
		if err := c.PutGoal(ctx, "alice", goals.New("2026-03-10", 10)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok, err := s.Conn().GetMastery(ctx, "alice", "algebra")
	require.NoError(t, err)
	assert.False(t, ok, "mastery write survived rollback")

	_, ok, err = s.Conn().GetGoal(ctx, "alice", "2026-03-10")
	require.NoError(t, err)
	assert.False(t, ok, "goal write survived rollback")
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.InTx(ctx, func(c *Conn) error {
			_ = c.PutGoal(ctx, "alice", goals.New("2026-03-10", 10))
			panic("boom")
		})
	})

	_, ok, err := s.Conn().GetGoal(ctx, "alice", "2026-03-10")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInTxCommits(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(c *Conn) error {
		return c.PutGoal(ctx, "alice", goals.New("2026-03-10", 10))
	})
	require.NoError(t, err)

	_, ok, err := s.Conn().GetGoal(ctx, "alice", "2026-03-10")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(c *Conn) error {
		if err := c.AppendSessionEvent(ctx, SessionEvent{SessionID: "s1", LearnerID: "alice", Action: ActionStart, Timestamp: now}); err != nil {
			return err
		}
		for i, id := range []string{"q1", "q2"} {
			e := &AnswerEvent{
				SessionID:      "s1",
				LearnerID:      "alice",
				ItemID:         id,
				RequestID:      id + "-req",
				SelectedAnswer: "A",
				Correct:        i == 0,
				TimeSpentMs:    900,
				Result:         json.RawMessage(`{"is_correct":true}`),
				Timestamp:      now,
			}
			if err := c.AppendAnswerEvent(ctx, e); err != nil {
				return err
			}
		}
		return c.AppendSessionEvent(ctx, SessionEvent{SessionID: "s1", LearnerID: "alice", Action: ActionEnd, QuestionsAnswered: 2, CorrectAnswers: 1, Timestamp: now})
	})
	require.NoError(t, err)

	c := s.Conn()
	sessEvents, err := c.SessionEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, sessEvents, 2)
	answers, err := c.AnswerEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, answers, 2)

	assert.Equal(t, int64(1), sessEvents[0].Sequence)
	assert.Equal(t, int64(2), answers[0].Sequence)
	assert.Equal(t, int64(3), answers[1].Sequence)
	assert.Equal(t, int64(4), sessEvents[1].Sequence)
	assert.JSONEq(t, `{"is_correct":true}`, string(answers[0].Result))

	found, ok, err := c.FindAnswerEvent(ctx, "s1", "q2-req")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q2", found.ItemID)
	assert.False(t, found.Correct)
}

func TestDuplicateRequestID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	c := s.Conn()

	e := &AnswerEvent{SessionID: "s1", LearnerID: "alice", ItemID: "q1", RequestID: "r1"}
	require.NoError(t, c.AppendAnswerEvent(ctx, e))

	err := c.AppendAnswerEvent(ctx, &AnswerEvent{SessionID: "s1", LearnerID: "alice", ItemID: "q1", RequestID: "r1"})
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// Empty request ids never collide.
	require.NoError(t, c.AppendAnswerEvent(ctx, &AnswerEvent{SessionID: "s1", LearnerID: "alice", ItemID: "q2"}))
	require.NoError(t, c.AppendAnswerEvent(ctx, &AnswerEvent{SessionID: "s1", LearnerID: "alice", ItemID: "q3"}))
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "p.db")
		t.Setenv("PRACTIZ_DB", want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Join(dir, "custom"))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("PRACTIZ_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "practiz", "practiz.db"), got)
	})
}
