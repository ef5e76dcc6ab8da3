package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/item"
)

// SessionStatus is the lifecycle state of a practice session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// ErrActiveSessionExists is returned by CreateSession when the learner
// already has an active session.
var ErrActiveSessionExists = errors.New("learner already has an active session")

// Session is the persisted state of one practice session.
type Session struct {
	ID                string
	LearnerID         string
	Status            SessionStatus
	Scope             item.Scope
	CurrentStreak     int
	BestStreak        int
	SessionStreak     int
	QuestionsAnswered int
	CorrectAnswers    int
	AnsweredItemIDs   []string
	CurrentItemID     string
	StartedAt         time.Time
	LastActivityAt    time.Time
	EndedAt           *time.Time
}

// Answered reports whether itemID was already answered in the session.
func (s Session) Answered(itemID string) bool {
	for _, id := range s.AnsweredItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// ExcludedSet returns the answered ids as a set.
func (s Session) ExcludedSet() map[string]bool {
	set := make(map[string]bool, len(s.AnsweredItemIDs))
	for _, id := range s.AnsweredItemIDs {
		set[id] = true
	}
	return set
}

var sessionColumns = []string{
	"id", "learner_id", "status", "category", "domain",
	"current_streak", "best_streak", "session_streak",
	"questions_answered", "correct_answers", "answered_item_ids", "current_item_id",
	"started_at", "last_activity_at", "ended_at",
}

// CreateSession inserts a new session. It returns ErrActiveSessionExists if
// the learner already has one active.
func (c *Conn) CreateSession(ctx context.Context, s Session) error {
	ids, err := encodeIDs(s.AnsweredItemIDs)
	if err != nil {
		return err
	}
	ins := builder().Insert(PracticeSessionsTable.Name).
		Columns(sessionColumns...).
		Values(s.ID, s.LearnerID, string(s.Status), s.Scope.Category, s.Scope.Domain,
			s.CurrentStreak, s.BestStreak, s.SessionStreak,
			s.QuestionsAnswered, s.CorrectAnswers, ids, s.CurrentItemID,
			s.StartedAt.UTC(), s.LastActivityAt.UTC(), nullTime(s.EndedAt))
	if _, err := c.execBuilder(ctx, ins); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create session for %q: %w", s.LearnerID, ErrActiveSessionExists)
		}
		return persistence("create session", err)
	}
	return nil
}

// GetSession returns the session with id or an error wrapping
// errs.ErrNotFound.
func (c *Conn) GetSession(ctx context.Context, id string) (Session, error) {
	sessions, err := c.sessions(ctx, entsql.EQ("id", id))
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, notFound("session", id)
	}
	return sessions[0], nil
}

// ActiveSession returns the learner's active session, if any.
func (c *Conn) ActiveSession(ctx context.Context, learnerID string) (Session, bool, error) {
	sessions, err := c.sessions(ctx, entsql.And(
		entsql.EQ("learner_id", learnerID),
		entsql.EQ("status", string(SessionActive)),
	))
	if err != nil || len(sessions) == 0 {
		return Session{}, false, err
	}
	return sessions[0], true, nil
}

// ActiveSessions returns every active session ordered by last activity.
func (c *Conn) ActiveSessions(ctx context.Context) ([]Session, error) {
	return c.sessions(ctx, entsql.EQ("status", string(SessionActive)))
}

// SessionsFor returns the learner's sessions, most recent first.
func (c *Conn) SessionsFor(ctx context.Context, learnerID string) ([]Session, error) {
	sessions, err := c.sessions(ctx, entsql.EQ("learner_id", learnerID))
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(sessions)-1; i < j; i, j = i+1, j-1 {
		sessions[i], sessions[j] = sessions[j], sessions[i]
	}
	return sessions, nil
}

func (c *Conn) sessions(ctx context.Context, where *entsql.Predicate) ([]Session, error) {
	rows, err := c.queryBuilder(ctx, builder().Select(sessionColumns...).
		From(entsql.Table(PracticeSessionsTable.Name)).
		Where(where).
		OrderBy("last_activity_at"))
	if err != nil {
		return nil, persistence("list sessions", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			s      Session
			status string
			ids    string
			ended  sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.LearnerID, &status, &s.Scope.Category, &s.Scope.Domain,
			&s.CurrentStreak, &s.BestStreak, &s.SessionStreak,
			&s.QuestionsAnswered, &s.CorrectAnswers, &ids, &s.CurrentItemID,
			&s.StartedAt, &s.LastActivityAt, &ended); err != nil {
			return nil, persistence("scan session", err)
		}
		s.Status = SessionStatus(status)
		if err := json.Unmarshal([]byte(ids), &s.AnsweredItemIDs); err != nil {
			return nil, fmt.Errorf("decode answered ids of session %q: %w", s.ID, err)
		}
		s.StartedAt, s.LastActivityAt = s.StartedAt.UTC(), s.LastActivityAt.UTC()
		s.EndedAt = timePtr(ended)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list sessions", err)
	}
	return out, nil
}

// UpdateSessionProgress writes the mutable counters of s, provided the
// stored session is still active and has answered exactly expectAnswered
// questions. It reports false when another writer got there first.
func (c *Conn) UpdateSessionProgress(ctx context.Context, s Session, expectAnswered int) (bool, error) {
	ids, err := encodeIDs(s.AnsweredItemIDs)
	if err != nil {
		return false, err
	}
	res, err := c.execBuilder(ctx, builder().Update(PracticeSessionsTable.Name).
		Set("current_streak", s.CurrentStreak).
		Set("best_streak", s.BestStreak).
		Set("session_streak", s.SessionStreak).
		Set("questions_answered", s.QuestionsAnswered).
		Set("correct_answers", s.CorrectAnswers).
		Set("answered_item_ids", ids).
		Set("current_item_id", s.CurrentItemID).
		Set("last_activity_at", s.LastActivityAt.UTC()).
		Where(entsql.And(
			entsql.EQ("id", s.ID),
			entsql.EQ("status", string(SessionActive)),
			entsql.EQ("questions_answered", expectAnswered),
		)))
	if err != nil {
		return false, persistence("update session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistence("update session", err)
	}
	return n == 1, nil
}

// EndSession marks the session ended at the given time. It reports false
// when the session was not active.
func (c *Conn) EndSession(ctx context.Context, id string, at time.Time) (bool, error) {
	at = at.UTC()
	res, err := c.execBuilder(ctx, builder().Update(PracticeSessionsTable.Name).
		Set("status", string(SessionEnded)).
		Set("ended_at", at).
		Set("last_activity_at", at).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("status", string(SessionActive)),
		)))
	if err != nil {
		return false, persistence("end session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, persistence("end session", err)
	}
	return n == 1, nil
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode answered ids: %w", err)
	}
	return string(b), nil
}
