package store

import (
	"context"
	"errors"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrDuplicateRequest is returned when an answer event with the same
// request id was already recorded for the session.
var ErrDuplicateRequest = errors.New("duplicate request id")

// Session lifecycle actions.
const (
	ActionStart  = "start"
	ActionResume = "resume"
	ActionEnd    = "end"
	ActionReap   = "reap"
)

// SessionEvent records a session lifecycle transition.
type SessionEvent struct {
	Sequence          int64
	Timestamp         time.Time
	SessionID         string
	LearnerID         string
	Action            string
	QuestionsAnswered int
	CorrectAnswers    int
}

// AppendSessionEvent records a lifecycle event.
func (c *Conn) AppendSessionEvent(ctx context.Context, e SessionEvent) error {
	seq, err := c.nextSequence(ctx)
	if err != nil {
		return err
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	ins := builder().Insert(SessionEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "learner_id", "action", "questions_answered", "correct_answers").
		Values(seq, e.Timestamp.UTC(), e.SessionID, e.LearnerID, e.Action, e.QuestionsAnswered, e.CorrectAnswers)
	if _, err := c.execBuilder(ctx, ins); err != nil {
		return persistence("save session event", err)
	}
	return nil
}

// SessionEvents returns the session's lifecycle log in order.
func (c *Conn) SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error) {
	rows, err := c.queryBuilder(ctx, builder().
		Select("sequence", "timestamp", "session_id", "learner_id", "action", "questions_answered", "correct_answers").
		From(entsql.Table(SessionEventsTable.Name)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence"))
	if err != nil {
		return nil, persistence("query session events", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.LearnerID, &e.Action,
			&e.QuestionsAnswered, &e.CorrectAnswers); err != nil {
			return nil, persistence("scan session event", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("query session events", err)
	}
	return out, nil
}
