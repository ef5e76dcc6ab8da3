package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// AnswerEvent is one accepted answer submission. Result holds the response
// returned to the caller so a retried request can be answered verbatim.
type AnswerEvent struct {
	ID             string
	Sequence       int64
	Timestamp      time.Time
	SessionID      string
	LearnerID      string
	ItemID         string
	RequestID      string
	SelectedAnswer string
	Correct        bool
	TimeSpentMs    int64
	Result         json.RawMessage
}

var answerEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "learner_id", "item_id",
	"request_id", "selected_answer", "correct", "time_spent_ms", "result",
}

// AppendAnswerEvent records e, assigning its id, sequence and timestamp
// when unset. A duplicate (session, request id) pair is reported as
// ErrDuplicateRequest.
func (c *Conn) AppendAnswerEvent(ctx context.Context, e *AnswerEvent) error {
	seq, err := c.nextSequence(ctx)
	if err != nil {
		return err
	}
	e.Sequence = seq
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	result := e.Result
	if len(result) == 0 {
		result = json.RawMessage("null")
	}

	ins := builder().Insert(AnswerEventsTable.Name).
		Columns(answerEventColumns...).
		Values(e.ID, e.Sequence, e.Timestamp.UTC(), e.SessionID, e.LearnerID, e.ItemID,
			e.RequestID, e.SelectedAnswer, e.Correct, e.TimeSpentMs, string(result))
	if _, err := c.execBuilder(ctx, ins); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("request %q in session %q: %w", e.RequestID, e.SessionID, ErrDuplicateRequest)
		}
		return persistence("save answer event", err)
	}
	return nil
}

// FindAnswerEvent looks up the event recorded for requestID in the session.
func (c *Conn) FindAnswerEvent(ctx context.Context, sessionID, requestID string) (AnswerEvent, bool, error) {
	events, err := c.answerEvents(ctx, entsql.And(
		entsql.EQ("session_id", sessionID),
		entsql.EQ("request_id", requestID),
	))
	if err != nil || len(events) == 0 {
		return AnswerEvent{}, false, err
	}
	return events[0], true, nil
}

// AnswerEvents returns the session's answer log in submission order.
func (c *Conn) AnswerEvents(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	return c.answerEvents(ctx, entsql.EQ("session_id", sessionID))
}

func (c *Conn) answerEvents(ctx context.Context, where *entsql.Predicate) ([]AnswerEvent, error) {
	rows, err := c.queryBuilder(ctx, builder().Select(answerEventColumns...).
		From(entsql.Table(AnswerEventsTable.Name)).
		Where(where).
		OrderBy("sequence"))
	if err != nil {
		return nil, persistence("query answer events", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var (
			e      AnswerEvent
			result string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.LearnerID, &e.ItemID,
			&e.RequestID, &e.SelectedAnswer, &e.Correct, &e.TimeSpentMs, &result); err != nil {
			return nil, persistence("scan answer event", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		e.Result = json.RawMessage(result)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("query answer events", err)
	}
	return out, nil
}
