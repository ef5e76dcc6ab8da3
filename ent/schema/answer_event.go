package schema

import (
	"encoding/json"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records a single answer event within a session.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").NotEmpty().Immutable(),
		field.String("session_id").NotEmpty(),
		field.String("learner_id").NotEmpty(),
		field.String("item_id").NotEmpty(),
		field.String("request_id").Default("").
			Comment("Client idempotency token; empty when none was sent"),
		field.String("selected_answer"),
		field.Bool("correct"),
		field.Int64("time_spent_ms"),
		field.JSON("result", json.RawMessage{}).
			Comment("Result returned to the client, replayed on a repeated request id"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "request_id").
			Unique().
			Annotations(entsql.IndexWhere("request_id <> ''")),
		index.Fields("learner_id"),
	}
}

func (AnswerEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "answer_events"}}
}
