package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records session lifecycle events (start/resume/end/reap).
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("id"),
		field.String("session_id").NotEmpty(),
		field.String("learner_id").NotEmpty(),
		field.String("action").NotEmpty().Comment("start, resume, end or reap"),
		field.Int("questions_answered").Default(0),
		field.Int("correct_answers").Default(0),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}

func (SessionEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "session_events"}}
}
