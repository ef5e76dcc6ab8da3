package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PracticeSession is one run of practice with its own streak and exclusion
// set. A learner has at most one active session.
type PracticeSession struct {
	ent.Schema
}

func (PracticeSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").NotEmpty().Immutable(),
		field.String("learner_id").NotEmpty().Immutable(),
		field.String("status"),
		field.String("category").Default(""),
		field.String("domain").Default(""),
		field.Int("current_streak"),
		field.Int("best_streak"),
		field.Int("session_streak"),
		field.Int("questions_answered"),
		field.Int("correct_answers"),
		field.JSON("answered_item_ids", []string{}),
		field.String("current_item_id").Default(""),
		field.Time("started_at").Immutable(),
		field.Time("last_activity_at"),
		field.Time("ended_at").Optional().Nillable(),
	}
}

func (PracticeSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id").
			Unique().
			StorageKey("practicesession_learner_id_active").
			Annotations(entsql.IndexWhere("status = 'active'")),
		index.Fields("status"),
	}
}

func (PracticeSession) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "practice_sessions"}}
}
