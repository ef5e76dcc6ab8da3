package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// DailyGoal tracks answered items against a learner's target for one
// calendar day. Keyed by (learner_id, day).
type DailyGoal struct {
	ent.Schema
}

func (DailyGoal) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").NotEmpty(),
		field.String("day").NotEmpty().Comment("YYYY-MM-DD in the configured time zone"),
		field.Int("target"),
		field.Int("answered"),
		field.Int("correct_answers"),
		field.Int64("time_spent_ms"),
		field.Bool("met"),
	}
}

func (DailyGoal) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "daily_goals"}}
}
