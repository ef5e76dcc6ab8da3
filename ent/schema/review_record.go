package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// ReviewRecord is the spaced-repetition state of one item for one learner.
// Keyed by (learner_id, item_id).
type ReviewRecord struct {
	ent.Schema
}

func (ReviewRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").NotEmpty(),
		field.String("item_id").NotEmpty(),
		field.Float("ease_factor"),
		field.Int("interval_days"),
		field.Int("repetitions"),
		field.Time("next_review_at"),
		field.Time("last_reviewed_at"),
		field.Int("total_attempts"),
		field.Int("correct_attempts"),
	}
}

func (ReviewRecord) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "review_records"}}
}
