package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// MasteryRecord is a learner's proficiency in one skill. Keyed by
// (learner_id, skill).
type MasteryRecord struct {
	ent.Schema
}

func (MasteryRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").NotEmpty(),
		field.String("skill").NotEmpty(),
		field.String("category").Default(""),
		field.String("domain").Default(""),
		field.Int("mastery_points"),
		field.String("mastery_level"),
		field.Int("total_questions"),
		field.Int("correct_answers"),
		field.Int("current_streak"),
		field.Time("last_practiced_at").Optional().Nillable(),
	}
}

func (MasteryRecord) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "mastery_records"}}
}
