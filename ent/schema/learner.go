package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// Learner holds per-learner preferences and the streaks that outlive a
// single session.
type Learner struct {
	ent.Schema
}

func (Learner) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").NotEmpty().Immutable(),
		field.Int("daily_target").Optional().Nillable().
			Comment("Preferred daily target; null means the configured default"),
		field.Int("current_streak").Default(0),
		field.Int("best_streak").Default(0),
		field.Time("created_at").Immutable(),
		field.Time("updated_at"),
	}
}

func (Learner) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "learners"}}
}
