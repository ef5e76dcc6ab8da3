package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Item is the scheduler's view of one unit of practice content.
type Item struct {
	ent.Schema
}

func (Item) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").NotEmpty().Immutable(),
		field.String("category").Default(""),
		field.String("domain").Default(""),
		field.String("skill").NotEmpty(),
		field.Int("difficulty").Range(1, 3),
		field.String("correct_answer").NotEmpty(),
		field.Time("created_at").Immutable(),
		field.Time("updated_at"),
	}
}

func (Item) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("category", "domain"),
		index.Fields("skill"),
	}
}

func (Item) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "items"}}
}
