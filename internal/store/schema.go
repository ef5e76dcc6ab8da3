package store

import (
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/practiz/ent/schema"
)

// Tables are built from the ent schemas in ent/schema and migrated at Open.
// Event tables get their sequence and timestamp columns from EventMixin.
var (
	LearnersTable         = mustTable(entschema.Learner{}, "id")
	ItemsTable            = mustTable(entschema.Item{}, "id")
	ReviewRecordsTable    = mustTable(entschema.ReviewRecord{}, "learner_id", "item_id")
	MasteryRecordsTable   = mustTable(entschema.MasteryRecord{}, "learner_id", "skill")
	PracticeSessionsTable = mustTable(entschema.PracticeSession{}, "id")
	DailyGoalsTable       = mustTable(entschema.DailyGoal{}, "learner_id", "day")
	AnswerEventsTable     = mustTable(entschema.AnswerEvent{}, "id")
	SessionEventsTable    = mustTable(entschema.SessionEvent{}, "id")

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		LearnersTable,
		ItemsTable,
		ReviewRecordsTable,
		MasteryRecordsTable,
		PracticeSessionsTable,
		DailyGoalsTable,
		AnswerEventsTable,
		SessionEventsTable,
	}
)

func mustTable(s ent.Interface, pk ...string) *schema.Table {
	t, err := tableFor(s, pk...)
	if err != nil {
		panic(err)
	}
	return t
}

// tableFor converts an ent schema into a migration table. Mixin fields come
// first with an "id" field moved to the front. pk names the primary key
// columns; a single integer "id" key autoincrements.
func tableFor(s ent.Interface, pk ...string) (*schema.Table, error) {
	typ := reflect.TypeOf(s).Name()
	name, err := tableName(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", typ, err)
	}
	t := &schema.Table{Name: name}

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	cols := make(map[string]*schema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", typ, d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Nullable: d.Optional || d.Nillable,
			Unique:   d.Unique,
			Default:  columnDefault(d.Default),
		}
		if d.StorageKey != "" {
			col.Name = d.StorageKey
		}
		if _, dup := cols[col.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate column %q", typ, col.Name)
		}
		cols[col.Name] = col
		if col.Name == "id" {
			t.Columns = append([]*schema.Column{col}, t.Columns...)
		} else {
			t.Columns = append(t.Columns, col)
		}
	}

	if len(pk) == 0 {
		return nil, fmt.Errorf("%s: no primary key", typ)
	}
	for _, name := range pk {
		col, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%s: primary key column %q not declared", typ, name)
		}
		t.PrimaryKey = append(t.PrimaryKey, col)
	}
	if len(pk) == 1 {
		if key := t.PrimaryKey[0]; key.Type == field.TypeInt || key.Type == field.TypeInt64 {
			key.Increment = true
		}
	}

	for _, i := range indexes {
		d := i.Descriptor()
		idx := &schema.Index{Name: d.StorageKey, Unique: d.Unique}
		if idx.Name == "" {
			idx.Name = strings.ToLower(typ) + "_" + strings.Join(d.Fields, "_")
		}
		for _, name := range d.Fields {
			col, ok := cols[name]
			if !ok {
				return nil, fmt.Errorf("%s: index %s references unknown column %q", typ, idx.Name, name)
			}
			idx.Columns = append(idx.Columns, col)
		}
		for _, a := range d.Annotations {
			if ia, ok := a.(*entsql.IndexAnnotation); ok {
				idx.Annotation = ia
			}
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t, nil
}

func tableName(s ent.Interface) (string, error) {
	for _, a := range s.Annotations() {
		switch a := a.(type) {
		case entsql.Annotation:
			if a.Table != "" {
				return a.Table, nil
			}
		case *entsql.Annotation:
			if a != nil && a.Table != "" {
				return a.Table, nil
			}
		}
	}
	return "", fmt.Errorf("missing entsql table annotation")
}

// columnDefault keeps literal defaults only. Function defaults such as
// time.Now are applied by the repositories at insert time.
func columnDefault(v any) any {
	switch v.(type) {
	case int, int64, float64, bool, string:
		return v
	}
	return nil
}
