package store

import (
	"testing"

	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entschema "github.com/abhisek/practiz/ent/schema"
)

func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func findIndex(t *testing.T, tbl *schema.Table, name string) *schema.Index {
	t.Helper()
	for _, idx := range tbl.Indexes {
		if idx.Name == name {
			return idx
		}
	}
	t.Fatalf("table %s has no index %s", tbl.Name, name)
	return nil
}

func TestTablesFromSchemas(t *testing.T) {
	tests := []struct {
		table *schema.Table
		name  string
		pk    []string
	}{
		{LearnersTable, "learners", []string{"id"}},
		{ItemsTable, "items", []string{"id"}},
		{ReviewRecordsTable, "review_records", []string{"learner_id", "item_id"}},
		{MasteryRecordsTable, "mastery_records", []string{"learner_id", "skill"}},
		{PracticeSessionsTable, "practice_sessions", []string{"id"}},
		{DailyGoalsTable, "daily_goals", []string{"learner_id", "day"}},
		{AnswerEventsTable, "answer_events", []string{"id"}},
		{SessionEventsTable, "session_events", []string{"id"}},
	}
	require.Len(t, Tables, len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.table, Tables[i])
			assert.Equal(t, tt.name, tt.table.Name)
			assert.Equal(t, tt.pk, columnNames(tt.table.PrimaryKey))
			for _, c := range tt.table.Columns {
				if c.Default != nil {
					assert.NotEqual(t, field.TypeTime, c.Type, "column %s has a time default", c.Name)
				}
			}
		})
	}
}

func TestEventTablesCarryMixin(t *testing.T) {
	for _, tbl := range []*schema.Table{AnswerEventsTable, SessionEventsTable} {
		names := columnNames(tbl.Columns)
		require.GreaterOrEqual(t, len(names), 3)
		assert.Equal(t, []string{"id", "sequence", "timestamp"}, names[:3], tbl.Name)
		assert.True(t, tbl.Columns[1].Unique, "%s.sequence should be unique", tbl.Name)
	}
	assert.True(t, SessionEventsTable.PrimaryKey[0].Increment)
	assert.False(t, AnswerEventsTable.PrimaryKey[0].Increment)
	findIndex(t, AnswerEventsTable, "answerevent_timestamp")
}

func TestPartialUniqueIndexes(t *testing.T) {
	active := findIndex(t, PracticeSessionsTable, "practicesession_learner_id_active")
	assert.True(t, active.Unique)
	require.NotNil(t, active.Annotation)
	assert.Equal(t, "status = 'active'", active.Annotation.Where)

	replay := findIndex(t, AnswerEventsTable, "answerevent_session_id_request_id")
	assert.True(t, replay.Unique)
	assert.Equal(t, []string{"session_id", "request_id"}, columnNames(replay.Columns))
	require.NotNil(t, replay.Annotation)
	assert.Equal(t, "request_id <> ''", replay.Annotation.Where)

	s := openTestStore(t)
	var ddl string
	require.NoError(t, s.DB().QueryRow(
		`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = 'practicesession_learner_id_active'`,
	).Scan(&ddl))
	assert.Contains(t, ddl, "WHERE")
}

func TestTableFor_Errors(t *testing.T) {
	_, err := tableFor(entschema.Learner{})
	assert.ErrorContains(t, err, "no primary key")

	_, err = tableFor(entschema.Learner{}, "learner_id")
	assert.ErrorContains(t, err, "not declared")
}
