package item

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlPool = `
items:
  - id: q1
    category: math
    domain: sat
    skill: algebra
    difficulty: 2
    correct_answer: "B"
  - id: q2
    category: math
    domain: sat
    skill: geometry
    difficulty: 3
    correct_answer: "12"
`

const jsonPool = `{"items": [
  {"id": "r1", "category": "reading", "domain": "sat", "skill": "inference", "difficulty": 1, "correct_answer": "C"}
]}`

func TestParsePool_YAML(t *testing.T) {
	items, err := ParsePool(strings.NewReader(yamlPool), FormatYAML)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Item{ID: "q1", Category: "math", Domain: "sat", Skill: "algebra", Difficulty: 2, CorrectAnswer: "B"}, items[0])
	assert.Equal(t, "12", items[1].CorrectAnswer)
}

func TestParsePool_JSON(t *testing.T) {
	items, err := ParsePool(strings.NewReader(jsonPool), FormatJSON)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "inference", items[0].Skill)
}

func TestParsePool_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing items", `other: []`},
		{"difficulty out of range", `
items:
  - {id: q1, skill: s, difficulty: 7, correct_answer: "A"}
`},
		{"missing skill", `
items:
  - {id: q1, difficulty: 1, correct_answer: "A"}
`},
		{"unknown field", `
items:
  - {id: q1, skill: s, difficulty: 1, correct_answer: "A", prompt: "?"}
`},
		{"duplicate id", `
items:
  - {id: q1, skill: s, difficulty: 1, correct_answer: "A"}
  - {id: q1, skill: s, difficulty: 2, correct_answer: "B"}
`},
		{"blank answer", `
items:
  - {id: q1, skill: s, difficulty: 1, correct_answer: "  "}
`},
		{"not yaml", "items: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePool(strings.NewReader(tt.doc), FormatYAML)
			assert.Error(t, err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("pool.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("pool.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("pool.yml"))
}
