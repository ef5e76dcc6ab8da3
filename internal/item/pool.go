package item

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Format identifies a pool file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// PoolFile is the on-disk layout of an item pool.
type PoolFile struct {
	Items []Item `json:"items" yaml:"items"`
}

// poolSchema is the JSON schema every pool file must satisfy.
var poolSchema = map[string]any{
	"type":     "object",
	"required": []any{"items"},
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"id", "skill", "difficulty", "correct_answer"},
				"additionalProperties": false,
				"properties": map[string]any{
					"id":             map[string]any{"type": "string", "minLength": 1},
					"category":       map[string]any{"type": "string"},
					"domain":         map[string]any{"type": "string"},
					"skill":          map[string]any{"type": "string", "minLength": 1},
					"difficulty":     map[string]any{"type": "integer", "minimum": 1, "maximum": 3},
					"correct_answer": map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go literals.
		raw, err := json.Marshal(poolSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal pool schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			compileErr = fmt.Errorf("parse pool schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://item-pool.json", doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://item-pool.json")
	})
	return compiledSchema, compileErr
}

// ParsePool reads a pool file, validates it against the pool schema and the
// per-item rules, and returns the items. Duplicate ids are rejected.
func ParsePool(r io.Reader, format Format) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pool: %w", err)
	}

	var generic any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode JSON pool: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode YAML pool: %w", err)
		}
	}

	// Round-trip through JSON so YAML scalars become JSON-typed values.
	normalized, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("normalize pool: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(normalized))
	if err != nil {
		return nil, fmt.Errorf("normalize pool: %w", err)
	}

	sch, err := schema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("pool schema validation failed: %w", err)
	}

	var pf PoolFile
	if err := json.Unmarshal(normalized, &pf); err != nil {
		return nil, fmt.Errorf("decode pool items: %w", err)
	}

	seen := make(map[string]bool, len(pf.Items))
	var problems []string
	for _, it := range pf.Items {
		if err := it.Validate(); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if seen[it.ID] {
			problems = append(problems, fmt.Sprintf("duplicate item id %q", it.ID))
		}
		seen[it.ID] = true
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid pool:\n  %s", strings.Join(problems, "\n  "))
	}
	return pf.Items, nil
}
