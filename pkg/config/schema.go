package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// configSchema constrains the shape of a loaded config file. Unknown
// top-level keys are rejected so a typoed section fails loudly instead
// of silently falling back to defaults.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "analysis": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "intra_file_clones": {"type": "boolean"},
        "min_function_lines": {"type": "integer", "minimum": 0},
        "workers": {"type": "integer", "minimum": 0}
      }
    },
    "thresholds": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "clone_similarity": {"type": "number", "minimum": 0, "maximum": 1},
        "intra_file_similarity": {"type": "number", "minimum": 0, "maximum": 1},
        "min_usages": {"type": "integer", "minimum": 0}
      }
    },
    "exclude": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "patterns": {"type": "array", "items": {"type": "string"}},
        "test_patterns": {"type": "array", "items": {"type": "string"}},
        "dirs": {"type": "array", "items": {"type": "string"}},
        "gitignore": {"type": "boolean"}
      }
    },
    "output": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "format": {"enum": ["text", "json", "markdown", "toon"]},
        "color": {"type": "boolean"},
        "verbose": {"type": "boolean"}
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(configSchema)))
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("ground.schema.json", doc); err != nil {
		panic(err)
	}
	return compiler.MustCompile("ground.schema.json")
}

// validate checks a raw config map against the schema. The map is
// round-tripped through JSON so TOML and YAML scalar types normalize
// to what the validator expects.
func validate(raw map[string]any) error {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding config for validation: %w", err)
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	return compiledSchema.Validate(value)
}
