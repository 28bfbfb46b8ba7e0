package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

//go:generate go run ../tools/schema-generator -o ../schema/definitions/vibediary.schema.json

// GenerateSchema generates the JSON Schema for the vibediary configuration.
// Nested objects reject unknown fields; the top level stays open so extension
// sections such as 'logging' are accepted.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
		// Every field is optional; defaults fill the gaps.
		RequiredFromJSONSchemaTags: true,
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Vibe Diary Configuration"
	schema.Description = "Schema for the vibediary config.yml."
	schema.AdditionalProperties = nil

	return json.MarshalIndent(schema, "", "  ")
}
