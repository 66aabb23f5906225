package estimator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/spboyer/kcal/internal/models"
)

const recordSchemaJSON = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name":     {"type": "string", "minLength": 1},
    "calories": {"type": ["number", "null"], "minimum": 0},
    "protein":  {"type": ["number", "null"], "minimum": 0},
    "fat":      {"type": ["number", "null"], "minimum": 0},
    "carbs":    {"type": ["number", "null"], "minimum": 0}
  }
}`

var recordSchema = mustCompileSchema(recordSchemaJSON, "nutrition-record.schema.json")

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// parseRecord turns the text of a completion into a record. Any failure is a
// MalformedResponse.
func parseRecord(content string) (*models.NutritionRecord, error) {
	body := extractObject(content)
	if body == "" {
		return nil, malformedError("empty completion content")
	}

	var value any
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return nil, malformedError("content is not JSON: %w", err)
	}

	if err := recordSchema.Validate(value); err != nil {
		return nil, malformedError("content does not match the nutrition schema: %w", err)
	}

	var record models.NutritionRecord
	if err := mapstructure.Decode(value, &record); err != nil {
		return nil, malformedError("decoding nutrition object: %w", err)
	}
	record.Name = strings.TrimSpace(record.Name)

	return &record, nil
}

// extractObject strips a Markdown code fence or surrounding prose and returns
// the outermost {...} span. Content with no braces is returned trimmed so the
// JSON decoder reports the real problem.
func extractObject(content string) string {
	s := strings.TrimSpace(content)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return s
	}
	return s[start : end+1]
}
