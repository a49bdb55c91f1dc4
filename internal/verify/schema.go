package verify

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"ghostjob-engine/internal/domain"
)

// agentOutputSchema is the fixed contract both backends must meet. Anything
// else is "no correction", never an error the pipeline has to handle.
const agentOutputSchema = `{
  "type": "object",
  "required": ["validated"],
  "additionalProperties": false,
  "properties": {
    "validated": {"type": "boolean"},
    "notes": {"type": "string"},
    "fields": {
      "type": "object",
      "propertyNames": {"enum": ["title", "company", "location"]},
      "additionalProperties": {
        "type": "object",
        "required": ["value", "confidence"],
        "additionalProperties": false,
        "properties": {
          "value": {"type": "string", "minLength": 1},
          "confidence": {"type": "number", "minimum": 0, "maximum": 1},
          "spans": {"type": "array", "items": {"type": "integer", "minimum": 0}}
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("agent_output.json", agentOutputSchema)

// DecodeAgentOutput parses and schema-checks a backend response body.
// A structural mismatch returns a validation-kind error; callers downgrade
// that to AgentOutput{Validated:false}.
func DecodeAgentOutput(raw []byte) (domain.AgentOutput, error) {
	raw = stripCodeFences(raw)

	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrValidation, "agent output not json: %w", err)
	}
	if err := compiledSchema.Validate(loose); err != nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrValidation, "agent output schema: %w", err)
	}

	var out domain.AgentOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrValidation, "agent output decode: %w", err)
	}
	return out, nil
}

// stripCodeFences removes ```json fences local models like to wrap output in.
func stripCodeFences(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return raw
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
