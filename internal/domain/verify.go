package domain

// AgentField is one field opinion from the AI validator. Absence of a field
// in AgentOutput means "no opinion", never "empty value".
type AgentField struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Spans      []int   `json:"spans,omitempty"`
}

// AgentOutput is the fixed response schema of both validator backends.
// Structurally invalid responses are treated as Validated=false upstream.
type AgentOutput struct {
	Validated bool                  `json:"validated"`
	Fields    map[string]AgentField `json:"fields,omitempty"`
	Notes     string                `json:"notes,omitempty"`
}

// Field returns the validator's opinion for a field, if it offered one.
func (o AgentOutput) Field(name string) (AgentField, bool) {
	f, ok := o.Fields[name]
	return f, ok
}
