// Package verify is the AI escalation step: two interchangeable inference
// backends (local Ollama, remote HTTP) behind one interface, with response
// schema enforcement so a misbehaving model can never abort the pipeline.
package verify

import (
	"context"

	"ghostjob-engine/internal/domain"
)

// Guess carries the parser's current best values into the verification
// prompt so the model confirms or corrects rather than extracts from scratch.
type Guess struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
}

// Request is the bounded verification input. Excerpt is already capped and
// stripped by the caller.
type Request struct {
	URL     string `json:"url"`
	Excerpt string `json:"contentExcerpt"`
	Guess   Guess  `json:"parserOutput"`
}

// Backend is one verification engine. Available is a cheap capability probe;
// backend selection happens in Chain, never in the coordinator.
type Backend interface {
	Name() string
	Available(ctx context.Context) bool
	Verify(ctx context.Context, req Request) (domain.AgentOutput, error)
}
