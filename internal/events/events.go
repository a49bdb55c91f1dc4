// Package events carries the engine's live progress stream: each analysis
// stage publishes a small JSON event that the SSE endpoint relays.
package events

import (
	"encoding/json"
	"time"
)

// Stage event types published during an analysis run.
const (
	TypeAnalysisStarted  = "analysis.started"
	TypeParseDone        = "analysis.parsed"
	TypeLearningApplied  = "analysis.learning_applied"
	TypeEscalated        = "analysis.escalated"
	TypeFallback         = "analysis.fallback"
	TypeAnalysisComplete = "analysis.complete"
	TypeCorrectionSaved  = "correction.saved"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
