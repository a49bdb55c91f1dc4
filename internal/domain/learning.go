package domain

import "time"

// Correction is a feedback submission: either a manual fix from the review
// surface or a successful real-time repair. One Correction may touch several
// fields; the store splits it into per-field patterns.
type Correction struct {
	SourceURL        string `json:"sourceUrl"`
	OriginalTitle    string `json:"originalTitle,omitempty"`
	CorrectTitle     string `json:"correctTitle,omitempty"`
	OriginalCompany  string `json:"originalCompany,omitempty"`
	CorrectCompany   string `json:"correctCompany,omitempty"`
	OriginalLocation string `json:"originalLocation,omitempty"`
	CorrectLocation  string `json:"correctLocation,omitempty"`
	ParserUsed       string `json:"parserUsed"`
	ParserVersion    string `json:"parserVersion"`
	Reason           string `json:"correctionReason,omitempty"`
	CorrectedBy      string `json:"correctedBy"`
}

// LearningPattern is one immutable row of the correction log. Patterns are
// superseded by newer rows for the same (source, field) key, never deleted.
type LearningPattern struct {
	ID            int64     `json:"id"`
	Source        string    `json:"source"` // domain, or full URL when host is unparseable
	Field         string    `json:"field"`  // title | company | location
	OriginalValue string    `json:"originalValue"`
	CorrectValue  string    `json:"correctValue"`
	ParserUsed    string    `json:"parserUsed"`
	ParserVersion string    `json:"parserVersion"`
	Reason        string    `json:"reason,omitempty"`
	CorrectedBy   string    `json:"correctedBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Manual reports whether the pattern came from a human correction rather
// than a real-time repair. Manual patterns earn the larger confidence bump.
func (p LearningPattern) Manual() bool {
	return p.CorrectedBy != RealTimeLearner
}

// RealTimeLearner is the CorrectedBy value reserved for patterns derived by
// the rule-based real-time pass.
const RealTimeLearner = "realtime"
