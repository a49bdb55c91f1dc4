package domain

import "time"

// Sentinel field values signal total extraction failure. Callers inspect
// these instead of catching errors; the pipeline never throws past its
// boundary.
const (
	UnknownTitle   = "Unknown Position"
	UnknownCompany = "Unknown Company"
)

// CoreMethod identifies which extraction technique produced the winning
// values of a ParsedJob.
type CoreMethod string

const (
	MethodStructuredData CoreMethod = "structured_data"
	MethodSelectorBased  CoreMethod = "selector_based"
	MethodTextPatterns   CoreMethod = "text_patterns"
	MethodDomainIntel    CoreMethod = "domain_intelligence"
	MethodManualFallback CoreMethod = "manual_fallback"
	MethodRealTimeLearn  CoreMethod = "real_time_learning"
)

// ExtractionMethod records provenance: the technique plus whether a stored
// learning correction was applied on top of it.
type ExtractionMethod struct {
	Method          CoreMethod `json:"method"`
	LearningApplied bool       `json:"learningApplied"`
}

func (m ExtractionMethod) String() string {
	if m.LearningApplied {
		return string(m.Method) + "+learning"
	}
	return string(m.Method)
}

// ParsedJob is the single output of one pipeline run. Title and Company are
// always set (sentinels on failure); every other field is nil when unknown,
// never an empty string.
type ParsedJob struct {
	Title       string            `json:"title"`
	Company     string            `json:"company"`
	Location    *string           `json:"location,omitempty"`
	Description *string           `json:"description,omitempty"`
	Salary      *string           `json:"salary,omitempty"`
	Remote      *bool             `json:"remote,omitempty"`
	PostedAt    *time.Time        `json:"postedAt,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	Confidence ConfidenceScores `json:"confidence"`
	Method     ExtractionMethod `json:"method"`
	Notes      []string         `json:"notes,omitempty"`
}

// IsPlaceholder reports whether a field value is a known failure placeholder:
// too short to be real, or one of the reserved sentinels.
func IsPlaceholder(v string) bool {
	if len(v) <= 2 {
		return true
	}
	return v == UnknownTitle || v == UnknownCompany
}

// ValidationResult is advisory input to a parser's confidence computation.
type ValidationResult struct {
	Field   string  `json:"field"`
	Passed  bool    `json:"passed"`
	Rule    string  `json:"rule"`
	Score   float64 `json:"score"`
	Message string  `json:"message,omitempty"`
}

// Fixed overall-confidence weights: title 30%, company 30%, description 20%,
// location/salary 20%.
const (
	weightTitle       = 0.30
	weightCompany     = 0.30
	weightDescription = 0.20
	weightLocSalary   = 0.20
)

// ConfidenceScores carries per-field trust values in [0,1]. Overall is never
// set independently; call Recompute after changing any field score.
type ConfidenceScores struct {
	Title       float64 `json:"title"`
	Company     float64 `json:"company"`
	Location    float64 `json:"location"`
	Description float64 `json:"description"`
	Salary      float64 `json:"salary"`
	Overall     float64 `json:"overall"`
}

// Recompute derives Overall from the fixed field weights. Location and
// salary share one bucket; when both are scored they average.
func (c *ConfidenceScores) Recompute() {
	locSal := c.Location
	if c.Salary > 0 {
		if c.Location > 0 {
			locSal = (c.Location + c.Salary) / 2
		} else {
			locSal = c.Salary
		}
	}
	c.Overall = clamp01(weightTitle*c.Title +
		weightCompany*c.Company +
		weightDescription*c.Description +
		weightLocSalary*locSal)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
