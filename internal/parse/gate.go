package parse

import "ghostjob-engine/internal/domain"

// Quality gate thresholds: the minimum for a result to be accepted without
// another stage.
const (
	gateOverallMin = 0.60
	gateTitleMin   = 0.70
	gateCompanyMin = 0.70
)

// Escalation thresholds: the level below which a field warrants the costlier
// AI verification. Independent of the gate and evaluated regardless of it.
const (
	escalateTitleBelow    = 0.85
	escalateCompanyBelow  = 0.80
	escalateLocationBelow = 0.75
	escalateDescMinLen    = 140
)

// passesGate is the acceptance test between extraction and escalation.
func passesGate(job domain.ParsedJob) bool {
	c := job.Confidence
	if c.Overall < gateOverallMin || c.Title < gateTitleMin || c.Company < gateCompanyMin {
		return false
	}
	if domain.IsPlaceholder(job.Title) || domain.IsPlaceholder(job.Company) {
		return false
	}
	return true
}

// needsEscalation fires whenever any one field sits below its trust floor.
func needsEscalation(job domain.ParsedJob) bool {
	c := job.Confidence
	if c.Title < escalateTitleBelow || c.Company < escalateCompanyBelow || c.Location < escalateLocationBelow {
		return true
	}
	descLen := 0
	if job.Description != nil {
		descLen = len(*job.Description)
	}
	return descLen < escalateDescMinLen
}
