// Package ghost scores how likely a parsed posting is a ghost job: a fixed
// arithmetic combination of structural signals and configurable keyword
// rules. The score is a collaborator input for callers, not part of the
// extraction pipeline's own quality model.
package ghost

import (
	"strings"
	"time"

	"ghostjob-engine/internal/config"
	"ghostjob-engine/internal/domain"
)

// Factor is one contribution to the probability, surfaced to callers.
type Factor struct {
	Type        string  `json:"factor_type"` // red_flag | warning | positive
	Description string  `json:"description"`
	Severity    float64 `json:"severity"`
	Weight      float64 `json:"weight"`
}

// Risk tiers used by history/stats surfaces.
const (
	TierLowBelow  = 0.34
	TierHighFrom  = 0.67
	probabilityLo = 0.05
	probabilityHi = 0.95
)

func Tier(p float64) string {
	switch {
	case p >= TierHighFrom:
		return "high"
	case p >= TierLowBelow:
		return "medium"
	default:
		return "low"
	}
}

type Scorer struct {
	Cfg config.GhostConfig
}

// Score sums the baseline, structural signals, and matched keyword rules,
// clamped to [0.05, 0.95]. Deterministic for a given job and config.
func (s Scorer) Score(job domain.ParsedJob, now time.Time) (float64, []Factor) {
	baseline := s.Cfg.Baseline
	if baseline <= 0 {
		baseline = 0.40
	}

	factors := s.structuralFactors(job, now)
	factors = append(factors, s.ruleFactors(job)...)

	p := baseline
	for _, f := range factors {
		p += f.Weight
	}
	if p < probabilityLo {
		p = probabilityLo
	}
	if p > probabilityHi {
		p = probabilityHi
	}

	if len(factors) == 0 {
		factors = append(factors, Factor{
			Type:        "warning",
			Description: "Standard analysis completed with no significant risk factors",
			Severity:    0.2,
			Weight:      0.05,
		})
	}
	return p, factors
}

func (s Scorer) structuralFactors(job domain.ParsedJob, now time.Time) []Factor {
	var out []Factor

	descLen := 0
	if job.Description != nil {
		descLen = len(*job.Description)
	}
	if descLen < 140 {
		out = append(out, Factor{
			Type:        "red_flag",
			Description: "Generic job description with minimal specific requirements",
			Severity:    0.6,
			Weight:      0.20,
		})
	}
	if job.Salary == nil {
		out = append(out, Factor{
			Type:        "warning",
			Description: "Vague salary range or compensation details missing",
			Severity:    0.35,
			Weight:      0.10,
		})
	}
	if domain.IsPlaceholder(job.Company) {
		out = append(out, Factor{
			Type:        "warning",
			Description: "Limited company information available",
			Severity:    0.5,
			Weight:      0.15,
		})
	}
	if job.PostedAt != nil && now.Sub(*job.PostedAt) > 60*24*time.Hour {
		out = append(out, Factor{
			Type:        "red_flag",
			Description: "Job posting has been active for 60+ days without updates",
			Severity:    0.75,
			Weight:      0.25,
		})
	}
	if descLen >= 600 {
		out = append(out, Factor{
			Type:        "positive",
			Description: "Clear role requirements and specific technical skills mentioned",
			Severity:    0.2,
			Weight:      -0.15,
		})
	}
	return out
}

// ruleFactors applies the configured keyword signals against the text blob,
// one factor per matched rule.
func (s Scorer) ruleFactors(job domain.ParsedJob) []Factor {
	desc := ""
	if job.Description != nil {
		desc = *job.Description
	}
	text := strings.ToLower(job.Title + " " + desc)

	var out []Factor
	for _, sig := range s.Cfg.Signals {
		for _, needle := range sig.Any {
			if strings.Contains(text, strings.ToLower(needle)) {
				out = append(out, Factor{
					Type:        sig.Type,
					Description: sig.Reason,
					Severity:    sig.Severity,
					Weight:      sig.Weight,
				})
				break
			}
		}
	}
	return out
}
