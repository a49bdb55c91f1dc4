package strategy

import (
	"strings"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// validatePartial scores each extracted field against cheap plausibility
// rules. Scores feed the parser's confidence computation; a failed rule is
// advisory, not a rejection.
func validatePartial(p Partial) []domain.ValidationResult {
	var out []domain.ValidationResult

	if p.Title != "" {
		out = append(out, checkTitle(p.Title))
	}
	if p.Company != "" {
		out = append(out, checkCompany(p.Company))
	}
	if p.Location != "" {
		out = append(out, checkLocation(p.Location))
	}
	if p.Description != "" {
		out = append(out, checkDescription(p.Description))
	}
	if p.Salary != "" {
		out = append(out, domain.ValidationResult{
			Field: "salary", Passed: true, Rule: "salary_present", Score: 0.9,
		})
	}
	return out
}

func checkTitle(t string) domain.ValidationResult {
	r := domain.ValidationResult{Field: "title", Rule: "title_plausible"}
	switch {
	case len(t) < 3:
		r.Score, r.Message = 0.2, "too short"
	case len(t) > 120:
		r.Score, r.Message = 0.4, "too long"
	case textutil.LooksLikeJunkTitle(t):
		r.Score, r.Message = 0.5, "navigation-like text"
	default:
		r.Passed, r.Score = true, 1.0
	}
	return r
}

func checkCompany(c string) domain.ValidationResult {
	r := domain.ValidationResult{Field: "company", Rule: "company_plausible"}
	lc := strings.ToLower(c)
	switch {
	case len(c) < 2:
		r.Score, r.Message = 0.2, "too short"
	case len(c) > 80:
		r.Score, r.Message = 0.4, "too long"
	case strings.Contains(lc, "cookie") || strings.Contains(lc, "sign in"):
		r.Score, r.Message = 0.3, "boilerplate text"
	default:
		r.Passed, r.Score = true, 1.0
	}
	return r
}

func checkLocation(l string) domain.ValidationResult {
	r := domain.ValidationResult{Field: "location", Rule: "location_plausible"}
	switch {
	case len(l) > 80:
		r.Score, r.Message = 0.4, "too long"
	case len(l) < 2:
		r.Score, r.Message = 0.3, "too short"
	default:
		r.Passed, r.Score = true, 1.0
	}
	return r
}

func checkDescription(d string) domain.ValidationResult {
	r := domain.ValidationResult{Field: "description", Rule: "description_length"}
	switch {
	case len(d) < 140:
		r.Score, r.Message = 0.5, "below minimum useful length"
	default:
		r.Passed, r.Score = true, 1.0
	}
	return r
}
