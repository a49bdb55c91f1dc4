// Package strategy holds the pure extraction techniques a platform parser
// composes: structured metadata, CSS selectors, text patterns, and domain
// heuristics. Strategies are stateless and never return errors; an internal
// failure yields an empty partial for the affected fields only.
package strategy

import (
	"sort"
	"time"

	"ghostjob-engine/internal/domain"
)

// Partial is the fragment of a job one strategy managed to extract. Empty
// string means "not found"; Remote is tri-state via the pointer.
type Partial struct {
	Title       string
	Company     string
	Location    string
	Description string
	Salary      string
	Remote      *bool
	PostedAt    *time.Time
	Meta        map[string]string
}

func (p Partial) Empty() bool {
	return p.Title == "" && p.Company == "" && p.Location == "" &&
		p.Description == "" && p.Salary == "" && p.Remote == nil
}

// Strategy is one extraction technique. Priority is a static trust rank:
// lower number wins during merge (structured=1 ... domain heuristics=4).
type Strategy interface {
	Name() string
	Method() domain.CoreMethod
	Priority() int
	Extract(content, url string) Partial
	Validate(p Partial) []domain.ValidationResult
}

// Ranked pairs a strategy's partial with its priority for merging.
type Ranked struct {
	Partial  Partial
	Priority int
	Method   domain.CoreMethod
}

// Merged is the deterministic combination of ranked partials plus the method
// that supplied each field, for provenance.
type Merged struct {
	Partial     Partial
	FieldMethod map[string]domain.CoreMethod
}

// Merge takes the first non-empty value in priority order per field. Not a
// vote: a lone structured value beats three agreeing heuristics.
func Merge(results []Ranked) Merged {
	sorted := make([]Ranked, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	out := Merged{FieldMethod: map[string]domain.CoreMethod{}}
	for _, r := range sorted {
		p := r.Partial
		if out.Partial.Title == "" && p.Title != "" {
			out.Partial.Title = p.Title
			out.FieldMethod["title"] = r.Method
		}
		if out.Partial.Company == "" && p.Company != "" {
			out.Partial.Company = p.Company
			out.FieldMethod["company"] = r.Method
		}
		if out.Partial.Location == "" && p.Location != "" {
			out.Partial.Location = p.Location
			out.FieldMethod["location"] = r.Method
		}
		if out.Partial.Description == "" && p.Description != "" {
			out.Partial.Description = p.Description
			out.FieldMethod["description"] = r.Method
		}
		if out.Partial.Salary == "" && p.Salary != "" {
			out.Partial.Salary = p.Salary
			out.FieldMethod["salary"] = r.Method
		}
		if out.Partial.Remote == nil && p.Remote != nil {
			out.Partial.Remote = p.Remote
		}
		if out.Partial.PostedAt == nil && p.PostedAt != nil {
			out.Partial.PostedAt = p.PostedAt
		}
		for k, v := range p.Meta {
			if out.Partial.Meta == nil {
				out.Partial.Meta = map[string]string{}
			}
			if _, dup := out.Partial.Meta[k]; !dup {
				out.Partial.Meta[k] = v
			}
		}
	}
	return out
}

// MethodBase is the trust floor per technique, scaled by validation scores
// when a parser computes per-field confidence.
func MethodBase(m domain.CoreMethod) float64 {
	switch m {
	case domain.MethodStructuredData:
		return 0.90
	case domain.MethodSelectorBased:
		return 0.75
	case domain.MethodTextPatterns:
		return 0.60
	case domain.MethodDomainIntel:
		return 0.50
	default:
		return 0.30
	}
}
