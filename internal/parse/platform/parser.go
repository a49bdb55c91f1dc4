// Package platform implements per-source-family parsers. A parser is
// configuration, not code: URL patterns, selector lists, and text-pattern
// regexes feeding the shared strategy set.
package platform

import (
	"context"
	"log"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/parse/strategy"
	"ghostjob-engine/internal/textutil"
)

// Profile is one platform parser. SelfConfidence is a static rank used only
// to choose among competing parsers, not a per-field confidence.
type Profile struct {
	Name           string
	Version        string
	SelfConfidence float64
	HostPatterns   []string // substring match on the URL host
	Selectors      strategy.Selectors
	Patterns       strategy.FieldPatterns
	LowTrustOnly   bool // generic fallback: text patterns + heuristics only
	CatchAll       bool // CanHandle is always true
}

func (p *Profile) CanHandle(raw string) bool {
	if p.CatchAll {
		return true
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, pat := range p.HostPatterns {
		if strings.Contains(host, pat) {
			return true
		}
	}
	return false
}

// Confidence is the parser's self-reported selection rank.
func (p *Profile) Confidence() float64 { return p.SelfConfidence }

func (p *Profile) strategies() []strategy.Strategy {
	if p.LowTrustOnly {
		return []strategy.Strategy{
			strategy.TextPattern{Extra: p.Patterns},
			strategy.DomainHeuristic{},
		}
	}
	return []strategy.Strategy{
		strategy.Structured{},
		strategy.Selector{Sel: p.Selectors},
		strategy.TextPattern{Extra: p.Patterns},
		strategy.DomainHeuristic{},
	}
}

type strategyRun struct {
	ranked strategy.Ranked
	vals   []domain.ValidationResult
}

// Extract runs the configured strategies concurrently, merges their partials
// deterministically by priority, and scores per-field confidence from the
// winning strategy's validation results. Never returns an error: a strategy
// fault degrades to an empty partial for that strategy only.
func (p *Profile) Extract(ctx context.Context, rawURL, content string) domain.ParsedJob {
	strats := p.strategies()
	runs := make([]strategyRun, len(strats))

	var g errgroup.Group
	for i, s := range strats {
		i, s := i, s
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[parser:%s] strategy %s panicked: %v", p.Name, s.Name(), r)
					runs[i] = strategyRun{ranked: strategy.Ranked{Priority: s.Priority(), Method: s.Method()}}
				}
			}()
			partial := s.Extract(content, rawURL)
			runs[i] = strategyRun{
				ranked: strategy.Ranked{Partial: partial, Priority: s.Priority(), Method: s.Method()},
				vals:   s.Validate(partial),
			}
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]strategy.Ranked, 0, len(runs))
	for _, r := range runs {
		ranked = append(ranked, r.ranked)
	}
	merged := strategy.Merge(ranked)

	return p.assemble(rawURL, merged, runs)
}

func (p *Profile) assemble(rawURL string, merged strategy.Merged, runs []strategyRun) domain.ParsedJob {
	job := domain.ParsedJob{
		Metadata: map[string]string{
			"parser":         p.Name,
			"parser_version": p.Version,
			"platform":       textutil.DetectPlatform(rawURL),
		},
	}
	for k, v := range merged.Partial.Meta {
		job.Metadata[k] = v
	}

	score := func(field string) float64 {
		method, ok := merged.FieldMethod[field]
		if !ok {
			return 0
		}
		base := strategy.MethodBase(method)
		for _, run := range runs {
			if run.ranked.Method != method {
				continue
			}
			for _, v := range run.vals {
				if v.Field == field {
					return base * v.Score
				}
			}
		}
		return base * 0.6 // extracted but unvalidated
	}

	mp := merged.Partial
	if mp.Title != "" {
		job.Title = mp.Title
		job.Confidence.Title = score("title")
	} else {
		job.Title = domain.UnknownTitle
	}
	if mp.Company != "" {
		job.Company = mp.Company
		job.Confidence.Company = score("company")
	} else {
		job.Company = domain.UnknownCompany
	}
	if mp.Location != "" {
		loc := mp.Location
		job.Location = &loc
		job.Confidence.Location = score("location")
	}
	if mp.Description != "" {
		desc := mp.Description
		job.Description = &desc
		job.Confidence.Description = score("description")
	}
	if mp.Salary != "" {
		sal := mp.Salary
		job.Salary = &sal
		job.Confidence.Salary = score("salary")
	}
	job.Remote = mp.Remote
	job.PostedAt = mp.PostedAt
	job.Confidence.Recompute()

	job.Method = domain.ExtractionMethod{Method: winningMethod(merged)}
	return job
}

// winningMethod is the provenance tag for the job as a whole: the method
// that supplied the title, else the company, else manual fallback.
func winningMethod(m strategy.Merged) domain.CoreMethod {
	if method, ok := m.FieldMethod["title"]; ok {
		return method
	}
	if method, ok := m.FieldMethod["company"]; ok {
		return method
	}
	return domain.MethodManualFallback
}
