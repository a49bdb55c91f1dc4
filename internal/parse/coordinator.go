// Package parse drives the extraction pipeline: parser selection, learning
// application, quality gating, AI escalation, and the generic fallback.
// One call in, one ParsedJob out; failures surface as sentinel values, never
// as errors across this boundary.
package parse

import (
	"context"
	"fmt"
	"log"
	"time"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/learn"
	"ghostjob-engine/internal/parse/platform"
	"ghostjob-engine/internal/textutil"
	"ghostjob-engine/internal/verify"
)

// LearningStore is the coordinator's view of the correction memory.
type LearningStore interface {
	Latest(ctx context.Context, source string) (map[string]domain.LearningPattern, error)
	Append(ctx context.Context, p domain.LearningPattern) error
}

// Verifier is one escalation attempt against the AI validation chain.
type Verifier interface {
	Verify(ctx context.Context, req verify.Request) (domain.AgentOutput, error)
}

type Options struct {
	PatternTTL   time.Duration // learning-view cache TTL; 30s default
	ExcerptLimit int           // verification excerpt cap; 40 KB default
}

// Coordinator owns one pipeline instance: its parser list, learning store
// handle, and validator client arrive by construction so tests run isolated
// and parallel. No singletons.
type Coordinator struct {
	profiles     []*platform.Profile
	generic      *platform.Profile
	store        LearningStore
	verifier     Verifier
	cache        *patternCache
	excerptLimit int
}

func NewCoordinator(profiles []*platform.Profile, store LearningStore, verifier Verifier, opts Options) *Coordinator {
	if opts.PatternTTL <= 0 {
		opts.PatternTTL = 30 * time.Second
	}
	if opts.ExcerptLimit <= 0 {
		opts.ExcerptLimit = DefaultExcerptLimit
	}
	return &Coordinator{
		profiles:     profiles,
		generic:      platform.Generic(),
		store:        store,
		verifier:     verifier,
		cache:        newPatternCache(opts.PatternTTL),
		excerptLimit: opts.ExcerptLimit,
	}
}

// runState tracks the per-job budget: one platform attempt, one learning
// retry, one escalation, one generic attempt. No unbounded loops.
type runState struct {
	realtimeDone bool
	escalated    bool
}

// Parse executes the stage chain for one job. Always returns a ParsedJob;
// total failure is a job carrying sentinel title/company at the lowest
// confidence tier.
func (c *Coordinator) Parse(ctx context.Context, rawURL, content string) domain.ParsedJob {
	source := textutil.SourceKey(rawURL)
	st := &runState{}

	// SELECT
	chosen := c.selectProfile(rawURL)
	if chosen == nil {
		chosen = c.generic
	}

	// EXTRACT
	job, ok := c.extract(ctx, chosen, rawURL, content)
	if !ok {
		return c.fallback(ctx, rawURL, content, source, st, nil)
	}

	// LEARN_APPLY
	c.applyLearning(ctx, source, &job)

	// quality gate; one real-time pass re-derives from the live content
	// before anything more expensive
	if !passesGate(job) {
		c.realtimeRetry(ctx, rawURL, content, source, st, &job)
	}

	// ESCALATE: independent trigger, checked regardless of gate outcome
	c.escalate(ctx, chosen, rawURL, content, st, &job)

	// FALLBACK
	if !passesGate(job) && chosen != c.generic {
		return c.fallback(ctx, rawURL, content, source, st, &job)
	}
	return job
}

// selectProfile picks the highest self-confidence parser that claims the URL.
func (c *Coordinator) selectProfile(rawURL string) *platform.Profile {
	var best *platform.Profile
	for _, p := range c.profiles {
		if !p.CanHandle(rawURL) {
			continue
		}
		if best == nil || p.Confidence() > best.Confidence() {
			best = p
		}
	}
	return best
}

// extract shields the pipeline from a faulting parser: any panic routes the
// job to FALLBACK instead of crossing the boundary.
func (c *Coordinator) extract(ctx context.Context, p *platform.Profile, rawURL, content string) (job domain.ParsedJob, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[coordinator] parser %s faulted: %v", p.Name, r)
			ok = false
		}
	}()
	return p.Extract(ctx, rawURL, content), true
}

// learning bumps are additive with caps, and never lower a field's
// confidence. Manual corrections earn more trust than real-time repairs.
const (
	manualBump   = 0.20
	manualCap    = 0.95
	realtimeBump = 0.10
	realtimeCap  = 0.90
)

func bumped(cur float64, manual bool) float64 {
	bump, ceil := realtimeBump, realtimeCap
	if manual {
		bump, ceil = manualBump, manualCap
	}
	next := cur + bump
	if next > ceil {
		next = ceil
	}
	if next < cur {
		return cur
	}
	return next
}

// applyLearning overlays the latest stored correction per field and retags
// the job when one fired.
func (c *Coordinator) applyLearning(ctx context.Context, source string, job *domain.ParsedJob) {
	patterns := c.patterns(ctx, source)
	if len(patterns) == 0 {
		return
	}

	applied := false
	if p, ok := patterns["title"]; ok {
		job.Title = p.CorrectValue
		job.Confidence.Title = bumped(job.Confidence.Title, p.Manual())
		applied = true
	}
	if p, ok := patterns["company"]; ok {
		job.Company = p.CorrectValue
		job.Confidence.Company = bumped(job.Confidence.Company, p.Manual())
		applied = true
	}
	if p, ok := patterns["location"]; ok {
		loc := p.CorrectValue
		job.Location = &loc
		job.Confidence.Location = bumped(job.Confidence.Location, p.Manual())
		applied = true
	}

	if applied {
		job.Method.LearningApplied = true
		job.Confidence.Recompute()
		job.Notes = append(job.Notes, fmt.Sprintf("applied %d learned correction(s) for %s", len(patterns), source))
	}
}

func (c *Coordinator) patterns(ctx context.Context, source string) map[string]domain.LearningPattern {
	if got, ok := c.cache.get(source); ok {
		return got
	}
	if c.store == nil {
		return nil
	}
	patterns, err := c.store.Latest(ctx, source)
	if err != nil {
		log.Printf("[coordinator] learning lookup failed source=%s err=%v", source, err)
		return nil
	}
	c.cache.put(source, patterns)
	return patterns
}

// realtimeRetry re-derives corrections from the live (url, content) instead
// of the stored table, records them durably, and applies them. One pass per
// job.
func (c *Coordinator) realtimeRetry(ctx context.Context, rawURL, content, source string, st *runState, job *domain.ParsedJob) {
	if st.realtimeDone {
		return
	}
	st.realtimeDone = true

	derived := learn.ReDerive(rawURL, content, *job)
	if len(derived) == 0 {
		return
	}

	for _, p := range derived {
		if c.store != nil {
			if err := c.store.Append(ctx, p); err != nil {
				log.Printf("[coordinator] realtime pattern append failed: %v", err)
			}
		}
		switch p.Field {
		case "title":
			job.Title = p.CorrectValue
			job.Confidence.Title = bumped(job.Confidence.Title, false)
		case "company":
			job.Company = p.CorrectValue
			job.Confidence.Company = bumped(job.Confidence.Company, false)
		case "location":
			loc := p.CorrectValue
			job.Location = &loc
			job.Confidence.Location = bumped(job.Confidence.Location, false)
		}
	}
	c.cache.invalidate(source)

	job.Method = domain.ExtractionMethod{Method: domain.MethodRealTimeLearn, LearningApplied: true}
	job.Confidence.Recompute()
	job.Notes = append(job.Notes, fmt.Sprintf("real-time learning derived %d correction(s)", len(derived)))
}

// escalate hands low-confidence fields to the AI validator. A returned field
// replaces the existing value only when its confidence strictly exceeds the
// parser's; merged overall is max(original, re-derived three-field average).
func (c *Coordinator) escalate(ctx context.Context, chosen *platform.Profile, rawURL, content string, st *runState, job *domain.ParsedJob) {
	if c.verifier == nil || st.escalated || !needsEscalation(*job) {
		return
	}
	st.escalated = true

	req := verify.Request{
		URL:     rawURL,
		Excerpt: BuildExcerpt(content, chosen.Selectors.Description, c.excerptLimit),
		Guess: verify.Guess{
			Title:    unlessPlaceholder(job.Title),
			Company:  unlessPlaceholder(job.Company),
			Location: deref(job.Location),
		},
	}

	out, err := c.verifier.Verify(ctx, req)
	if err != nil {
		// escalation errors are always recoverable: contribute nothing
		log.Printf("[coordinator] escalation failed url=%s err=%v", rawURL, err)
		return
	}
	if !out.Validated {
		job.Notes = append(job.Notes, "ai verification returned no correction")
		return
	}

	original := job.Confidence.Overall
	replaced := 0

	if f, ok := out.Field("title"); ok && f.Confidence > job.Confidence.Title {
		job.Title = f.Value
		job.Confidence.Title = f.Confidence
		replaced++
	}
	if f, ok := out.Field("company"); ok && f.Confidence > job.Confidence.Company {
		job.Company = f.Value
		job.Confidence.Company = f.Confidence
		replaced++
	}
	if f, ok := out.Field("location"); ok && f.Confidence > job.Confidence.Location {
		loc := f.Value
		job.Location = &loc
		job.Confidence.Location = f.Confidence
		replaced++
	}

	avg := (job.Confidence.Title + job.Confidence.Company + job.Confidence.Location) / 3
	if avg > original {
		job.Confidence.Overall = avg
	} else {
		job.Confidence.Overall = original
	}

	if job.Metadata == nil {
		job.Metadata = map[string]string{}
	}
	job.Metadata["ai_verified"] = "true"
	job.Notes = append(job.Notes, fmt.Sprintf("ai verification replaced %d field(s)", replaced))
}

// fallback runs the generic parser, reapplies learning (including patterns
// the earlier real-time pass just stored), and returns regardless of gate
// outcome. No further fallback exists.
func (c *Coordinator) fallback(ctx context.Context, rawURL, content, source string, st *runState, _ *domain.ParsedJob) domain.ParsedJob {
	job, ok := c.extract(ctx, c.generic, rawURL, content)
	if !ok {
		return sentinelJob(rawURL)
	}
	c.applyLearning(ctx, source, &job)
	if !passesGate(job) {
		c.realtimeRetry(ctx, rawURL, content, source, st, &job)
	}
	job.Metadata["fallback"] = "true"
	return job
}

// sentinelJob is the total-failure result: explicit placeholders at the
// lowest confidence tier, still a well-formed ParsedJob.
func sentinelJob(rawURL string) domain.ParsedJob {
	job := domain.ParsedJob{
		Title:   domain.UnknownTitle,
		Company: domain.UnknownCompany,
		Method:  domain.ExtractionMethod{Method: domain.MethodManualFallback},
		Metadata: map[string]string{
			"parser":   "none",
			"platform": textutil.DetectPlatform(rawURL),
			"fallback": "true",
		},
		Notes: []string{"extraction failed on every path"},
	}
	job.Confidence.Recompute()
	return job
}

func unlessPlaceholder(v string) string {
	if domain.IsPlaceholder(v) {
		return ""
	}
	return v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
