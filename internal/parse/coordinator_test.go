package parse

import (
	"context"
	"testing"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/parse/platform"
	"ghostjob-engine/internal/verify"
)

type fakeStore struct {
	patterns map[string]map[string]domain.LearningPattern
	appended []domain.LearningPattern
}

func (f *fakeStore) Latest(_ context.Context, source string) (map[string]domain.LearningPattern, error) {
	return f.patterns[source], nil
}

func (f *fakeStore) Append(_ context.Context, p domain.LearningPattern) error {
	f.appended = append(f.appended, p)
	return nil
}

type fakeVerifier struct {
	calls int
	out   domain.AgentOutput
	err   error
}

func (f *fakeVerifier) Verify(context.Context, verify.Request) (domain.AgentOutput, error) {
	f.calls++
	return f.out, f.err
}

const fullPosting = `<!DOCTYPE html>
<html>
<head>
<title>Senior Backend Engineer - Acme Corp</title>
<script type="application/ld+json">
{
  "@type": "JobPosting",
  "title": "Senior Backend Engineer",
  "description": "Acme Corp builds logistics infrastructure for mid-size manufacturers. You will own the ingestion pipeline end to end, design APIs consumed by three internal teams, and mentor two mid-level engineers. Our stack is Go, Postgres, and Kafka on AWS.",
  "hiringOrganization": {"@type": "Organization", "name": "Acme Corp"},
  "jobLocation": {"@type": "Place", "address": {"addressLocality": "Austin", "addressRegion": "TX"}}
}
</script>
</head>
<body><div id="content">full posting body</div></body>
</html>`

const ghURL = "https://boards.greenhouse.io/acmecorp/jobs/4012345"

func newTestCoordinator(store LearningStore, v Verifier) *Coordinator {
	return NewCoordinator(platform.Defaults(), store, v, Options{})
}

// A complete structured posting must pass the gate on the first attempt with
// no AI escalation and no learning writes.
func TestParseHappyPath(t *testing.T) {
	store := &fakeStore{}
	v := &fakeVerifier{out: domain.AgentOutput{Validated: true}}
	c := newTestCoordinator(store, v)

	job := c.Parse(context.Background(), ghURL, fullPosting)

	if job.Title != "Senior Backend Engineer" || job.Company != "Acme Corp" {
		t.Errorf("job = %q / %q", job.Title, job.Company)
	}
	if job.Method.Method != domain.MethodStructuredData || job.Method.LearningApplied {
		t.Errorf("method = %+v", job.Method)
	}
	if !passesGate(job) {
		t.Errorf("full posting failed the gate: %+v", job.Confidence)
	}
	if v.calls != 0 {
		t.Errorf("verifier called %d times on a confident result", v.calls)
	}
	if len(store.appended) != 0 {
		t.Errorf("learning writes on a clean run: %v", store.appended)
	}
	if job.Metadata["fallback"] == "true" {
		t.Error("fallback fired on the happy path")
	}
}

func TestParseIdempotent(t *testing.T) {
	c := newTestCoordinator(&fakeStore{}, nil)

	first := c.Parse(context.Background(), ghURL, fullPosting)
	second := c.Parse(context.Background(), ghURL, fullPosting)

	if first.Title != second.Title || first.Company != second.Company ||
		first.Confidence != second.Confidence || first.Method != second.Method {
		t.Errorf("same input produced different results:\n%+v\n%+v", first, second)
	}
}

// Garbage input still yields a well-formed job, never an error or panic.
func TestParseTotalFailure(t *testing.T) {
	c := newTestCoordinator(&fakeStore{}, nil)

	job := c.Parse(context.Background(), "http://a.io", "<html><body></body></html>")

	if job.Title != domain.UnknownTitle {
		t.Errorf("Title = %q, want sentinel", job.Title)
	}
	if passesGate(job) {
		t.Error("placeholder job passed the gate")
	}
	if job.Confidence.Overall < 0 || job.Confidence.Overall > 1 {
		t.Errorf("Overall = %v out of bounds", job.Confidence.Overall)
	}
}

func TestParseFallbackTagsMetadata(t *testing.T) {
	c := newTestCoordinator(&fakeStore{}, nil)

	// greenhouse claims the URL, but the page carries only a thin title; the
	// platform attempt fails the gate and the generic fallback must run
	thin := `<html><head><title>Careers - Acme</title></head><body>apply below</body></html>`
	job := c.Parse(context.Background(), ghURL, thin)

	if job.Metadata["fallback"] != "true" {
		t.Errorf("fallback metadata missing: %v", job.Metadata)
	}
	if job.Metadata["parser"] != "generic" {
		t.Errorf("parser = %q, want generic", job.Metadata["parser"])
	}
}

func TestParseAppliesStoredLearning(t *testing.T) {
	store := &fakeStore{patterns: map[string]map[string]domain.LearningPattern{
		"boards.greenhouse.io": {
			"title": {Field: "title", CorrectValue: "Principal Backend Engineer", CorrectedBy: "user"},
		},
	}}
	c := newTestCoordinator(store, nil)

	job := c.Parse(context.Background(), ghURL, fullPosting)

	if job.Title != "Principal Backend Engineer" {
		t.Errorf("Title = %q, stored correction must win", job.Title)
	}
	if !job.Method.LearningApplied {
		t.Error("LearningApplied not set")
	}
	if job.Method.String() != "structured_data+learning" {
		t.Errorf("method string = %q", job.Method.String())
	}
	// manual bump from 0.90 hits the 0.95 cap
	if job.Confidence.Title != 0.95 {
		t.Errorf("title confidence = %v, want capped 0.95", job.Confidence.Title)
	}
}

func TestParseRealtimeLearning(t *testing.T) {
	store := &fakeStore{}
	c := newTestCoordinator(store, nil)

	content := `<html><head><meta property="og:title" content="Platform Engineer - Initech"/></head><body></body></html>`
	job := c.Parse(context.Background(), "http://x.example/p", content)

	if job.Title != "Platform Engineer" {
		t.Errorf("Title = %q, real-time pass should repair it", job.Title)
	}
	if job.Company != "Initech" {
		t.Errorf("Company = %q", job.Company)
	}
	if job.Method.Method != domain.MethodRealTimeLearn || !job.Method.LearningApplied {
		t.Errorf("method = %+v", job.Method)
	}
	if len(store.appended) == 0 {
		t.Fatal("derived patterns were not persisted")
	}
	for _, p := range store.appended {
		if p.CorrectedBy != domain.RealTimeLearner {
			t.Errorf("pattern author = %q", p.CorrectedBy)
		}
	}
}

const thinTitleOnly = `<html><head><title>Data Engineer - Initech</title></head><body>short</body></html>`

func TestParseEscalatesLowConfidence(t *testing.T) {
	v := &fakeVerifier{out: domain.AgentOutput{
		Validated: true,
		Fields: map[string]domain.AgentField{
			"title":    {Value: "Senior Data Engineer", Confidence: 0.92},
			"company":  {Value: "Initech", Confidence: 0.88},
			"location": {Value: "Remote", Confidence: 0.80},
		},
	}}
	c := newTestCoordinator(&fakeStore{}, v)

	job := c.Parse(context.Background(), "https://unknown.example/job/1", thinTitleOnly)

	if v.calls != 1 {
		t.Fatalf("verifier calls = %d, want exactly 1", v.calls)
	}
	if job.Title != "Senior Data Engineer" {
		t.Errorf("Title = %q, higher-confidence AI value must replace", job.Title)
	}
	if job.Location == nil || *job.Location != "Remote" {
		t.Errorf("Location = %v", job.Location)
	}
	if job.Metadata["ai_verified"] != "true" {
		t.Error("ai_verified metadata missing")
	}
	// merged overall is max(original, three-field average)
	want := (0.92 + 0.88 + 0.80) / 3
	if job.Confidence.Overall < want-1e-9 {
		t.Errorf("Overall = %v, want at least %v", job.Confidence.Overall, want)
	}
}

func TestParseEscalationTieDoesNotReplace(t *testing.T) {
	// text-pattern extraction scores 0.60; an equal-confidence AI answer must
	// not replace the parser value
	v := &fakeVerifier{out: domain.AgentOutput{
		Validated: true,
		Fields: map[string]domain.AgentField{
			"title": {Value: "Different Title", Confidence: 0.60},
		},
	}}
	c := newTestCoordinator(&fakeStore{}, v)

	job := c.Parse(context.Background(), "https://unknown.example/job/1", thinTitleOnly)

	if v.calls != 1 {
		t.Fatalf("verifier calls = %d", v.calls)
	}
	if job.Title != "Data Engineer" {
		t.Errorf("Title = %q, tie must keep the parser value", job.Title)
	}
}

func TestParseEscalationNoCorrection(t *testing.T) {
	v := &fakeVerifier{out: domain.AgentOutput{Validated: false}}
	c := newTestCoordinator(&fakeStore{}, v)

	job := c.Parse(context.Background(), "https://unknown.example/job/1", thinTitleOnly)

	if v.calls != 1 {
		t.Fatalf("verifier calls = %d", v.calls)
	}
	if job.Metadata["ai_verified"] == "true" {
		t.Error("unvalidated response must not mark ai_verified")
	}
	if job.Title != "Data Engineer" {
		t.Errorf("Title = %q changed by an unvalidated response", job.Title)
	}
}

func TestParseEscalationErrorIsRecoverable(t *testing.T) {
	v := &fakeVerifier{err: domain.Errf(domain.ErrBackendDown, "engine offline")}
	c := newTestCoordinator(&fakeStore{}, v)

	job := c.Parse(context.Background(), "https://unknown.example/job/1", thinTitleOnly)

	if job.Title != "Data Engineer" {
		t.Errorf("Title = %q, escalation error must contribute nothing", job.Title)
	}
}

func TestBumpedMonotonic(t *testing.T) {
	tests := []struct {
		cur    float64
		manual bool
		want   float64
	}{
		{0.50, true, 0.70},
		{0.90, true, 0.95},  // manual cap
		{0.97, true, 0.97},  // already above cap, never lowered
		{0.50, false, 0.60},
		{0.85, false, 0.90}, // realtime cap
		{0.95, false, 0.95}, // never lowered
	}
	for _, tt := range tests {
		if got := bumped(tt.cur, tt.manual); got != tt.want {
			t.Errorf("bumped(%v, %v) = %v, want %v", tt.cur, tt.manual, got, tt.want)
		}
		if got := bumped(tt.cur, tt.manual); got < tt.cur {
			t.Errorf("bumped(%v, %v) lowered the score", tt.cur, tt.manual)
		}
	}
}
