package platform

import (
	"context"
	"testing"

	"ghostjob-engine/internal/domain"
)

const greenhousePage = `<!DOCTYPE html>
<html>
<head>
<title>Senior Backend Engineer - Acme Corp</title>
<script type="application/ld+json">
{
  "@type": "JobPosting",
  "title": "Senior Backend Engineer",
  "datePosted": "2026-07-01",
  "description": "Acme Corp builds logistics infrastructure for mid-size manufacturers. You will own the ingestion pipeline end to end, design APIs consumed by three internal teams, and mentor two mid-level engineers. Our stack is Go, Postgres, and Kafka on AWS.",
  "hiringOrganization": {"@type": "Organization", "name": "Acme Corp"},
  "jobLocation": {"@type": "Place", "address": {"addressLocality": "Austin", "addressRegion": "TX"}},
  "baseSalary": {"currency": "USD", "value": {"minValue": 150000, "maxValue": 185000}}
}
</script>
</head>
<body><div id="content"><h1 class="app-title">Senior Backend Engineer</h1></div></body>
</html>`

func findProfile(t *testing.T, name string) *Profile {
	t.Helper()
	for _, p := range Defaults() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("profile %s missing from defaults", name)
	return nil
}

func TestCanHandle(t *testing.T) {
	gh := findProfile(t, "greenhouse")
	if !gh.CanHandle("https://boards.greenhouse.io/acme/jobs/1") {
		t.Error("greenhouse profile rejected its own host")
	}
	if gh.CanHandle("https://jobs.lever.co/acme/1") {
		t.Error("greenhouse profile claimed a lever URL")
	}
	if !Generic().CanHandle("anything at all") {
		t.Error("generic must claim every input")
	}
}

func TestExtractStructuredWins(t *testing.T) {
	gh := findProfile(t, "greenhouse")
	job := gh.Extract(context.Background(), "https://boards.greenhouse.io/acmecorp/jobs/4012345", greenhousePage)

	if job.Title != "Senior Backend Engineer" {
		t.Errorf("Title = %q", job.Title)
	}
	if job.Company != "Acme Corp" {
		t.Errorf("Company = %q", job.Company)
	}
	if job.Method.Method != domain.MethodStructuredData {
		t.Errorf("Method = %v", job.Method.Method)
	}
	// structured base 0.90 scaled by a passing validation
	if job.Confidence.Title != 0.90 {
		t.Errorf("title confidence = %v, want 0.90", job.Confidence.Title)
	}
	if job.Confidence.Overall < 0.60 {
		t.Errorf("Overall = %v, should pass the gate for a full structured posting", job.Confidence.Overall)
	}
	if job.Metadata["parser"] != "greenhouse" || job.Metadata["platform"] != "greenhouse" {
		t.Errorf("metadata = %v", job.Metadata)
	}
	if job.Metadata["structured_data_found"] != "true" {
		t.Error("structured_data_found missing")
	}
}

func TestExtractSentinelsOnEmptyContent(t *testing.T) {
	gh := findProfile(t, "greenhouse")
	// URL heuristics still fill company from the board slug
	job := gh.Extract(context.Background(), "https://boards.greenhouse.io/acmecorp/jobs/1", "<html><body></body></html>")

	if job.Title != domain.UnknownTitle {
		t.Errorf("Title = %q, want sentinel", job.Title)
	}
	if job.Company != "Acmecorp" {
		t.Errorf("Company = %q, want slug-derived", job.Company)
	}
	if job.Method.Method != domain.MethodDomainIntel {
		t.Errorf("Method = %v", job.Method.Method)
	}
}

func TestGenericSkipsHighTrustStrategies(t *testing.T) {
	// generic must not read structured metadata; it runs low-trust only
	job := Generic().Extract(context.Background(), "https://unknown.example/x", greenhousePage)
	if job.Method.Method == domain.MethodStructuredData || job.Method.Method == domain.MethodSelectorBased {
		t.Errorf("generic used high-trust method %v", job.Method.Method)
	}
}

func TestExtractDeterministic(t *testing.T) {
	gh := findProfile(t, "greenhouse")
	url := "https://boards.greenhouse.io/acmecorp/jobs/4012345"

	first := gh.Extract(context.Background(), url, greenhousePage)
	for i := 0; i < 5; i++ {
		got := gh.Extract(context.Background(), url, greenhousePage)
		if got.Title != first.Title || got.Company != first.Company ||
			got.Confidence != first.Confidence || got.Method != first.Method {
			t.Fatal("extraction not deterministic across runs")
		}
	}
}
