package parse

import (
	"strings"
	"testing"

	"ghostjob-engine/internal/domain"
)

func confidentJob() domain.ParsedJob {
	desc := strings.Repeat("real requirements with specifics, ", 10)
	loc := "Austin, TX"
	job := domain.ParsedJob{
		Title:       "Senior Backend Engineer",
		Company:     "Acme Corp",
		Location:    &loc,
		Description: &desc,
		Confidence: domain.ConfidenceScores{
			Title: 0.9, Company: 0.9, Location: 0.8, Description: 0.9,
		},
	}
	job.Confidence.Recompute()
	return job
}

func TestPassesGate(t *testing.T) {
	if !passesGate(confidentJob()) {
		t.Error("confident job rejected")
	}

	low := confidentJob()
	low.Confidence.Title = 0.5
	low.Confidence.Recompute()
	if passesGate(low) {
		t.Error("low title confidence passed")
	}

	placeholder := confidentJob()
	placeholder.Company = domain.UnknownCompany
	if passesGate(placeholder) {
		t.Error("sentinel company passed")
	}

	tiny := confidentJob()
	tiny.Title = "ab"
	if passesGate(tiny) {
		t.Error("two-character title passed")
	}
}

func TestNeedsEscalation(t *testing.T) {
	good := confidentJob()
	if needsEscalation(good) {
		t.Errorf("confident job escalated: %+v", good.Confidence)
	}

	tests := []struct {
		name   string
		mutate func(*domain.ParsedJob)
	}{
		{"low title", func(j *domain.ParsedJob) { j.Confidence.Title = 0.84 }},
		{"low company", func(j *domain.ParsedJob) { j.Confidence.Company = 0.79 }},
		{"low location", func(j *domain.ParsedJob) { j.Confidence.Location = 0.74 }},
		{"missing location", func(j *domain.ParsedJob) { j.Location = nil; j.Confidence.Location = 0 }},
		{"short description", func(j *domain.ParsedJob) { s := "brief"; j.Description = &s }},
		{"missing description", func(j *domain.ParsedJob) { j.Description = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := confidentJob()
			tt.mutate(&j)
			if !needsEscalation(j) {
				t.Error("trigger did not fire")
			}
		})
	}
}

func TestGateAndEscalationAreIndependent(t *testing.T) {
	// passes the gate but still warrants escalation: gate floor is lower
	// than the escalation trust floor
	j := confidentJob()
	j.Confidence.Title = 0.80
	j.Confidence.Recompute()
	if !passesGate(j) {
		t.Fatal("job should pass the gate at 0.80 title confidence")
	}
	if !needsEscalation(j) {
		t.Error("0.80 title confidence should still escalate")
	}
}
