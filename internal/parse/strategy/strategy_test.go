package strategy

import (
	"strings"
	"testing"

	"ghostjob-engine/internal/domain"
)

func TestMergePriorityWins(t *testing.T) {
	// deliberately out of order: merge must sort by priority
	results := []Ranked{
		{Priority: 3, Method: domain.MethodTextPatterns, Partial: Partial{
			Title: "pattern title", Company: "Pattern Co", Salary: "$100k",
		}},
		{Priority: 1, Method: domain.MethodStructuredData, Partial: Partial{
			Title: "Structured Title",
		}},
		{Priority: 2, Method: domain.MethodSelectorBased, Partial: Partial{
			Company: "Selector Co", Location: "Austin, TX",
		}},
	}

	m := Merge(results)
	if m.Partial.Title != "Structured Title" {
		t.Errorf("Title = %q, structured should win", m.Partial.Title)
	}
	if m.Partial.Company != "Selector Co" {
		t.Errorf("Company = %q, selector fills the structured gap", m.Partial.Company)
	}
	if m.Partial.Salary != "$100k" {
		t.Errorf("Salary = %q, pattern fills remaining gap", m.Partial.Salary)
	}
	if m.FieldMethod["title"] != domain.MethodStructuredData {
		t.Errorf("title method = %v", m.FieldMethod["title"])
	}
	if m.FieldMethod["company"] != domain.MethodSelectorBased {
		t.Errorf("company method = %v", m.FieldMethod["company"])
	}
	if m.FieldMethod["salary"] != domain.MethodTextPatterns {
		t.Errorf("salary method = %v", m.FieldMethod["salary"])
	}
}

func TestMergeNotAVote(t *testing.T) {
	// three agreeing low-trust values must not outvote one structured value
	results := []Ranked{
		{Priority: 1, Method: domain.MethodStructuredData, Partial: Partial{Title: "Real Title"}},
		{Priority: 3, Method: domain.MethodTextPatterns, Partial: Partial{Title: "Wrong"}},
		{Priority: 4, Method: domain.MethodDomainIntel, Partial: Partial{Title: "Wrong"}},
	}
	if m := Merge(results); m.Partial.Title != "Real Title" {
		t.Errorf("Title = %q", m.Partial.Title)
	}
}

func TestMergeDeterministic(t *testing.T) {
	results := []Ranked{
		{Priority: 2, Method: domain.MethodSelectorBased, Partial: Partial{Title: "A"}},
		{Priority: 3, Method: domain.MethodTextPatterns, Partial: Partial{Title: "B"}},
	}
	first := Merge(results)
	for i := 0; i < 10; i++ {
		if got := Merge(results); got.Partial.Title != first.Partial.Title {
			t.Fatal("merge not deterministic")
		}
	}
}

func TestMethodBaseOrdering(t *testing.T) {
	order := []domain.CoreMethod{
		domain.MethodStructuredData,
		domain.MethodSelectorBased,
		domain.MethodTextPatterns,
		domain.MethodDomainIntel,
	}
	for i := 1; i < len(order); i++ {
		if MethodBase(order[i-1]) <= MethodBase(order[i]) {
			t.Errorf("MethodBase(%v) should exceed MethodBase(%v)", order[i-1], order[i])
		}
	}
}

func TestValidatePartialDescriptionLength(t *testing.T) {
	short := validatePartial(Partial{Description: "too short"})
	long := validatePartial(Partial{Description: strings.Repeat("specific requirement, ", 10)})

	if len(short) != 1 || short[0].Passed || short[0].Score != 0.5 {
		t.Errorf("short description validation = %+v", short)
	}
	if len(long) != 1 || !long[0].Passed || long[0].Score != 1.0 {
		t.Errorf("long description validation = %+v", long)
	}
}
