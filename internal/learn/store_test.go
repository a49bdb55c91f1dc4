package learn

import (
	"context"
	"path/filepath"
	"testing"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatal(err)
	}
	return NewStore(db.Pool)
}

func TestAppendAndLatest(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Append(ctx, domain.LearningPattern{
		Source: "linkedin.com", Field: "title",
		OriginalValue: "Apply Now", CorrectValue: "Backend Engineer",
		CorrectedBy: "user",
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Latest(ctx, "linkedin.com")
	if err != nil {
		t.Fatal(err)
	}
	if got["title"].CorrectValue != "Backend Engineer" {
		t.Errorf("latest title = %+v", got["title"])
	}
}

func TestLatestWinsPerField(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, v := range []string{"First", "Second", "Third"} {
		if err := s.Append(ctx, domain.LearningPattern{
			Source: "linkedin.com", Field: "company",
			CorrectValue: v, CorrectedBy: "user",
		}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Latest(ctx, "linkedin.com")
	if err != nil {
		t.Fatal(err)
	}
	if got["company"].CorrectValue != "Third" {
		t.Errorf("latest company = %q, most recent row must win", got["company"].CorrectValue)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("count = %d, append must never overwrite", n)
	}
}

func TestLatestScopedBySource(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_ = s.Append(ctx, domain.LearningPattern{
		Source: "linkedin.com", Field: "title", CorrectValue: "A", CorrectedBy: "user",
	})

	got, err := s.Latest(ctx, "indeed.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("cross-source leak: %v", got)
	}
}

func TestAppendRejectsIncomplete(t *testing.T) {
	s := testStore(t)
	if err := s.Append(context.Background(), domain.LearningPattern{Field: "title"}); err == nil {
		t.Error("pattern without source accepted")
	}
	if err := s.Append(context.Background(), domain.LearningPattern{
		Source: "x.com", Field: "title", CorrectValue: "   ",
	}); err == nil {
		t.Error("blank correct value accepted")
	}
}

func TestRecordCorrectionSplitsFields(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	added, err := s.RecordCorrection(ctx, domain.Correction{
		SourceURL:       "https://www.linkedin.com/jobs/view/123",
		OriginalTitle:   "Apply",
		CorrectTitle:    "Staff Engineer",
		CorrectCompany:  "Initech",
		ParserUsed:      "linkedin",
		ParserVersion:   "2.2.0",
		Reason:          "title was navigation text",
		CorrectedBy:     "user",
	})
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Errorf("added = %d, want one pattern per corrected field", added)
	}

	got, err := s.Latest(ctx, "linkedin.com")
	if err != nil {
		t.Fatal(err)
	}
	if got["title"].CorrectValue != "Staff Engineer" || got["company"].CorrectValue != "Initech" {
		t.Errorf("latest = %v", got)
	}
	if got["title"].ParserUsed != "linkedin" {
		t.Errorf("provenance lost: %+v", got["title"])
	}
	if _, ok := got["location"]; ok {
		t.Error("empty location correction produced a pattern")
	}
}

func TestRecordCorrectionRequiresAuthor(t *testing.T) {
	s := testStore(t)
	_, err := s.RecordCorrection(context.Background(), domain.Correction{
		SourceURL:    "https://example.com/j",
		CorrectTitle: "X Engineer",
	})
	if err == nil {
		t.Error("correction without correctedBy accepted")
	}
}
