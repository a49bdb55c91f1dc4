// Package dedupe groups a newly parsed job with recent existing listings by
// exact normalized key or fuzzy fingerprint. Groups are surfaced for the
// caller to merge or flag; nothing is ever dropped here.
package dedupe

import (
	"strings"

	"github.com/agext/levenshtein"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// Listing is the minimal view of an already-stored job the detector needs.
type Listing struct {
	ID       string
	Title    string
	Company  string
	Location string
	URL      string
}

// DuplicateGroup is a set of job identifiers considered the same posting.
// MatchKind is "exact" or "fuzzy".
type DuplicateGroup struct {
	Key       string   `json:"key"`
	MatchKind string   `json:"matchKind"`
	JobIDs    []string `json:"jobIds"`
}

// titleSimilarityMin is the levenshtein similarity floor for two title
// families to count as one role.
const titleSimilarityMin = 0.85

type Detector struct {
	// Similarity floor override for tests; zero means titleSimilarityMin.
	MinSimilarity float64
}

// NormalizedKey is the exact-match fingerprint: lowercased title, company
// and location, whitespace collapsed, hashed.
func NormalizedKey(title, company, location string) string {
	parts := []string{
		strings.ToLower(textutil.CleanText(title)),
		strings.ToLower(textutil.CleanText(company)),
		strings.ToLower(textutil.CleanText(location)),
	}
	return textutil.HashString(strings.Join(parts, "|"))
}

// Group matches a new job against recent listings: exact normalized key
// first, then fuzzy (title-family, company, location). Returns at most one
// group per kind; an empty slice means the job looks novel.
func (d Detector) Group(job domain.ParsedJob, jobID string, recent []Listing) []DuplicateGroup {
	if domain.IsPlaceholder(job.Title) || domain.IsPlaceholder(job.Company) {
		// sentinel jobs have no usable fingerprint
		return nil
	}

	loc := ""
	if job.Location != nil {
		loc = *job.Location
	}
	key := NormalizedKey(job.Title, job.Company, loc)

	var exactIDs, fuzzyIDs []string
	for _, l := range recent {
		if l.ID == jobID {
			continue
		}
		if NormalizedKey(l.Title, l.Company, l.Location) == key {
			exactIDs = append(exactIDs, l.ID)
			continue
		}
		if d.fuzzyMatch(job.Title, job.Company, loc, l) {
			fuzzyIDs = append(fuzzyIDs, l.ID)
		}
	}

	var out []DuplicateGroup
	if len(exactIDs) > 0 {
		out = append(out, DuplicateGroup{
			Key:       key,
			MatchKind: "exact",
			JobIDs:    append([]string{jobID}, exactIDs...),
		})
	}
	if len(fuzzyIDs) > 0 {
		out = append(out, DuplicateGroup{
			Key:       key,
			MatchKind: "fuzzy",
			JobIDs:    append([]string{jobID}, fuzzyIDs...),
		})
	}
	return out
}

func (d Detector) fuzzyMatch(title, company, location string, l Listing) bool {
	if !strings.EqualFold(textutil.CleanText(company), textutil.CleanText(l.Company)) {
		return false
	}
	if !locationsCompatible(location, l.Location) {
		return false
	}

	min := d.MinSimilarity
	if min <= 0 {
		min = titleSimilarityMin
	}
	sim := levenshtein.Similarity(TitleFamily(title), TitleFamily(l.Title), nil)
	return sim >= min
}

// seniority and type qualifiers that vary between reposts of one role
var titleQualifiers = map[string]bool{
	"junior": true, "jr": true, "senior": true, "sr": true, "staff": true,
	"principal": true, "lead": true, "i": true, "ii": true, "iii": true, "iv": true,
	"contract": true, "contractor": true, "freelance": true, "intern": true,
	"remote": true, "hybrid": true, "onsite": true,
}

// TitleFamily canonicalizes a title for fuzzy comparison: lowercase, strip
// punctuation and seniority qualifiers, collapse whitespace.
func TitleFamily(title string) string {
	lower := strings.ToLower(textutil.CleanText(title))
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if titleQualifiers[f] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// locationsCompatible treats empty as wildcard: a repost often drops the
// office line.
func locationsCompatible(a, b string) bool {
	a = strings.ToLower(textutil.CleanText(a))
	b = strings.ToLower(textutil.CleanText(b))
	if a == "" || b == "" {
		return true
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
