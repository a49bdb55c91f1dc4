package learn

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// ReDerive is the cheap real-time learning pass, run only after a quality
// gate failure. It re-reads the current (url, content) with blunt rules
// (page title splitting, first heading, labeled location lines) and emits a
// pattern for every field where the rules beat what the parser produced.
// No human round-trip, so resulting patterns carry the realtime author tag
// and earn the smaller confidence bump.
func ReDerive(rawURL, content string, current domain.ParsedJob) []domain.LearningPattern {
	title, company, location := rederiveFields(content)
	source := textutil.SourceKey(rawURL)

	var out []domain.LearningPattern
	add := func(field, orig, correct string) {
		correct = textutil.CleanText(correct)
		if correct == "" || domain.IsPlaceholder(correct) {
			return
		}
		if strings.EqualFold(correct, orig) {
			return
		}
		out = append(out, domain.LearningPattern{
			Source:        source,
			Field:         field,
			OriginalValue: orig,
			CorrectValue:  correct,
			ParserUsed:    current.Metadata["parser"],
			ParserVersion: current.Metadata["parser_version"],
			Reason:        "quality gate failure, rule re-derivation",
			CorrectedBy:   domain.RealTimeLearner,
		})
	}

	if domain.IsPlaceholder(current.Title) || textutil.LooksLikeJunkTitle(current.Title) {
		add("title", current.Title, title)
	}
	if domain.IsPlaceholder(current.Company) {
		add("company", current.Company, company)
	}
	if current.Location == nil && location != "" {
		add("location", "", location)
	}
	return out
}

// rederiveFields applies the rule chain directly to the markup.
func rederiveFields(content string) (title, company, location string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", "", ""
	}

	// og tags are the most reliable late fallback
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		title, company = splitTitleCompany(textutil.CleanText(v))
	}
	if company == "" {
		if v, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
			company = textutil.CleanText(v)
		}
	}

	if title == "" {
		if t := textutil.CleanText(doc.Find("h1").First().Text()); t != "" && !textutil.LooksLikeJunkTitle(t) {
			title = t
		}
	}
	if title == "" {
		pageTitle := textutil.CleanText(doc.Find("title").First().Text())
		t, c := splitTitleCompany(pageTitle)
		title = t
		if company == "" {
			company = c
		}
	}

	doc.Find("script, style").Remove()
	location = textutil.NormalizeLocation(
		textutil.ExtractLocationFromLabeledText(doc.Text()))
	return title, company, location
}

// splitTitleCompany decomposes "Title - Company | Site" strings.
func splitTitleCompany(t string) (string, string) {
	if t == "" {
		return "", ""
	}
	for _, sep := range []string{" | ", " – ", " — ", " - ", " at "} {
		if parts := strings.SplitN(t, sep, 2); len(parts) == 2 {
			left := textutil.CleanText(parts[0])
			right := textutil.CleanText(parts[1])
			// trim a second-level site suffix off the company half
			for _, s2 := range []string{" | ", " - "} {
				if i := strings.Index(right, s2); i > 0 {
					right = textutil.CleanText(right[:i])
				}
			}
			return left, right
		}
	}
	return textutil.CleanText(t), ""
}
