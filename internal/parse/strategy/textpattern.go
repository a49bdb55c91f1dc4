package strategy

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

var (
	// "$120k", "$80,000-$115,000", "$50/hr" and ranges thereof
	salaryRe = regexp.MustCompile(`(?i)\$\s*[\d,]+(?:\.\d+)?(?:\s*[kK])?\s*(?:[-–—]\s*\$?\s*[\d,]+(?:\.\d+)?(?:\s*[kK])?)?(?:\s*(?:per\s+(?:year|annum|hour)|\/(?:yr|hr|hour|year)))?`)

	// "Senior Backend Engineer at Acme" in page titles
	titleAtCompanyRe = regexp.MustCompile(`^(.{3,120}?)\s+(?:at|@)\s+(.{2,80})$`)

	// "Company is hiring a Title" openings
	hiringRe = regexp.MustCompile(`(?i)^(.{2,80}?)\s+is\s+hiring\s+(?:an?\s+)?(.{3,120})$`)

	pageTitleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// extraPatterns lets a platform profile add its own regexes per field.
// Group 1 is the captured value.
type FieldPatterns map[string][]*regexp.Regexp

// TextPattern scans visible text and the <title> tag with regexes. Third
// trust tier; fills what metadata and selectors missed.
type TextPattern struct {
	Extra FieldPatterns
}

func (TextPattern) Name() string              { return "textpattern" }
func (TextPattern) Method() domain.CoreMethod { return domain.MethodTextPatterns }
func (TextPattern) Priority() int             { return 3 }

func (t TextPattern) Validate(p Partial) []domain.ValidationResult {
	return validatePartial(p)
}

func (t TextPattern) Extract(content, url string) Partial {
	var p Partial

	text := visibleText(content)
	pageTitle := ""
	if m := pageTitleRe.FindStringSubmatch(content); m != nil {
		pageTitle = textutil.CleanText(m[1])
	}

	// profile-specific patterns first: they know the page family
	for field, res := range t.Extra {
		for _, re := range res {
			if m := re.FindStringSubmatch(text); len(m) > 1 {
				setField(&p, field, textutil.CleanText(m[1]))
				break
			}
		}
	}

	if p.Title == "" || p.Company == "" {
		title, company := splitPageTitle(pageTitle)
		if p.Title == "" {
			p.Title = title
		}
		if p.Company == "" {
			p.Company = company
		}
	}
	if p.Title == "" || p.Company == "" {
		firstLine := text
		if i := strings.IndexByte(firstLine, '\n'); i > 0 {
			firstLine = firstLine[:i]
		}
		if m := hiringRe.FindStringSubmatch(textutil.CleanText(firstLine)); m != nil {
			if p.Company == "" {
				p.Company = textutil.CleanText(m[1])
			}
			if p.Title == "" {
				p.Title = textutil.CleanText(m[2])
			}
		}
	}

	if p.Location == "" {
		p.Location = textutil.NormalizeLocation(textutil.ExtractLocationFromLabeledText(text))
	}
	if p.Salary == "" {
		if m := salaryRe.FindString(text); m != "" {
			p.Salary = textutil.CleanText(m)
		}
	}
	if p.Description == "" && len(text) >= 140 {
		p.Description = truncate(text, 2000)
	}
	if remote, known := textutil.InferRemoteFromText(p.Location, p.Title, text); known {
		p.Remote = &remote
	}
	return p
}

// splitPageTitle decomposes "Title - Company | Site" page titles.
func splitPageTitle(t string) (title, company string) {
	if t == "" {
		return "", ""
	}
	if m := titleAtCompanyRe.FindStringSubmatch(t); m != nil {
		return textutil.CleanText(m[1]), textutil.CleanText(stripSiteSuffix(m[2]))
	}
	for _, sep := range []string{" | ", " – ", " — ", " - "} {
		if parts := strings.Split(t, sep); len(parts) >= 2 {
			return textutil.CleanText(parts[0]), textutil.CleanText(stripSiteSuffix(parts[1]))
		}
	}
	return textutil.CleanText(t), ""
}

func stripSiteSuffix(s string) string {
	for _, sep := range []string{" | ", " – ", " - "} {
		if i := strings.Index(s, sep); i > 0 {
			s = s[:i]
		}
	}
	return s
}

func setField(p *Partial, field, v string) {
	if v == "" {
		return
	}
	switch field {
	case "title":
		p.Title = v
	case "company":
		p.Company = v
	case "location":
		p.Location = textutil.NormalizeLocation(v)
	case "salary":
		p.Salary = v
	case "description":
		p.Description = v
	}
}

// visibleText renders the page body without scripts and styles. Falls back
// to the raw content when it is not parseable HTML (plain-text input is
// legal pipeline input).
func visibleText(content string) string {
	if !strings.Contains(content, "<") {
		return content
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	doc.Find("script, style, noscript").Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		return textutil.CleanText(doc.Text())
	}
	return strings.TrimSpace(body.Text())
}

func truncate(s string, n int) string {
	s = textutil.CleanText(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
