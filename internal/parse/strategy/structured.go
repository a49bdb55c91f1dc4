package strategy

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// Structured reads schema.org JobPosting JSON-LD blocks and OpenGraph meta
// tags. Highest trust: publishers put their canonical values here.
type Structured struct{}

func (Structured) Name() string              { return "structured" }
func (Structured) Method() domain.CoreMethod { return domain.MethodStructuredData }
func (Structured) Priority() int             { return 1 }

func (s Structured) Validate(p Partial) []domain.ValidationResult {
	return validatePartial(p)
}

// jsonLDPosting is the loose shape of a schema.org JobPosting. Publishers
// are sloppy: hiringOrganization may be a string or an object, jobLocation a
// single object or a list.
type jsonLDPosting struct {
	Type               any             `json:"@type"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	DatePosted         string          `json:"datePosted"`
	JobLocationType    string          `json:"jobLocationType"`
	HiringOrganization json.RawMessage `json:"hiringOrganization"`
	JobLocation        json.RawMessage `json:"jobLocation"`
	BaseSalary         json.RawMessage `json:"baseSalary"`
	Graph              json.RawMessage `json:"@graph"`
}

func (s Structured) Extract(content, url string) Partial {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return Partial{}
	}

	var p Partial

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if posting, ok := findJobPosting([]byte(sel.Text())); ok {
			p = postingToPartial(posting)
			return false
		}
		return true
	})

	// OG/meta tags fill gaps the JSON-LD left
	if p.Title == "" {
		if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			p.Title = splitOffSiteSuffix(textutil.CleanText(v))
		}
	}
	if p.Company == "" {
		if v, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
			p.Company = textutil.CleanText(v)
		}
	}
	if p.Description == "" {
		if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && len(v) >= 140 {
			p.Description = textutil.CleanText(v)
		}
	}
	if p.Meta == nil && !p.Empty() {
		p.Meta = map[string]string{}
	}
	if !p.Empty() {
		p.Meta["structured_data_found"] = "true"
	}
	return p
}

// findJobPosting digs a JobPosting out of a JSON-LD block: top-level object,
// top-level array, or @graph member.
func findJobPosting(raw []byte) (jsonLDPosting, bool) {
	raw = []byte(strings.TrimSpace(string(raw)))
	if len(raw) == 0 {
		return jsonLDPosting{}, false
	}

	if raw[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return jsonLDPosting{}, false
		}
		for _, item := range list {
			if p, ok := findJobPosting(item); ok {
				return p, true
			}
		}
		return jsonLDPosting{}, false
	}

	var p jsonLDPosting
	if err := json.Unmarshal(raw, &p); err != nil {
		return jsonLDPosting{}, false
	}
	if isJobPostingType(p.Type) {
		return p, true
	}
	if len(p.Graph) > 0 {
		return findJobPosting(p.Graph)
	}
	return jsonLDPosting{}, false
}

func isJobPostingType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "JobPosting"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func postingToPartial(p jsonLDPosting) Partial {
	out := Partial{
		Title:       textutil.CleanText(p.Title),
		Description: textutil.CleanText(stripTags(p.Description)),
		Meta:        map[string]string{},
	}

	out.Company = textutil.CleanText(orgName(p.HiringOrganization))
	out.Location = textutil.NormalizeLocation(locationText(p.JobLocation))
	out.Salary = salaryText(p.BaseSalary)

	if strings.EqualFold(p.JobLocationType, "TELECOMMUTE") {
		r := true
		out.Remote = &r
	}
	if p.DatePosted != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, p.DatePosted); err == nil {
				out.PostedAt = &t
				break
			}
		}
	}
	return out
}

func orgName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}

type ldAddress struct {
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
		Country  string `json:"addressCountry"`
	} `json:"address"`
}

func locationText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var one ldAddress
	if err := json.Unmarshal(raw, &one); err == nil {
		if s := joinAddress(one); s != "" {
			return s
		}
	}
	var many []ldAddress
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return joinAddress(many[0])
	}
	return ""
}

func joinAddress(a ldAddress) string {
	var parts []string
	for _, p := range []string{a.Address.Locality, a.Address.Region, a.Address.Country} {
		if p = textutil.CleanText(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func salaryText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return textutil.CleanText(s)
	}
	var obj struct {
		Currency string `json:"currency"`
		Value    struct {
			Value    float64 `json:"value"`
			MinValue float64 `json:"minValue"`
			MaxValue float64 `json:"maxValue"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	v := obj.Value
	switch {
	case v.MinValue > 0 && v.MaxValue > 0:
		return trimFloat(v.MinValue) + "-" + trimFloat(v.MaxValue) + " " + obj.Currency
	case v.Value > 0:
		return trimFloat(v.Value) + " " + obj.Currency
	default:
		return ""
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// stripTags is a cheap tag remover for JSON-LD descriptions that embed HTML.
func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// splitOffSiteSuffix trims "Title - Company | Site" style og:title suffixes
// down to the leading title segment.
func splitOffSiteSuffix(t string) string {
	for _, sep := range []string{" | ", " – ", " - "} {
		if i := strings.Index(t, sep); i > 0 {
			return strings.TrimSpace(t[:i])
		}
	}
	return t
}
