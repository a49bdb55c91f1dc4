package strategy

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// Selectors maps a field to its candidate CSS selectors, tried in order.
// Platform profiles supply these; the strategy itself carries no
// platform knowledge.
type Selectors struct {
	Title       []string
	Company     []string
	Location    []string
	Description []string
	Salary      []string
}

// Selector extracts fields with goquery using profile-configured CSS paths.
type Selector struct {
	Sel Selectors
}

func (Selector) Name() string              { return "selector" }
func (Selector) Method() domain.CoreMethod { return domain.MethodSelectorBased }
func (Selector) Priority() int             { return 2 }

func (s Selector) Validate(p Partial) []domain.ValidationResult {
	return validatePartial(p)
}

func (s Selector) Extract(content, url string) Partial {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return Partial{}
	}

	p := Partial{
		Title:    firstText(doc, s.Sel.Title),
		Company:  firstText(doc, s.Sel.Company),
		Location: textutil.NormalizeLocation(firstText(doc, s.Sel.Location)),
		Salary:   firstText(doc, s.Sel.Salary),
	}

	// description keeps more of the node text, not just the first line
	for _, sel := range s.Sel.Description {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if t := textutil.CleanText(node.Text()); t != "" {
				p.Description = t
				break
			}
		}
	}

	if remote, known := textutil.InferRemoteFromText(p.Location, p.Title, p.Description); known {
		p.Remote = &remote
	}
	return p
}

func firstText(doc *goquery.Document, sels []string) string {
	for _, sel := range sels {
		if t := textutil.CleanText(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}
