package parse

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcerptLimit is the hard cap on verification input. Roughly 40 KB:
// enough for any real posting body, small enough for a local model context.
const DefaultExcerptLimit = 40 * 1024

// BuildExcerpt carves the densest relevant subtree out of the page for the
// validator: preferred selectors from the detected source first, then the
// generically content-bearing containers, then the whole body. Scripts,
// styles and templates are stripped; the result is plain text, capped.
func BuildExcerpt(content string, preferred []string, limit int) string {
	if limit <= 0 {
		limit = DefaultExcerptLimit
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return capRunes(strings.TrimSpace(content), limit)
	}
	doc.Find("script, style, noscript, template, iframe").Remove()

	candidates := append([]string{}, preferred...)
	candidates = append(candidates, "article", "main", "[role='main']", "#content", ".content")

	best := ""
	for _, sel := range candidates {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		text := squeeze(node.Text())
		if len(text) > len(best) {
			best = text
		}
		// a preferred selector with real content wins outright
		if len(best) >= 400 {
			break
		}
	}

	if best == "" {
		if body := doc.Find("body"); body.Length() > 0 {
			best = squeeze(body.Text())
		} else {
			best = squeeze(doc.Text())
		}
	}
	return capRunes(best, limit)
}

// squeeze collapses runs of blank lines and trailing space without flattening
// paragraph structure the way a full whitespace join would.
func squeeze(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

func capRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	// don't split a multibyte rune at the boundary
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
