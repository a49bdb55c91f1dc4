package parse

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildExcerptPrefersSelectors(t *testing.T) {
	body := strings.Repeat("the actual job description with responsibilities and requirements. ", 10)
	html := `<html><body>
<nav>Home About Careers Contact</nav>
<div id="jobDescriptionText">` + body + `</div>
<footer>legal links</footer>
</body></html>`

	got := BuildExcerpt(html, []string{"#jobDescriptionText"}, 0)
	if !strings.Contains(got, "actual job description") {
		t.Errorf("excerpt missed the preferred node: %q", got)
	}
	if strings.Contains(got, "legal links") {
		t.Error("excerpt leaked footer content despite a dense preferred node")
	}
}

func TestBuildExcerptStripsScripts(t *testing.T) {
	html := `<html><body><script>window.secret = 1;</script><main>role details here</main></body></html>`
	got := BuildExcerpt(html, nil, 0)
	if strings.Contains(got, "window.secret") {
		t.Errorf("script content leaked: %q", got)
	}
	if !strings.Contains(got, "role details here") {
		t.Errorf("main content missing: %q", got)
	}
}

func TestBuildExcerptCaps(t *testing.T) {
	long := strings.Repeat("a", 1000)
	got := BuildExcerpt(long, nil, 100)
	if len(got) > 100 {
		t.Errorf("excerpt length %d exceeds cap", len(got))
	}
}

func TestCapRunesBoundary(t *testing.T) {
	s := strings.Repeat("é", 100) // 2 bytes each
	got := capRunes(s, 101)
	if !utf8.ValidString(got) {
		t.Error("cap split a multibyte rune")
	}
	if len(got) > 101 {
		t.Errorf("length %d exceeds cap", len(got))
	}
}

func TestBuildExcerptPlainText(t *testing.T) {
	got := BuildExcerpt("just plain text content", nil, 0)
	if got == "" {
		t.Error("plain text input yielded nothing")
	}
}
