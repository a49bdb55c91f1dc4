package strategy

import (
	"strings"
	"testing"
)

func TestTextPatternPageTitle(t *testing.T) {
	html := `<html><head><title>Senior Backend Engineer at Acme | Careers</title></head>
<body><p>Join our team. Salary range $150,000 - $185,000 per year.</p>
<p>Location: Austin, TX</p></body></html>`

	p := TextPattern{}.Extract(html, "https://careers.acme.com/1")
	if p.Title != "Senior Backend Engineer" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Company != "Acme" {
		t.Errorf("Company = %q, site suffix should be stripped", p.Company)
	}
	if p.Location != "Austin, TX" {
		t.Errorf("Location = %q", p.Location)
	}
	if p.Salary == "" {
		t.Error("salary regex missed the range")
	}
}

func TestTextPatternHiringLine(t *testing.T) {
	p := TextPattern{}.Extract("Initech is hiring a Staff Platform Engineer\nCome build billing systems with us.", "https://example.com")
	if p.Company != "Initech" {
		t.Errorf("Company = %q", p.Company)
	}
	if p.Title != "Staff Platform Engineer" {
		t.Errorf("Title = %q", p.Title)
	}
}

func TestTextPatternRemoteDetection(t *testing.T) {
	p := TextPattern{}.Extract("<html><head><title>Engineer - Acme</title></head><body>This is a fully remote role.</body></html>", "https://example.com")
	if p.Remote == nil || !*p.Remote {
		t.Error("remote marker not detected")
	}
}

func TestSplitPageTitle(t *testing.T) {
	tests := []struct {
		in, title, company string
	}{
		{"Senior Engineer at Acme", "Senior Engineer", "Acme"},
		{"Senior Engineer - Acme | LinkedIn", "Senior Engineer", "Acme"},
		{"Senior Engineer | Acme", "Senior Engineer", "Acme"},
		{"Just A Title", "Just A Title", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		title, company := splitPageTitle(tt.in)
		if title != tt.title || company != tt.company {
			t.Errorf("splitPageTitle(%q) = (%q,%q), want (%q,%q)", tt.in, title, company, tt.title, tt.company)
		}
	}
}

func TestVisibleTextStripsScripts(t *testing.T) {
	html := `<html><body><script>var x = "hidden";</script><style>.a{}</style><p>visible text</p></body></html>`
	got := visibleText(html)
	if got == "" || strings.Contains(got, "hidden") || strings.Contains(got, ".a{}") {
		t.Errorf("visibleText = %q", got)
	}
	if !strings.Contains(got, "visible text") {
		t.Errorf("visibleText lost the body text: %q", got)
	}
}
