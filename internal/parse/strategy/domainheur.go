package strategy

import (
	"net/url"
	"strings"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// DomainHeuristic derives fields from the URL alone: ATS slug conventions
// and host names. Lowest trust, a tie-breaker when the content gave nothing.
type DomainHeuristic struct{}

func (DomainHeuristic) Name() string              { return "domainheur" }
func (DomainHeuristic) Method() domain.CoreMethod { return domain.MethodDomainIntel }
func (DomainHeuristic) Priority() int             { return 4 }

func (d DomainHeuristic) Validate(p Partial) []domain.ValidationResult {
	return validatePartial(p)
}

func (d DomainHeuristic) Extract(content, rawURL string) Partial {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return Partial{}
	}
	host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))
	segs := pathSegments(u.Path)

	var p Partial

	// ATS URLs carry the company slug in a fixed position
	switch {
	case strings.HasSuffix(host, "greenhouse.io"):
		// boards.greenhouse.io/<slug>/jobs/<id>
		if len(segs) > 0 {
			p.Company = slugToName(segs[0])
		}
	case strings.HasSuffix(host, "lever.co"):
		// jobs.lever.co/<slug>/<uuid>
		if len(segs) > 0 {
			p.Company = slugToName(segs[0])
		}
	case strings.HasSuffix(host, "smartrecruiters.com"):
		// jobs.smartrecruiters.com/<Company>/<id>-<title-slug>
		if len(segs) > 0 {
			p.Company = slugToName(segs[0])
		}
		if len(segs) > 1 {
			p.Title = titleFromJobSlug(segs[1])
		}
	case strings.Contains(host, "myworkdayjobs.com"):
		// <tenant>.<dc>.myworkdayjobs.com/<site>/job/<loc>/<title-slug>_<req>
		if i := strings.Index(host, "."); i > 0 {
			p.Company = slugToName(host[:i])
		}
		for j, s := range segs {
			if s == "job" && j+2 < len(segs) {
				p.Location = textutil.NormalizeLocation(slugToName(segs[j+1]))
				p.Title = titleFromJobSlug(segs[j+2])
				break
			}
		}
	default:
		// careers.acme.com or acme.com/careers: company from the apex label
		labels := strings.Split(host, ".")
		if len(labels) >= 2 {
			p.Company = slugToName(labels[len(labels)-2])
		}
	}

	if remote, known := textutil.InferRemoteFromText(rawURL); known {
		p.Remote = &remote
	}
	return p
}

func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// slugToName turns "acme-corp" / "acmecorp" into a display-cased name.
func slugToName(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// titleFromJobSlug recovers "Senior Backend Engineer" from
// "Senior-Backend-Engineer_R12345" style path segments.
func titleFromJobSlug(seg string) string {
	if i := strings.LastIndex(seg, "_"); i > 0 {
		seg = seg[:i]
	}
	// strip a leading numeric id ("744000-senior-engineer")
	parts := strings.SplitN(seg, "-", 2)
	if len(parts) == 2 && isDigits(parts[0]) {
		seg = parts[1]
	}
	name := slugToName(seg)
	if len(name) < 3 || isDigits(name) {
		return ""
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
