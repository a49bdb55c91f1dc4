package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// CanonicalizeURL lowercases scheme/host, drops fragments and tracking
// params, and renders the query deterministically so identical postings hash
// identically.
func CanonicalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" {
			q.Del(k)
		}
	}

	// keep only the job id param on linkedin
	if strings.Contains(u.Host, "linkedin.com") {
		keep := url.Values{}
		if v := q.Get("currentJobId"); v != "" {
			keep.Set("currentJobId", v)
		}
		q = keep
	}

	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SourceKey is the learning-store key for a URL: the bare host, or the raw
// string when it does not parse as a URL.
func SourceKey(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(strings.TrimPrefix(u.Host, "www."))
}

// DetectPlatform classifies a URL host into the known source families.
func DetectPlatform(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "other"
	}
	host := strings.ToLower(u.Host)
	path := strings.ToLower(u.Path)

	switch {
	case strings.Contains(host, "linkedin"):
		return "linkedin"
	case strings.Contains(host, "indeed"):
		return "indeed"
	case strings.Contains(host, "glassdoor"):
		return "glassdoor"
	case strings.Contains(host, "greenhouse.io"):
		return "greenhouse"
	case strings.Contains(host, "lever.co"):
		return "lever"
	case strings.Contains(host, "myworkdayjobs") || strings.Contains(host, "workday"):
		return "workday"
	case strings.Contains(host, "smartrecruiters"):
		return "smartrecruiters"
	case strings.HasPrefix(host, "careers.") || strings.HasPrefix(host, "jobs.") ||
		strings.Contains(path, "/careers") || strings.Contains(path, "/jobs"):
		return "company"
	default:
		return "other"
	}
}

func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
