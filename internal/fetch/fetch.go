// Package fetch obtains page content for the pipeline when the caller did
// not supply it. It is deliberately dumb: one bounded, rate-limited GET with
// a security check on the target. Retries belong to the caller.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

const (
	userAgent = "GhostJob/1.0 (+local)"
	maxBody   = 2 << 20 // 2 MB of markup is plenty for any posting
)

type Fetcher struct {
	HC      *http.Client
	Limiter *textutil.HostLimiter
}

func New(limiter *textutil.HostLimiter) *Fetcher {
	return &Fetcher{
		HC:      &http.Client{Timeout: 20 * time.Second},
		Limiter: limiter,
	}
}

// Fetch returns the page body for a validated URL. Errors carry the
// taxonomy kind so the caller can report without string-matching.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		return "", err
	}
	if f.Limiter != nil {
		if err := f.Limiter.WaitURL(ctx, rawURL); err != nil {
			return "", domain.Errf(domain.ErrNetwork, "limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", domain.Errf(domain.ErrNetwork, "build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.HC.Do(req)
	if err != nil {
		return "", domain.Errf(domain.ErrNetwork, "fetch: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", domain.Errf(domain.ErrRateLimit, "fetch status 429")
	case resp.StatusCode >= 400:
		return "", domain.Errf(domain.ErrNetwork, "fetch status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", domain.Errf(domain.ErrNetwork, "read body: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", domain.Errf(domain.ErrParsing, "empty body")
	}
	return string(b), nil
}

// ValidateURL rejects anything that isn't plain public http(s): other
// schemes, loopback, link-local, and private-range literals.
func ValidateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return domain.Errf(domain.ErrSecurity, "unparseable url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.Errf(domain.ErrSecurity, "scheme %q rejected", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return domain.Errf(domain.ErrSecurity, "empty host")
	}
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".local") {
		return domain.Errf(domain.ErrSecurity, "local host rejected")
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return domain.Errf(domain.ErrSecurity, "non-public address rejected")
		}
	}
	return nil
}
