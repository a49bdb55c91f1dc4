package parse

import (
	"testing"
	"time"

	"ghostjob-engine/internal/domain"
)

func TestPatternCacheTTL(t *testing.T) {
	now := time.Now()
	c := newPatternCache(30 * time.Second)
	c.now = func() time.Time { return now }

	patterns := map[string]domain.LearningPattern{
		"title": {Field: "title", CorrectValue: "Fixed"},
	}
	c.put("linkedin.com", patterns)

	if got, ok := c.get("linkedin.com"); !ok || got["title"].CorrectValue != "Fixed" {
		t.Fatal("fresh entry not served")
	}

	now = now.Add(29 * time.Second)
	if _, ok := c.get("linkedin.com"); !ok {
		t.Error("entry evicted before TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.get("linkedin.com"); ok {
		t.Error("entry served past TTL")
	}
}

func TestPatternCacheInvalidate(t *testing.T) {
	c := newPatternCache(time.Minute)
	c.put("x.com", map[string]domain.LearningPattern{})
	c.invalidate("x.com")
	if _, ok := c.get("x.com"); ok {
		t.Error("invalidated entry still served")
	}
}

func TestPatternCacheMiss(t *testing.T) {
	c := newPatternCache(time.Minute)
	if _, ok := c.get("never-seen"); ok {
		t.Error("miss reported as hit")
	}
}
