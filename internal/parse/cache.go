package parse

import (
	"sync"
	"time"

	"ghostjob-engine/internal/domain"
)

// patternCache keeps the learning store's latest-view per source in memory
// for a short TTL so parallel jobs from one board don't hammer sqlite.
// Owned by a Coordinator instance; no package-level state.
type patternCache struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]patternEntry
	now func() time.Time // test hook
}

type patternEntry struct {
	patterns map[string]domain.LearningPattern
	at       time.Time
}

func newPatternCache(ttl time.Duration) *patternCache {
	return &patternCache{
		ttl: ttl,
		m:   map[string]patternEntry{},
		now: time.Now,
	}
}

func (c *patternCache) get(source string) (map[string]domain.LearningPattern, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[source]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.at) > c.ttl {
		delete(c.m, source)
		return nil, false
	}
	return e.patterns, true
}

func (c *patternCache) put(source string, patterns map[string]domain.LearningPattern) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[source] = patternEntry{patterns: patterns, at: c.now()}
}

// invalidate drops a source after its patterns changed (real-time append).
func (c *patternCache) invalidate(source string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, source)
}
