package insights

import (
	"sync"
	"time"
)

// Kind names one independently cached insight family.
type Kind string

const (
	KindCategories Kind = "categories"
	KindLocations  Kind = "locations"
	KindDateRanges Kind = "date_ranges"
	KindPopular    Kind = "popular_events"
	KindStatistics Kind = "statistics"
)

// Kinds lists every insight family in presentation order.
func Kinds() []Kind {
	return []Kind{KindCategories, KindLocations, KindDateRanges, KindPopular, KindStatistics}
}

// DefaultTTL is how long an insight stays servable.
const DefaultTTL = 5 * time.Minute

// Insight is one cached aggregate. Payload carries the structured data,
// Summary the one-line rendering used in prompt context.
type Insight struct {
	Kind      Kind
	Payload   any
	Summary   string
	CreatedAt time.Time
}

type entry struct {
	insight Insight
	stored  time.Time
}

// Cache is a TTL cache of aggregate dataset insights shared across
// concurrent turns. Writers publish whole new entries; readers never observe
// a partially updated one. Expired entries are excluded from reads and
// evicted lazily.
type Cache struct {
	mu      sync.RWMutex
	entries map[Kind]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[Kind]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewCacheWithClock injects a clock for expiry tests.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := NewCache(ttl)
	if now != nil {
		c.now = now
	}
	return c
}

// Get returns the live insight for kind, or false when absent or expired.
func (c *Cache) Get(kind Kind) (Insight, bool) {
	c.mu.RLock()
	e, ok := c.entries[kind]
	fresh := ok && c.now().Sub(e.stored) <= c.ttl
	c.mu.RUnlock()

	if !ok {
		return Insight{}, false
	}
	if !fresh {
		c.evict(kind, e.stored)
		return Insight{}, false
	}
	return e.insight, true
}

// Set publishes a new entry for kind, superseding any previous one.
func (c *Cache) Set(kind Kind, insight Insight) {
	insight.Kind = kind
	now := c.now()
	if insight.CreatedAt.IsZero() {
		insight.CreatedAt = now
	}
	c.mu.Lock()
	c.entries[kind] = entry{insight: insight, stored: now}
	c.mu.Unlock()
}

// GetAll returns every live insight keyed by kind. Kinds that are missing or
// expired are simply absent; staleness in one kind never hides the others.
func (c *Cache) GetAll() map[Kind]Insight {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[Kind]Insight, len(c.entries))
	now := c.now()
	for kind, e := range c.entries {
		if now.Sub(e.stored) <= c.ttl {
			out[kind] = e.insight
		}
	}
	return out
}

// Clear drops everything, forcing regeneration on next use.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Kind]entry)
	c.mu.Unlock()
}

// evict removes kind only if the entry is still the one observed as expired;
// a concurrent Set wins.
func (c *Cache) evict(kind Kind, stored time.Time) {
	c.mu.Lock()
	if e, ok := c.entries[kind]; ok && e.stored.Equal(stored) {
		delete(c.entries, kind)
	}
	c.mu.Unlock()
}
