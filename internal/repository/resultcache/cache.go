// Package resultcache keeps finished search results in memory, keyed by
// normalized query text, bounded by entry count and age.
package resultcache

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/kailas-cloud/hadithsearch/internal/domain/search/hit"
)

// Defaults match a one-day cache of ten thousand queries.
const (
	DefaultMaxSize = 10000
	DefaultTTL     = 24 * time.Hour
)

// Lookup outcomes reported to the Recorder.
const (
	LookupHit     = "hit"
	LookupMiss    = "miss"
	LookupExpired = "expired"
)

// Recorder receives cache events. metrics.ResultCache satisfies it.
type Recorder interface {
	Lookup(result string)
	Evicted()
	Size(n int)
}

// Stats is a point-in-time snapshot of cache accounting.
type Stats struct {
	Size    int
	MaxSize int
	Hits    int64
	Misses  int64
	HitRate float64
}

type entry struct {
	payload   []hit.Reranked
	createdAt time.Time
}

// Cache is a TTL and capacity bounded result store.
//
// Entries are evicted by creation time, not by access: lookups use Peek so
// they never touch recency, and Set re-adds the key, which moves it to the
// newest position. The list order therefore always equals createdAt order.
type Cache struct {
	mu      sync.Mutex
	entries *simplelru.LRU[string, entry]
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64

	now func() time.Time
	rec Recorder
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithRecorder reports lookups, evictions and size to rec.
func WithRecorder(rec Recorder) Option {
	return func(c *Cache) { c.rec = rec }
}

// New creates a cache holding at most maxSize entries for at most ttl each.
func New(maxSize int, ttl time.Duration, opts ...Option) (*Cache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("result cache: ttl must be positive, got %s", ttl)
	}
	lru, err := simplelru.NewLRU[string, entry](maxSize, nil)
	if err != nil {
		return nil, fmt.Errorf("result cache: %w", err)
	}
	c := &Cache{
		entries: lru,
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		rec:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns a copy of the payload cached for query. An expired entry is
// removed and counts as a miss.
func (c *Cache) Get(query string) ([]hit.Reranked, bool) {
	key := NormalizeKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Peek(key)
	if !ok {
		c.misses++
		c.rec.Lookup(LookupMiss)
		return nil, false
	}
	if c.now().Sub(e.createdAt) > c.ttl {
		c.entries.Remove(key)
		c.misses++
		c.rec.Lookup(LookupExpired)
		c.rec.Size(c.entries.Len())
		return nil, false
	}

	c.hits++
	c.rec.Lookup(LookupHit)
	return hit.CloneReranked(e.payload), true
}

// Set stores a copy of payload under query. A new key at capacity evicts the
// entry with the oldest creation time; an existing key is overwritten and its
// creation time refreshed.
func (c *Cache) Set(query string, payload []hit.Reranked) {
	key := NormalizeKey(query)
	e := entry{payload: hit.CloneReranked(payload), createdAt: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if evicted := c.entries.Add(key, e); evicted {
		c.rec.Evicted()
	}
	c.rec.Size(c.entries.Len())
}

// Clear drops every entry and resets hit/miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Purge()
	c.hits = 0
	c.misses = 0
	c.rec.Size(0)
}

// Stats returns size, capacity and hit accounting. HitRate is 0 before any lookup.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rate float64
	if total := c.hits + c.misses; total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:    c.entries.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}

// NormalizeKey lowercases query, drops every rune that is neither a word
// character (letter, number, underscore) nor whitespace, and collapses
// whitespace runs into single spaces.
func NormalizeKey(query string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_', unicode.IsSpace(r):
			return r
		}
		return -1
	}, strings.ToLower(query))
	return strings.Join(strings.Fields(cleaned), " ")
}

type nopRecorder struct{}

func (nopRecorder) Lookup(string) {}
func (nopRecorder) Evicted()      {}
func (nopRecorder) Size(int)      {}
