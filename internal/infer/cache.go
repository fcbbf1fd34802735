// Package infer orchestrates kind inference: the pattern matcher in
// front, a bounded LRU cache with filesystem-aware invalidation in the
// middle, and structural validation against the planning tree behind it.
package infer

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/groveplan/grove/internal/object"
)

const (
	// defaultTTL bounds the lifetime of entries when no probe is
	// configured (pure pattern-matching use, no filesystem attached).
	defaultTTL = 60 * time.Second

	// mtimeTolerance absorbs filesystem timestamp-resolution jitter
	// when comparing modification times.
	mtimeTolerance = time.Millisecond
)

// Probe reports the current modification time of the file backing an
// object ID. Any probe error marks the entry stale.
type Probe func(id string, kind object.Kind) (time.Time, error)

// Result is one cached inference outcome. Entries are owned by the
// cache; Get returns copies.
type Result struct {
	ID       string
	Kind     object.Kind
	Valid    bool
	ModTime  time.Time
	CachedAt time.Time
	Detail   string
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// Cache is a bounded, thread-safe LRU of inference results keyed by
// normalized object ID. One mutex guards the map, the recency list, and
// the counters as a single unit, so partial updates are never observable.
type Cache struct {
	mu      sync.Mutex
	max     int
	ttl     time.Duration
	probe   Probe
	entries map[string]*list.Element
	order   *list.List // front = most recently used

	hits      uint64
	misses    uint64
	evictions uint64
}

// CacheOption configures a Cache at construction.
type CacheOption func(*Cache)

// WithProbe attaches a filesystem probe. With a probe, staleness is
// decided by comparing modification times instead of wall-clock age.
func WithProbe(p Probe) CacheOption {
	return func(c *Cache) { c.probe = p }
}

// WithTTL overrides the wall-clock TTL used when no probe applies.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// NewCache creates a cache holding at most max entries.
func NewCache(max int, opts ...CacheOption) (*Cache, error) {
	if max <= 0 {
		return nil, object.Errorf(object.ErrInvalidConfig, "cache capacity must be positive, got %d", max)
	}
	c := &Cache{
		max:     max,
		ttl:     defaultTTL,
		entries: make(map[string]*list.Element, max),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// cacheKey normalizes an ID for use as a cache key. Only case and
// surrounding whitespace collapse; the kind prefix is part of the key,
// so P-alpha and E-alpha never share an entry.
func cacheKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Get returns the cached result for an ID. A hit re-checks staleness:
// stale entries are dropped and counted as a miss, fresh hits move to
// the most-recently-used position.
func (c *Cache) Get(id string) (Result, bool) {
	key := cacheKey(id)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return Result{}, false
	}

	entry := elem.Value.(*Result)
	if c.stale(entry) {
		c.order.Remove(elem)
		delete(c.entries, key)
		c.misses++
		return Result{}, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return *entry, true
}

// stale decides whether an entry no longer reflects on-disk state.
// Entries cached without a recorded mtime (pattern-only inference) fall
// back to the TTL even when a probe is configured.
func (c *Cache) stale(r *Result) bool {
	if c.probe == nil || r.ModTime.IsZero() {
		return time.Since(r.CachedAt) > c.ttl
	}
	current, err := c.probe(r.ID, r.Kind)
	if err != nil {
		return true
	}
	delta := current.Sub(r.ModTime)
	if delta < 0 {
		delta = -delta
	}
	return delta > mtimeTolerance
}

// Put inserts or replaces the result for an ID, evicting the least
// recently used entry when at capacity.
func (c *Cache) Put(id string, r Result) error {
	key := cacheKey(id)
	if key == "" {
		return object.Errorf(object.ErrInvalidArgument, "empty id")
	}
	if r.ID == "" {
		r.ID = id
	}
	r.CachedAt = time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value = &r
		c.order.MoveToFront(elem)
		return nil
	}

	if len(c.entries) >= c.max {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, cacheKey(oldest.Value.(*Result).ID))
			c.evictions++
		}
	}
	c.entries[key] = c.order.PushFront(&r)
	return nil
}

// Invalidate removes the entry for an ID. No-op on missing keys.
func (c *Cache) Invalidate(id string) {
	key := cacheKey(id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

// Clear drops every entry. Counters are preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element, c.max)
	c.order.Init()
}

// Stats returns a snapshot of size and counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:      len(c.entries),
		MaxSize:   c.max,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
