package listcache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"careview/internal/platform/logger"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize bounds the number of cached pages when no size is configured
const DefaultSize = 512

// Entry is one cached page or the failure of its last fetch
type Entry struct {
	Key       string
	Value     any
	Err       error
	FetchedAt time.Time
}

// Failed reports whether the last fetch for the key failed
func (e Entry) Failed() bool { return e.Err != nil }

// Ticket is handed out before a fetch and redeemed when it completes
// A ticket from before an invalidation of its owner cannot write
type Ticket struct {
	key    string
	prefix string
	gen    uint64
}

// Key returns the rendered cache key the ticket writes to
func (t Ticket) Key() string { return t.key }

// Stats is a point in time view of cache counters
type Stats struct {
	Entries       int   `json:"entries"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Invalidations int64 `json:"invalidations"`
	Discarded     int64 `json:"discarded"`
}

// Option configures a Cache
type Option func(*Cache)

// WithTTL expires entries older than d on read. Zero keeps entries until invalidated or evicted
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

type hook struct {
	id uint64
	fn func(prefix string)
}

// Cache is a bounded LRU of list pages shared by every reader of a resource
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, Entry]
	// gens holds the invalidation epoch of recently invalidated owners
	// Owners without one are at floor, which moves up whenever an owner is
	// evicted so tickets that may have seen it can no longer write
	gens    *lru.Cache[string, uint64]
	epoch   uint64
	floor   uint64
	hooks   []hook
	hookSeq uint64

	ttl time.Duration
	now func() time.Time
	log logger.Logger

	hits          atomic.Int64
	misses        atomic.Int64
	invalidations atomic.Int64
	discarded     atomic.Int64
}

// New builds a cache holding at most size pages
func New(size int, opts ...Option) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	// lru.New only fails for non-positive sizes
	entries, _ := lru.New[string, Entry](size)
	c := &Cache{
		entries: entries,
		now:     time.Now,
		log:     *logger.Named("listcache"),
	}
	// evictions only happen inside Invalidate, which holds c.mu
	c.gens, _ = lru.NewWithEvict[string, uint64](size, func(string, uint64) {
		c.floor = c.epoch
	})
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the entry for k. Expired entries are dropped and reported as missing
func (c *Cache) Get(k Key) (Entry, bool) {
	ks := k.String()

	c.mu.Lock()
	e, ok := c.entries.Get(ks)
	if ok && c.ttl > 0 && c.now().Sub(e.FetchedAt) > c.ttl {
		c.entries.Remove(ks)
		ok = false
	}
	c.mu.Unlock()

	if ok && !e.Failed() {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return e, ok
}

// Reserve captures the owner generation for a fetch of k that is about to start
func (c *Cache) Reserve(k Key) Ticket {
	p := k.Prefix()
	c.mu.Lock()
	defer c.mu.Unlock()
	return Ticket{key: k.String(), prefix: p, gen: c.gen(p)}
}

// gen is the current epoch of prefix; c.mu must be held
func (c *Cache) gen(prefix string) uint64 {
	if g, ok := c.gens.Peek(prefix); ok {
		return g
	}
	return c.floor
}

// Put stores a fetched page. It returns false when the owner was invalidated
// after the ticket was reserved, in which case nothing is written
func (c *Cache) Put(t Ticket, v any) bool {
	return c.store(t, Entry{Key: t.key, Value: v})
}

// Fail records a failed fetch on the key without touching other keys
func (c *Cache) Fail(t Ticket, err error) bool {
	return c.store(t, Entry{Key: t.key, Err: err})
}

func (c *Cache) store(t Ticket, e Entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen(t.prefix) != t.gen {
		c.discarded.Add(1)
		return false
	}
	e.FetchedAt = c.now()
	c.entries.Add(t.key, e)
	return true
}

// Invalidate drops every entry under prefix and retires outstanding tickets for it
// Registered hooks run after the lock is released
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	n := 0
	for _, k := range c.entries.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.entries.Remove(k)
			n++
		}
	}
	c.epoch++
	c.gens.Add(prefix, c.epoch)
	hooks := append([]hook(nil), c.hooks...)
	c.mu.Unlock()

	c.invalidations.Add(1)
	for _, h := range hooks {
		h.fn(prefix)
	}
	c.log.Debug().Str("prefix", prefix).Int("removed", n).Msg("list cache invalidated")
	return n
}

// OnInvalidate registers fn to run after every invalidation, in registration
// order. The returned func removes it
func (c *Cache) OnInvalidate(fn func(prefix string)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	c.hookSeq++
	id := c.hookSeq
	c.hooks = append(c.hooks, hook{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, h := range c.hooks {
			if h.id == id {
				c.hooks = append(c.hooks[:i:i], c.hooks[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of cached entries, failed ones included
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns the current counters
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:       c.Len(),
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
		Discarded:     c.discarded.Load(),
	}
}
