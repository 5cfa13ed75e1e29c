// Package cache provides a TTL-bounded query cache for compiled
// statements and other per-key artifacts. Each cache instance is
// independent; nothing is shared across instances.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Entry is what the cache stores per key. Compiled SQL plus its bound
// parameter count is the common case, but the cache is content-agnostic.
type Entry struct {
	val any
	err error
	// ready is closed when the compute for this entry finished. Waiters
	// block on it without holding the cache lock.
	ready chan struct{}
	// insertedAt orders entries for oldest-first eviction and TTL.
	insertedAt time.Time
	elem       *list.Element
}

// QueryCache maps keys to computed artifacts with TTL expiry and a hard
// entry cap. When the cap is reached the oldest entry is evicted first.
type QueryCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]*Entry
	// order holds keys oldest first.
	order *list.List
	now   func() time.Time
}

// New creates a cache. maxEntries must be positive; ttl zero or negative
// disables expiry.
func New(ttl time.Duration, maxEntries int) *QueryCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &QueryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*Entry),
		order:      list.New(),
		now:        time.Now,
	}
}

// GetOrCompute returns the cached value for key, computing it with fn on
// a miss. Within one TTL window fn runs at most once per key, even under
// concurrent callers: losers of the insert race wait for the winner's
// result. A compute error is cached like a value for the rest of the
// window, so a failing fn is not hammered.
func (c *QueryCache) GetOrCompute(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !c.expired(e) {
		c.mu.Unlock()
		<-e.ready
		return e.val, e.err
	}

	e := &Entry{ready: make(chan struct{}), insertedAt: c.now()}
	c.insert(key, e)
	c.mu.Unlock()

	e.val, e.err = fn()
	close(e.ready)
	return e.val, e.err
}

// Get returns the cached value for key if present, unexpired, and its
// compute already finished.
func (c *QueryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || c.expired(e) {
		c.mu.Unlock()
		return nil, false
	}
	c.mu.Unlock()
	select {
	case <-e.ready:
		if e.err != nil {
			return nil, false
		}
		return e.val, true
	default:
		return nil, false
	}
}

// Put stores a ready value, replacing any existing entry for key.
func (c *QueryCache) Put(key string, val any) {
	e := &Entry{val: val, ready: make(chan struct{}), insertedAt: c.now()}
	close(e.ready)
	c.mu.Lock()
	c.insert(key, e)
	c.mu.Unlock()
}

// Invalidate drops an entry. In-flight waiters on the dropped entry
// still receive its result.
func (c *QueryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.order.Remove(e.elem)
		delete(c.entries, key)
	}
}

// Len reports the number of live entries, expired ones excluded.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if !c.expired(e) {
			n++
		}
	}
	return n
}

// insert adds or replaces an entry, evicting oldest-first when the cap
// would be exceeded. Caller holds the lock.
func (c *QueryCache) insert(key string, e *Entry) {
	if old, ok := c.entries[key]; ok {
		c.order.Remove(old.elem)
		delete(c.entries, key)
	}
	for len(c.entries) >= c.maxEntries {
		oldest := c.order.Front()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(string))
	}
	e.elem = c.order.PushBack(key)
	c.entries[key] = e
}

func (c *QueryCache) expired(e *Entry) bool {
	return c.ttl > 0 && c.now().Sub(e.insertedAt) >= c.ttl
}
