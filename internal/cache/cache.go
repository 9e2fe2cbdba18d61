package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/raphi011/prj/internal/project"
)

const (
	// DefaultTTL is how long scan results stay live.
	DefaultTTL = 5 * time.Minute

	// DefaultMaxSize is the number of roots kept before eviction.
	DefaultMaxSize = 100
)

// entry is one cached scan result
type entry struct {
	root     string
	records  []project.Record
	storedAt time.Time
}

// Cache is a TTL-bounded, size-bounded store of scan results.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	// order holds *entry values, oldest write at the front
	order *list.List
	items map[string]*list.Element

	hits      uint64
	misses    uint64
	sets      uint64
	evictions uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the entry lifetime. A non-positive TTL disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithMaxSize sets the capacity. A non-positive size disables eviction.
func WithMaxSize(n int) Option {
	return func(c *Cache) { c.maxSize = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:     DefaultTTL,
		maxSize: DefaultMaxSize,
		now:     time.Now,
		order:   list.New(),
		items:   make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// expired reports whether e is past the TTL. Caller holds c.mu.
func (c *Cache) expired(e *entry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(e.storedAt) >= c.ttl
}

// removeElement drops el from both the list and the index. Caller holds c.mu.
func (c *Cache) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.items, e.root)
}

// Get returns the cached records for root if a live entry exists.
// Stale entries are deleted and reported as a miss.
func (c *Cache) Get(root string) ([]project.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[root]
	if !ok {
		c.misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if c.expired(e) {
		c.removeElement(el)
		c.misses++
		return nil, false
	}

	c.hits++
	return project.CloneAll(e.records), true
}

// Set stores records for root, replacing any previous entry and moving it to
// the newest position. A new root in a full cache evicts the oldest entry.
func (c *Cache) Set(root string, records []project.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := project.CloneAll(records)
	if stored == nil {
		stored = []project.Record{}
	}

	c.sets++

	if el, ok := c.items[root]; ok {
		e := el.Value.(*entry)
		e.records = stored
		e.storedAt = c.now()
		c.order.MoveToBack(el)
		return
	}

	if c.maxSize > 0 && c.order.Len() >= c.maxSize {
		if oldest := c.order.Front(); oldest != nil {
			c.removeElement(oldest)
			c.evictions++
		}
	}

	c.items[root] = c.order.PushBack(&entry{
		root:     root,
		records:  stored,
		storedAt: c.now(),
	})
}

// Has reports whether a live entry exists for root. Like Get it deletes a
// stale entry, but it does not touch the hit/miss counters.
func (c *Cache) Has(root string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[root]
	if !ok {
		return false
	}
	if c.expired(el.Value.(*entry)) {
		c.removeElement(el)
		return false
	}
	return true
}

// Invalidate removes the entry for root. Returns true if one existed.
func (c *Cache) Invalidate(root string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[root]
	if !ok {
		return false
	}
	c.removeElement(el)
	return true
}

// Clear removes every entry. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.items)
}

// Cleanup removes all expired entries and returns how many were dropped.
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if c.expired(el.Value.(*entry)) {
			c.removeElement(el)
			removed++
		}
		el = next
	}
	return removed
}

// Paths returns the cached root paths, oldest write first.
// Entries are not checked for staleness.
func (c *Cache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	paths := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		paths = append(paths, el.Value.(*entry).root)
	}
	return paths
}

// Len returns the number of stored entries, live or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
