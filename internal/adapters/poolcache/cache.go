// Package poolcache caches role statistics keyed by player pool fingerprint.
package poolcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/playstyle/internal/domain/roles"
)

// Cache stores role statistics per pool fingerprint. Two pools with different
// membership never share an entry.
type Cache interface {
	// GetOrCompute returns the statistics of fingerprint fp, computing and
	// storing them on a miss. The second result reports a hit.
	GetOrCompute(ctx context.Context, fp uint64, compute func() *roles.Statistics) (*roles.Statistics, bool)

	// Invalidate drops fp.
	Invalidate(ctx context.Context, fp uint64)

	Size() int64
}

// Observer receives cache events.
type Observer interface {
	Hit()
	Miss()
	Entries(n int)
}

type nopObserver struct{}

func (nopObserver) Hit()        {}
func (nopObserver) Miss()       {}
func (nopObserver) Entries(int) {}

// node is one entry in the insertion-ordered list.
type node struct {
	fp    uint64
	stats *roles.Statistics
	next  *node
}

func (n *node) reset() {
	n.fp = 0
	n.stats = nil
	n.next = nil
}

// inMemoryCache keeps entries in a map plus a singly linked list with the
// newest entry at head; eviction removes the tail.
type inMemoryCache struct {
	mu       sync.Mutex
	entries  map[uint64]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
	observer Observer
}

// New creates an in-memory cache.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize:  16,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[uint64]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

// GetOrCompute holds the lock while computing so concurrent callers of the
// same pool compute once.
func (c *inMemoryCache) GetOrCompute(ctx context.Context, fp uint64, compute func() *roles.Statistics) (*roles.Statistics, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[fp]; ok {
		c.observer.Hit()
		return n.stats, true
	}
	c.observer.Miss()

	stats := compute()
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	n := c.nodePool.Get().(*node)
	n.fp, n.stats, n.next = fp, stats, c.head
	c.head = n
	c.entries[fp] = n
	c.size.Add(1)
	c.observer.Entries(len(c.entries))
	return stats, false
}

func (c *inMemoryCache) Invalidate(ctx context.Context, fp uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[fp]
	if !ok {
		return
	}
	delete(c.entries, fp)
	if c.head == n {
		c.head = n.next
	} else {
		cur := c.head
		for cur != nil && cur.next != n {
			cur = cur.next
		}
		if cur != nil {
			cur.next = n.next
		}
	}
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
	c.observer.Entries(len(c.entries))
}

// evictOldest removes the tail. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.entries, c.head.fp)
		c.head.reset()
		c.nodePool.Put(c.head)
		c.head = nil
		c.size.Add(-1)
		return
	}
	prev, cur := c.head, c.head.next
	for cur.next != nil {
		prev, cur = cur, cur.next
	}
	prev.next = nil
	delete(c.entries, cur.fp)
	cur.reset()
	c.nodePool.Put(cur)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
