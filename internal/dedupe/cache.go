// ABOUTME: Thread-safe TTL cache of recently processed webhook update IDs
// ABOUTME: Suppresses reprocessing under the transport's at-least-once redelivery

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

// entry stores the timestamp and list element for a cached update ID.
type entry struct {
	timestamp time.Time
	element   *list.Element
}

// Cache is a TTL-based, size-limited record of webhook update IDs that have
// already been processed. A doubly-linked list maintains insertion order for
// O(1) eviction when the cache reaches capacity.
type Cache struct {
	mu      sync.Mutex
	seen    map[int64]*entry
	order   *list.List // update IDs in insertion order, oldest at front
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// New creates a dedupe cache with the given TTL and maximum size. A
// background goroutine periodically drops expired entries.
func New(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		seen:    make(map[int64]*entry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Seen atomically checks whether the update ID was already processed within
// the TTL and marks it if not. Returns true for a duplicate delivery. The
// check and mark are a single critical section so concurrent redeliveries of
// the same update cannot both pass.
func (c *Cache) Seen(updateID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.seen[updateID]
	if ok && time.Since(e.timestamp) < c.ttl {
		return true
	}

	now := time.Now()
	if e != nil {
		// expired entry for the same ID: refresh in place
		e.timestamp = now
		c.order.MoveToBack(e.element)
		return false
	}

	if len(c.seen) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(updateID)
	c.seen[updateID] = &entry{timestamp: now, element: elem}
	return false
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	id, _ := front.Value.(int64)
	c.order.Remove(front)
	delete(c.seen, id)
}

// cleanup runs in a background goroutine, periodically removing expired
// entries so an idle cache does not hold memory for the full TTL horizon.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

func (c *Cache) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, e := range c.seen {
		if now.Sub(e.timestamp) > c.ttl {
			c.order.Remove(e.element)
			delete(c.seen, id)
		}
	}
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
