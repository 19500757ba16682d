package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// LRUCache is a bounded cache that evicts the least recently used entry and honours per-entry TTL.
type LRUCache struct {
	capacity   int
	defaultTTL time.Duration

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recent
}

type lruEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewLRUCache creates an LRU cache. Non-positive arguments fall back to 1000 entries / 5 minutes.
func NewLRUCache(capacity int, defaultTTL time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &LRUCache{
		capacity:   capacity,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*lruEntry)
	if time.Now().After(e.expiresAt) {
		c.removeElement(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

func (c *LRUCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiresAt := time.Now().Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*lruEntry)
		e.value, e.expiresAt = value, expiresAt
		c.order.MoveToFront(el)
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
	c.entries[key] = c.order.PushFront(&lruEntry{key: key, value: value, expiresAt: expiresAt})
}

// Invalidate removes key, or every key with the given prefix when pattern ends in *.
// It returns the number of removed entries.
func (c *LRUCache) Invalidate(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix, wildcard := strings.CutSuffix(pattern, "*")
	if !wildcard {
		if el, ok := c.entries[pattern]; ok {
			c.removeElement(el)
			return 1
		}
		return 0
	}

	removed := 0
	for key, el := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.removeElement(el)
			removed++
		}
	}
	return removed
}

// CleanupExpired drops expired entries and returns how many were removed.
func (c *LRUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*lruEntry).expiresAt) {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// caller holds mu.
func (c *LRUCache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*lruEntry).key)
}
