package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the cache settings.
type Config struct {
	// DefaultTTL is used by Set. Zero disables expiry.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired items are swept. Zero disables the sweeper.
	CleanupInterval time.Duration
	// MaxItems caps the number of entries. Zero means unbounded.
	MaxItems int
	// OnEviction is called for every entry removed by expiry, eviction or Delete.
	OnEviction func(key string, value any)
}

type item struct {
	value      any
	expiration int64
}

func (i item) expired(now int64) bool {
	return i.expiration > 0 && now > i.expiration
}

// Cache is a thread-safe in-memory key/value cache with per-entry TTL.
type Cache struct {
	config    Config
	data      sync.Map
	itemCount atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache and starts its cleanup goroutine when configured.
func New(config Config) *Cache {
	c := &Cache{
		config: config,
		stop:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go c.cleanupLoop()
	}
	return c
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}

	if _, loaded := c.data.Swap(key, item{value: value, expiration: expiration}); !loaded {
		if c.itemCount.Add(1) > int64(c.config.MaxItems) && c.config.MaxItems > 0 {
			c.evictOne(key)
		}
	}
}

// Get returns the cached value if present and not expired.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	raw, ok := c.data.Load(key)
	if !ok {
		return nil, false
	}
	it := raw.(item)
	if it.expired(time.Now().UnixNano()) {
		c.remove(key)
		return nil, false
	}
	return it.value, true
}

// Delete removes key from the cache.
func (c *Cache) Delete(_ context.Context, key string) {
	c.remove(key)
}

// Clear removes every entry.
func (c *Cache) Clear(_ context.Context) {
	c.data.Range(func(key, _ any) bool {
		c.remove(key.(string))
		return true
	})
}

// Size returns the number of stored entries, including ones not yet swept.
func (c *Cache) Size() int64 {
	return c.itemCount.Load()
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *Cache) remove(key string) {
	raw, loaded := c.data.LoadAndDelete(key)
	if !loaded {
		return
	}
	c.itemCount.Add(-1)
	if c.config.OnEviction != nil {
		c.config.OnEviction(key, raw.(item).value)
	}
}

// evictOne drops an expired entry if one exists, otherwise the one closest to expiry.
// keep is never chosen.
func (c *Cache) evictOne(keep string) {
	now := time.Now().UnixNano()
	var victim string
	var victimExp int64 = -1
	c.data.Range(func(k, v any) bool {
		key := k.(string)
		if key == keep {
			return true
		}
		it := v.(item)
		if it.expired(now) {
			victim = key
			return false
		}
		if victimExp == -1 || (it.expiration > 0 && (victimExp == 0 || it.expiration < victimExp)) {
			victim, victimExp = key, it.expiration
		}
		return true
	})
	if victim != "" {
		c.remove(victim)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.deleteExpired()
		}
	}
}

func (c *Cache) deleteExpired() {
	now := time.Now().UnixNano()
	c.data.Range(func(k, v any) bool {
		if v.(item).expired(now) {
			c.remove(k.(string))
		}
		return true
	})
}
