package cache

import (
	"context"
	"time"
)

// Tiered reads through a local L1 and an optional shared L2.
// L2 hits are promoted to L1; writes go to both.
type Tiered struct {
	l1 CacheService
	l2 CacheService
}

// NewTiered combines l1 with l2. l2 may be nil.
func NewTiered(l1, l2 CacheService) *Tiered {
	return &Tiered{l1: l1, l2: l2}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := t.l1.Get(ctx, key); ok {
		return value, true
	}
	if t.l2 == nil {
		return nil, false
	}
	value, ok := t.l2.Get(ctx, key)
	if ok {
		_ = t.l1.Set(ctx, key, value, 0)
	}
	return value, ok
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := t.l1.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if t.l2 != nil {
		return t.l2.Set(ctx, key, value, ttl)
	}
	return nil
}

func (t *Tiered) Invalidate(ctx context.Context, pattern string) error {
	if err := t.l1.Invalidate(ctx, pattern); err != nil {
		return err
	}
	if t.l2 != nil {
		return t.l2.Invalidate(ctx, pattern)
	}
	return nil
}

var _ CacheService = (*Tiered)(nil)
