package cache

import (
	"context"
	"sync"
	"time"
)

// ServiceConfig configures the in-process cache service.
type ServiceConfig struct {
	Capacity        int           // default 1000
	DefaultTTL      time.Duration // default 5 minutes
	CleanupInterval time.Duration // default 1 minute
}

// DefaultServiceConfig returns the defaults used for generated content.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Capacity:        1000,
		DefaultTTL:      30 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// Service is a CacheService backed by an LRUCache with a background sweeper.
type Service struct {
	lru *LRUCache

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates the service and starts its cleanup goroutine. Call Close to stop it.
func NewService(cfg ServiceConfig) *Service {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		lru:    NewLRUCache(cfg.Capacity, cfg.DefaultTTL),
		cancel: cancel,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.lru.CleanupExpired()
			}
		}
	}()
	return s
}

func (s *Service) Get(_ context.Context, key string) ([]byte, bool) {
	return s.lru.Get(key)
}

func (s *Service) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lru.Set(key, value, ttl)
	return nil
}

func (s *Service) Invalidate(_ context.Context, pattern string) error {
	s.lru.Invalidate(pattern)
	return nil
}

func (s *Service) Size() int {
	return s.lru.Size()
}

// Close stops the sweeper and waits for it to exit.
func (s *Service) Close() error {
	s.cancel()
	s.wg.Wait()
	return nil
}

var _ CacheService = (*Service)(nil)
