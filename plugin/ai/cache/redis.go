package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	DefaultTTL   time.Duration
	PoolSize     int
	MinIdleConns int
}

// DefaultRedisConfig returns the default Redis configuration.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         "localhost:6379",
		KeyPrefix:    "studybuddy:",
		DefaultTTL:   30 * time.Minute,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// RedisService is a CacheService shared between server instances.
type RedisService struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
}

// NewRedisService connects to Redis and pings it.
func NewRedisService(ctx context.Context, config *RedisConfig) (*RedisService, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 30 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	slog.Info("redis cache connected", "addr", config.Addr)
	return &RedisService{
		client:     client,
		keyPrefix:  config.KeyPrefix,
		defaultTTL: config.DefaultTTL,
	}, nil
}

func (r *RedisService) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to get cache value", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

func (r *RedisService) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to set cache value %s", key)
	}
	return nil
}

func (r *RedisService) Invalidate(ctx context.Context, pattern string) error {
	if !strings.HasSuffix(pattern, "*") {
		return r.client.Del(ctx, r.keyPrefix+pattern).Err()
	}

	iter := r.client.Scan(ctx, 0, r.keyPrefix+pattern, 100).Iterator()
	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "failed to scan cache keys")
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *RedisService) Close() error {
	return r.client.Close()
}

var _ CacheService = (*RedisService)(nil)
