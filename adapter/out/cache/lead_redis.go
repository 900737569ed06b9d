// Package cache provides the outbound cache adapters. RedisCache is the
// production implementation; MemoryCache backs local runs and tests when no
// Redis is configured.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/josemartinrodriguezmortaloni/LeadAdapter/core/port/out"
	"github.com/josemartinrodriguezmortaloni/LeadAdapter/pkg/logger"
)

// RedisConfig holds Redis connection pool settings.
type RedisConfig struct {
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns pool defaults sized for the generation workload.
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		PoolSize:     50,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// RedisCache implements out.Cache on top of a Redis client.
type RedisCache struct {
	client *redis.Client
}

var _ out.Cache = (*RedisCache)(nil)

// NewRedisCache connects to the Redis instance at redisURL and verifies the
// connection with a ping before returning.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	return NewRedisCacheWithConfig(redisURL, DefaultRedisConfig())
}

// NewRedisCacheWithConfig is NewRedisCache with explicit pool settings.
func NewRedisCacheWithConfig(redisURL string, cfg *RedisConfig) (*RedisCache, error) {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	opt.PoolSize = cfg.PoolSize
	opt.MinIdleConns = cfg.MinIdleConns
	opt.MaxRetries = cfg.MaxRetries
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.ReadTimeout
	opt.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]any{
		"addr":      opt.Addr,
		"db":        opt.DB,
		"pool_size": opt.PoolSize,
	}).Info("[RedisCache] Connected")

	return &RedisCache{client: client}, nil
}

// Get returns the value for key, or out.ErrCacheMiss when absent.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, out.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores value under key. A zero ttl stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key. Deleting a missing key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Exists reports whether key is present.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	return count > 0, err
}

// Client exposes the underlying Redis client for infrastructure that shares
// the connection pool, such as the distributed rate limiter.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
