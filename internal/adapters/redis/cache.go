// Package redis implements ports.Cache on top of a Redis server.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Cache = (*Cache)(nil)

// Cache stores entries as plain Redis strings with native expiry.
type Cache struct {
	client goredis.UniversalClient
}

// New connects lazily to the server described by cfg.
func New(cfg domain.RedisConfig) *Cache {
	return NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// NewWithClient wraps an existing client.
func NewWithClient(client goredis.UniversalClient) *Cache {
	return &Cache{client: client}
}

// Get returns the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "key", key)
	}
	return value, true, nil
}

// Set stores value under key. A ttl of zero or less stores without expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "key", key)
	}
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "key", key)
	}
	return nil
}

// Ping checks that the server is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheUnavailable.Error())
	}
	return nil
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
