// Package cache selects and assembles the configured cache backend.
package cache

import (
	"context"
	"time"

	"go.trai.ch/knowgraph/internal/adapters/cas"
	"go.trai.ch/knowgraph/internal/adapters/memcache"
	"go.trai.ch/knowgraph/internal/adapters/redis"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports"
	"go.trai.ch/zerr"
)

const pingTimeout = 2 * time.Second

// New builds the backend named by cfg.Backend. An unreachable redis server is
// logged but not fatal: the breaker turns every call into a cache miss.
func New(ctx context.Context, cfg domain.CacheConfig, logger ports.Logger) (ports.Cache, error) {
	switch cfg.Backend {
	case domain.CacheMemory, "":
		return memcache.New(), nil
	case domain.CacheFile:
		return cas.NewStore(cfg.Dir), nil
	case domain.CacheRedis:
		r := redis.New(cfg.Redis)

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := r.Ping(pingCtx); err != nil {
			logger.Warn("redis cache at " + cfg.Redis.Addr + " is unreachable, continuing without it")
		}

		return NewBreaker(r, logger, DefaultBreakerSettings("redis")), nil
	default:
		return nil, zerr.With(domain.ErrUnknownCacheBackend, "backend", string(cfg.Backend))
	}
}
