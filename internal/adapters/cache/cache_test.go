package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knowgraph/internal/adapters/cache"
	"go.trai.ch/knowgraph/internal/adapters/cas"
	"go.trai.ch/knowgraph/internal/adapters/memcache"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestNew_SelectsBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	ctx := context.Background()

	c, err := cache.New(ctx, domain.CacheConfig{Backend: domain.CacheMemory}, log)
	require.NoError(t, err)
	assert.IsType(t, &memcache.Cache{}, c)

	c, err = cache.New(ctx, domain.CacheConfig{}, log)
	require.NoError(t, err)
	assert.IsType(t, &memcache.Cache{}, c)

	c, err = cache.New(ctx, domain.CacheConfig{Backend: domain.CacheFile, Dir: t.TempDir()}, log)
	require.NoError(t, err)
	assert.IsType(t, &cas.Store{}, c)
}

func TestNew_RedisUnreachableIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn("redis cache at 127.0.0.1:1 is unreachable, continuing without it")

	cfg := domain.CacheConfig{
		Backend: domain.CacheRedis,
		Redis:   domain.RedisConfig{Addr: "127.0.0.1:1"},
	}

	c, err := cache.New(context.Background(), cfg, log)
	require.NoError(t, err)
	assert.IsType(t, &cache.Breaker{}, c)
}

func TestNew_UnknownBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	_, err := cache.New(context.Background(), domain.CacheConfig{Backend: "memcached"}, log)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnknownCacheBackend.Error())
}
