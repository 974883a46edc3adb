package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knowgraph/internal/adapters/cache"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/knowgraph/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func testSettings() cache.BreakerSettings {
	s := cache.DefaultBreakerSettings("test")
	s.Timeout = time.Hour
	return s
}

func TestBreaker_PassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockCache(ctrl)
	log := mocks.NewMockLogger(ctrl)
	ctx := context.Background()

	inner.EXPECT().Get(ctx, "k").Return([]byte("v"), true, nil)
	inner.EXPECT().Set(ctx, "k", []byte("v"), time.Minute).Return(nil)
	inner.EXPECT().Delete(ctx, "k").Return(nil)

	b := cache.NewBreaker(inner, log, testSettings())

	got, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, b.Delete(ctx, "k"))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockCache(ctrl)
	log := mocks.NewMockLogger(ctrl)
	ctx := context.Background()

	down := errors.New("connection refused")
	inner.EXPECT().Get(ctx, "k").Return(nil, false, down).Times(3)
	log.EXPECT().Warn("cache breaker test: closed -> open")

	b := cache.NewBreaker(inner, log, testSettings())

	for range 3 {
		_, _, err := b.Get(ctx, "k")
		require.ErrorIs(t, err, down)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	// The inner cache is no longer consulted.
	_, ok, err := b.Get(ctx, "k")
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCacheUnavailable.Error())

	err = b.Set(ctx, "k", []byte("v"), time.Minute)
	assert.ErrorContains(t, err, domain.ErrCacheUnavailable.Error())
}

func TestBreaker_MissIsNotFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockCache(ctrl)
	log := mocks.NewMockLogger(ctrl)
	ctx := context.Background()

	inner.EXPECT().Get(ctx, "k").Return(nil, false, nil).Times(5)

	b := cache.NewBreaker(inner, log, testSettings())
	for range 5 {
		_, ok, err := b.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
