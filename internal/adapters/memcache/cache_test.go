package memcache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knowgraph/internal/adapters/memcache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := memcache.New()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)

	require.NoError(t, c.Delete(ctx, "k"), "deleting a missing key is not an error")
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := memcache.New().WithClock(clock.Now)

	require.NoError(t, c.Set(ctx, "short", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("2"), 0))

	clock.Advance(59 * time.Second)
	_, ok, _ := c.Get(ctx, "short")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = c.Get(ctx, "short")
	assert.False(t, ok, "entry expires once its ttl has elapsed")
	assert.Equal(t, 1, c.Len())

	clock.Advance(24 * time.Hour)
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestCache_Prune(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	c := memcache.New().WithClock(clock.Now)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))

	clock.Advance(time.Minute)
	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 1, c.Len())
}

func TestCache_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	c := memcache.New()

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := memcache.New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i%5))
			_ = c.Set(ctx, key, []byte{byte(i)}, time.Minute)
			_, _, _ = c.Get(ctx, key)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}
