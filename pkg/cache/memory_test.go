package cache_test

import (
	"context"
	"testing"
	"time"

	"FinSignal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestMemoryCache_RoundTripAndExpiry(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0), cache.WithMemoryClock(clk.now))
	defer mc.Close()
	ctx := context.Background()

	type payload struct {
		Close []float64 `json:"close"`
	}
	require.NoError(t, mc.Set(ctx, "AAPL", payload{Close: []float64{1, 2}}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "AAPL", &got))
	assert.Equal(t, []float64{1, 2}, got.Close)

	clk.t = clk.t.Add(time.Minute)
	assert.ErrorIs(t, mc.Get(ctx, "AAPL", &got), cache.ErrCacheMiss)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0), cache.WithMemoryClock(clk.now), cache.WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	clk.t = clk.t.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	clk.t = clk.t.Add(time.Second)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	clk.t = clk.t.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), cache.ErrCacheMiss)
	require.NoError(t, mc.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
}

func TestMemoryCache_TryLock(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0), cache.WithMemoryClock(clk.now))
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "scan", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = mc.TryLock(ctx, "scan", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mc.Unlock(ctx, "scan", "a"))
	ok, err = mc.TryLock(ctx, "scan", "b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCache_UnlockKeepsLockTakenByAnotherOwner(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0), cache.WithMemoryClock(clk.now))
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "scan", "slow", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// the slow holder overruns its ttl and another owner takes the lock
	clk.t = clk.t.Add(time.Minute)
	ok, err = mc.TryLock(ctx, "scan", "fast", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, mc.Unlock(ctx, "scan", "slow"), cache.ErrLockNotHeld)

	ok, err = mc.TryLock(ctx, "scan", "third", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lock of the current owner must survive a stale unlock")

	require.NoError(t, mc.Unlock(ctx, "scan", "fast"))
	assert.ErrorIs(t, mc.Unlock(ctx, "scan", "fast"), cache.ErrLockNotHeld)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "bars:AAPL:1y:1d", cache.Key("bars", "AAPL", "1y", "1d"))
	assert.Equal(t, "bars", cache.Key("bars"))
}
