package indicators

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/testutil"
)

type countingComputer struct {
	mu    sync.Mutex
	calls int
	inner Computer
}

func (c *countingComputer) Compute(bars []models.Bar) (*models.IndicatorSet, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.Compute(bars)
}

type manualClock struct{ now time.Time }

func (m *manualClock) Now() time.Time { return m.now }

func TestCachedEngine_ReusesWithinTTL(t *testing.T) {
	probe := &countingComputer{inner: NewEngine()}
	clk := &manualClock{now: testutil.Start}
	c := NewCachedEngine(probe, clk, 10*time.Minute)
	bars := testutil.Bars(60)

	first, err := c.Indicators("AAPL", bars)
	require.NoError(t, err)
	clk.now = clk.now.Add(9 * time.Minute)
	second, err := c.Indicators("AAPL", bars)
	require.NoError(t, err)

	assert.Equal(t, 1, probe.calls)
	assert.Same(t, first, second)
}

func TestCachedEngine_RecomputesAfterExpiry(t *testing.T) {
	probe := &countingComputer{inner: NewEngine()}
	clk := &manualClock{now: testutil.Start}
	c := NewCachedEngine(probe, clk, 10*time.Minute)
	bars := testutil.Bars(60)

	_, err := c.Indicators("AAPL", bars)
	require.NoError(t, err)
	clk.now = clk.now.Add(10 * time.Minute)
	_, err = c.Indicators("AAPL", bars)
	require.NoError(t, err)

	assert.Equal(t, 2, probe.calls)
}

func TestCachedEngine_KeyedBySymbolAndLength(t *testing.T) {
	probe := &countingComputer{inner: NewEngine()}
	c := NewCachedEngine(probe, &manualClock{now: testutil.Start}, 0)
	bars := testutil.Bars(60)

	_, _ = c.Indicators("AAPL", bars)
	_, _ = c.Indicators("MSFT", bars)
	_, _ = c.Indicators("AAPL", bars[:59])
	assert.Equal(t, 3, probe.calls)

	// same count, different content: served from cache
	altered := testutil.Bars(60)
	altered[59].Close += 5
	_, _ = c.Indicators("AAPL", altered)
	assert.Equal(t, 3, probe.calls)
}

func TestCachedEngine_ErrorsAreNotCached(t *testing.T) {
	probe := &countingComputer{inner: NewEngine()}
	c := NewCachedEngine(probe, &manualClock{now: testutil.Start}, time.Minute)
	bars := testutil.Bars(10)
	bars[4].Volume = -5

	_, err := c.Indicators("BAD", bars)
	require.Error(t, err)
	_, err = c.Indicators("BAD", bars)
	require.Error(t, err)
	assert.Equal(t, 2, probe.calls)
}

type syncClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *syncClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *syncClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCachedEngine_SweeperFreesKeysNeverReadAgain(t *testing.T) {
	clk := &syncClock{now: testutil.Start}
	c := NewCachedEngine(NewEngine(), clk, 10*time.Minute)
	defer c.Close()
	bars := testutil.Bars(40)

	// a daily feed: each day adds a bar, so yesterday's key is not asked for again
	for day := 0; day < 5; day++ {
		for _, sym := range []string{"AAPL", "MSFT", "SPY"} {
			_, err := c.Indicators(sym, bars[:30+day])
			require.NoError(t, err)
		}
		clk.Add(24 * time.Hour)
	}
	require.Equal(t, 15, c.Len())

	c.StartSweeper(5 * time.Millisecond)
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCachedEngine_PurgeKeepsLiveSets(t *testing.T) {
	clk := &manualClock{now: testutil.Start}
	c := NewCachedEngine(NewEngine(), clk, 10*time.Minute)
	bars := testutil.Bars(40)

	_, err := c.Indicators("AAPL", bars[:30])
	require.NoError(t, err)
	clk.now = clk.now.Add(11 * time.Minute)
	_, err = c.Indicators("AAPL", bars[:31])
	require.NoError(t, err)

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 1, c.Len())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
