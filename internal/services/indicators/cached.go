package indicators

import (
	"strconv"
	"sync"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/repository"
	"FinSignal/internal/service/cache"
)

// DefaultCacheTTL bounds how long a computed set is reused.
const DefaultCacheTTL = 10 * time.Minute

// Computer is the uncached computation behind CachedEngine.
type Computer interface {
	Compute(bars []models.Bar) (*models.IndicatorSet, error)
}

// CachedEngine memoizes indicator sets per symbol and bar count. The key does
// not look at bar contents, so a revised bar with the same count is served
// stale until the entry expires. Concurrent misses on one key may compute
// twice; the last write wins.
type CachedEngine struct {
	inner Computer
	store *cache.TTLCache[*models.IndicatorSet]
	ttl   time.Duration
	m     repository.Metrics
	stop  chan struct{}
	once  sync.Once
}

func NewCachedEngine(inner Computer, clock cache.Clock, ttl time.Duration) *CachedEngine {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedEngine{
		inner: inner,
		store: cache.NewTTLCache[*models.IndicatorSet](clock),
		ttl:   ttl,
		m:     repository.NopMetrics{},
		stop:  make(chan struct{}),
	}
}

// StartSweeper purges expired sets every interval until Close. Keys grow with
// the bar count, so old keys are never read again and only a sweep frees them.
func (c *CachedEngine) StartSweeper(every time.Duration) {
	if every <= 0 {
		every = c.ttl
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				c.Purge()
			}
		}
	}()
}

// Close stops the sweeper.
func (c *CachedEngine) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// SetMetrics sets optional metrics recorder.
func (c *CachedEngine) SetMetrics(m repository.Metrics) {
	if m != nil {
		c.m = m
	}
}

func cacheKey(symbol string, n int) string {
	return symbol + ":" + strconv.Itoa(n)
}

// Indicators returns the cached set for (symbol, len(bars)) or computes it.
func (c *CachedEngine) Indicators(symbol string, bars []models.Bar) (*models.IndicatorSet, error) {
	key := cacheKey(symbol, len(bars))
	if set, ok := c.store.Get(key); ok {
		c.m.RecordCache("indicators", true)
		return set, nil
	}
	c.m.RecordCache("indicators", false)
	set, err := c.inner.Compute(bars)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, set, c.ttl)
	return set, nil
}

// Purge drops expired entries.
func (c *CachedEngine) Purge() int { return c.store.Purge() }

// Len reports stored sets, expired ones included until purged.
func (c *CachedEngine) Len() int { return c.store.Len() }
