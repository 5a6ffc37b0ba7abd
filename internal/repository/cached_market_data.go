package repository

import (
	"context"
	"errors"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgcache "FinSignal/pkg/cache"
	applogger "FinSignal/pkg/logger"
)

const DefaultMarketDataTTL = 5 * time.Minute

// CachedMarketData memoizes another MarketData in a cache.Service.
// Failures are never cached.
type CachedMarketData struct {
	inner domrepo.MarketData
	cache pkgcache.Service
	ttl   time.Duration
	l     *applogger.Logger
	m     domrepo.Metrics
}

func NewCachedMarketData(inner domrepo.MarketData, cache pkgcache.Service, ttl time.Duration) *CachedMarketData {
	if ttl <= 0 {
		ttl = DefaultMarketDataTTL
	}
	return &CachedMarketData{inner: inner, cache: cache, ttl: ttl, m: domrepo.NopMetrics{}}
}

// SetLogger injects a structured logger.
func (c *CachedMarketData) SetLogger(l *applogger.Logger) { c.l = l }

// SetMetrics injects a metrics recorder.
func (c *CachedMarketData) SetMetrics(m domrepo.Metrics) {
	if m != nil {
		c.m = m
	}
}

func (c *CachedMarketData) GetHistoricalBars(ctx context.Context, symbol string, period domrepo.Period, interval domrepo.Interval) ([]models.Bar, error) {
	key := pkgcache.Key("bars", symbol, period, interval)
	var bars []models.Bar
	if c.lookup(ctx, key, &bars) && len(bars) > 0 {
		return bars, nil
	}

	bars, err := c.inner.GetHistoricalBars(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, bars)
	return bars, nil
}

func (c *CachedMarketData) GetSymbolInfo(ctx context.Context, symbol string) (models.SymbolInfo, error) {
	key := pkgcache.Key("info", symbol)
	var info models.SymbolInfo
	if c.lookup(ctx, key, &info) {
		return info, nil
	}

	info, err := c.inner.GetSymbolInfo(ctx, symbol)
	if err != nil {
		return models.SymbolInfo{}, err
	}
	c.store(ctx, key, info)
	return info, nil
}

func (c *CachedMarketData) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := c.cache.Get(ctx, key, dest)
	if err == nil {
		c.m.RecordCache("marketdata", true)
		return true
	}
	c.m.RecordCache("marketdata", false)
	if !errors.Is(err, pkgcache.ErrCacheMiss) && c.l != nil {
		c.l.Warn("marketdata cache get failed", applogger.String("key", key), applogger.Error(err))
	}
	return false
}

func (c *CachedMarketData) store(ctx context.Context, key string, v interface{}) {
	if err := c.cache.Set(ctx, key, v, c.ttl); err != nil && c.l != nil {
		c.l.Warn("marketdata cache set failed", applogger.String("key", key), applogger.Error(err))
	}
}

var _ domrepo.MarketData = (*CachedMarketData)(nil)
