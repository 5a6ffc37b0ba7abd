package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	"FinSignal/internal/services/indicators"
	"FinSignal/internal/services/rules"
)

type fakeMarket struct {
	mu    sync.Mutex
	bars  map[string][]models.Bar
	info  map[string]models.SymbolInfo
	calls int
}

func (f *fakeMarket) GetHistoricalBars(_ context.Context, symbol string, _ domrepo.Period, _ domrepo.Interval) ([]models.Bar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	b, ok := f.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("no chart for %s: %w", symbol, models.ErrDataUnavailable)
	}
	return b, nil
}

func (f *fakeMarket) GetSymbolInfo(_ context.Context, symbol string) (models.SymbolInfo, error) {
	if i, ok := f.info[symbol]; ok {
		return i, nil
	}
	return models.SymbolInfo{}, errors.New("quote endpoint down")
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

func newTestPipeline(market domrepo.MarketData) *SignalPipeline {
	engine := indicators.NewCachedEngine(indicators.NewEngine(), fixedClock{testNow}, time.Minute)
	p := NewSignalPipeline(market, engine, rules.Default())
	p.SetClock(fixedClock{testNow})
	return p
}

type memPublisher struct {
	mu      sync.Mutex
	results []models.SignalResult
	err     error
}

func (p *memPublisher) Publish(_ context.Context, r *models.SignalResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.results = append(p.results, *r)
	return nil
}

func (p *memPublisher) PublishBatch(ctx context.Context, rs []models.SignalResult) error {
	for i := range rs {
		if err := p.Publish(ctx, &rs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p *memPublisher) Close() error { return nil }
