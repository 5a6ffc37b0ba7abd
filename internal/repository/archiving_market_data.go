package repository

import (
	"context"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	applogger "FinSignal/pkg/logger"
)

// ArchivingMarketData copies every successful bar fetch into a BarStore.
// Store failures are logged and do not fail the fetch.
type ArchivingMarketData struct {
	inner domrepo.MarketData
	store domrepo.BarStore
	l     *applogger.Logger
}

func NewArchivingMarketData(inner domrepo.MarketData, store domrepo.BarStore) *ArchivingMarketData {
	return &ArchivingMarketData{inner: inner, store: store}
}

// SetLogger injects a structured logger.
func (a *ArchivingMarketData) SetLogger(l *applogger.Logger) { a.l = l }

func (a *ArchivingMarketData) GetHistoricalBars(ctx context.Context, symbol string, period domrepo.Period, interval domrepo.Interval) ([]models.Bar, error) {
	bars, err := a.inner.GetHistoricalBars(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	if err := a.store.StoreBars(ctx, symbol, interval, bars); err != nil && a.l != nil {
		a.l.Warn("archive bars failed",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
			applogger.Error(err),
		)
	}
	return bars, nil
}

func (a *ArchivingMarketData) GetSymbolInfo(ctx context.Context, symbol string) (models.SymbolInfo, error) {
	return a.inner.GetSymbolInfo(ctx, symbol)
}

var _ domrepo.MarketData = (*ArchivingMarketData)(nil)
