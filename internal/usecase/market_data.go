package usecase

import (
	"context"
	"fmt"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	applogger "FinSignal/pkg/logger"
)

// MarketDataUseCase serves bars, symbol metadata and the symbol catalog.
type MarketDataUseCase struct {
	data domrepo.MarketData
	l    *applogger.Logger
}

func NewMarketDataUseCase(data domrepo.MarketData) *MarketDataUseCase {
	return &MarketDataUseCase{data: data}
}

// SetLogger sets optional logger.
func (uc *MarketDataUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

type HistoricalParams struct {
	Symbol   string
	Period   domrepo.Period
	Interval domrepo.Interval
}

type HistoricalResult struct {
	Symbol   string       `json:"symbol"`
	Period   string       `json:"period"`
	Interval string       `json:"interval"`
	Count    int          `json:"count"`
	Bars     []models.Bar `json:"data"`
}

func (uc *MarketDataUseCase) Historical(ctx context.Context, p HistoricalParams) (*HistoricalResult, error) {
	sym, err := NormalizeSymbol(p.Symbol)
	if err != nil {
		return nil, err
	}
	if !domrepo.IsValidPeriod(p.Period) {
		p.Period = domrepo.DefaultPeriod()
	}
	if !domrepo.IsValidInterval(p.Interval) {
		p.Interval = domrepo.DefaultInterval()
	}

	bars, err := uc.data.GetHistoricalBars(ctx, sym, p.Period, p.Interval)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	return &HistoricalResult{
		Symbol:   sym,
		Period:   string(p.Period),
		Interval: string(p.Interval),
		Count:    len(bars),
		Bars:     bars,
	}, nil
}

// SymbolInfo never fails on provider errors; it degrades to a placeholder.
func (uc *MarketDataUseCase) SymbolInfo(ctx context.Context, symbol string) (models.SymbolInfo, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return models.SymbolInfo{}, err
	}
	info, err := uc.data.GetSymbolInfo(ctx, sym)
	if err != nil {
		if uc.l != nil {
			uc.l.Warn("symbol info unavailable, using placeholder",
				applogger.String("symbol", sym), applogger.Error(err))
		}
		return models.PlaceholderSymbolInfo(sym), nil
	}
	return info, nil
}

func (uc *MarketDataUseCase) Symbols() map[models.SymbolCategory][]string {
	return models.SymbolsByCategory()
}
