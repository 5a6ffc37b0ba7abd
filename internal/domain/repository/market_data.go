package repository

import (
	"context"

	"FinSignal/internal/domain/models"
)

// MarketData provides historical bars and symbol metadata.
// GetHistoricalBars returns bars ascending by time and wraps models.ErrDataUnavailable
// when the provider fails or returns nothing.
type MarketData interface {
	GetHistoricalBars(ctx context.Context, symbol string, period Period, interval Interval) ([]models.Bar, error)
	GetSymbolInfo(ctx context.Context, symbol string) (models.SymbolInfo, error)
}
