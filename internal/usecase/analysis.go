package usecase

import (
	"context"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
)

// AnalysisUseCase exposes the indicator view and the full per-symbol analysis.
type AnalysisUseCase struct {
	pipeline *SignalPipeline
	market   *MarketDataUseCase
}

func NewAnalysisUseCase(p *SignalPipeline, market *MarketDataUseCase) *AnalysisUseCase {
	return &AnalysisUseCase{pipeline: p, market: market}
}

func (uc *AnalysisUseCase) Indicators(ctx context.Context, symbol string, period domrepo.Period, withSeries bool) (*models.IndicatorReport, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	bars, err := uc.pipeline.FetchBars(ctx, sym, period)
	if err != nil {
		return nil, err
	}
	set, err := uc.pipeline.indicators.Indicators(sym, bars)
	if err != nil {
		return nil, err
	}
	rep := uc.report(sym, bars, set)
	if withSeries {
		rep.Series = set
	}
	return rep, nil
}

func (uc *AnalysisUseCase) report(symbol string, bars []models.Bar, set *models.IndicatorSet) *models.IndicatorReport {
	rep := &models.IndicatorReport{
		Symbol:    symbol,
		Timestamp: uc.pipeline.clock.Now(),
		Price:     bars[len(bars)-1].Close,
		BarCount:  len(bars),
		Latest:    set.LatestValues(),
	}
	for _, n := range models.IndicatorCatalog() {
		if !set.Has(n) {
			rep.Absent = append(rep.Absent, n.String())
		}
	}
	return rep
}

// FullAnalysis combines symbol info, bars, indicators and the signal result.
func (uc *AnalysisUseCase) FullAnalysis(ctx context.Context, symbol string, period domrepo.Period) (*models.Analysis, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	bars, err := uc.pipeline.FetchBars(ctx, sym, period)
	if err != nil {
		return nil, err
	}
	res, set, err := uc.pipeline.Evaluate(sym, bars)
	if err != nil {
		return nil, err
	}
	info, err := uc.market.SymbolInfo(ctx, sym)
	if err != nil {
		return nil, err
	}
	return &models.Analysis{
		Symbol:     sym,
		Info:       &info,
		Bars:       bars,
		Indicators: uc.report(sym, bars, set),
		Signal:     res,
	}, nil
}
