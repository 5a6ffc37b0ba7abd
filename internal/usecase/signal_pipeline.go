package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/service/cache"
	"FinSignal/internal/services/scoring"
	applogger "FinSignal/pkg/logger"
)

const (
	maxSymbolLen     = 32
	defaultTimeframe = "1d"
)

// SignalPipeline turns bars into a SignalResult: indicators, evaluators, aggregation.
type SignalPipeline struct {
	data       domrepo.MarketData
	indicators domsvc.IndicatorProvider
	evaluators []domsvc.Evaluator
	clock      cache.Clock
	interval   domrepo.Interval
	timeframe  string
	timeout    time.Duration
	l          *applogger.Logger
	m          domrepo.Metrics
}

func NewSignalPipeline(data domrepo.MarketData, indicators domsvc.IndicatorProvider, evaluators []domsvc.Evaluator) *SignalPipeline {
	return &SignalPipeline{
		data:       data,
		indicators: indicators,
		evaluators: evaluators,
		clock:      cache.SystemClock{},
		interval:   domrepo.DefaultInterval(),
		timeframe:  defaultTimeframe,
		timeout:    15 * time.Second,
		m:          domrepo.NopMetrics{},
	}
}

// SetLogger sets optional logger.
func (p *SignalPipeline) SetLogger(l *applogger.Logger) { p.l = l }

// SetMetrics sets optional metrics recorder.
func (p *SignalPipeline) SetMetrics(m domrepo.Metrics) {
	if m != nil {
		p.m = m
	}
}

// SetClock overrides the time source used for result timestamps.
func (p *SignalPipeline) SetClock(c cache.Clock) {
	if c != nil {
		p.clock = c
	}
}

// SetTimeframe sets the timeframe label and bar interval requested upstream.
func (p *SignalPipeline) SetTimeframe(timeframe string, interval domrepo.Interval) {
	if timeframe != "" {
		p.timeframe = timeframe
	}
	if domrepo.IsValidInterval(interval) {
		p.interval = interval
	}
}

// SetFetchTimeout bounds each upstream bar fetch.
func (p *SignalPipeline) SetFetchTimeout(d time.Duration) {
	if d > 0 {
		p.timeout = d
	}
}

// NormalizeSymbol trims and upper-cases s, rejecting blank or oversized input.
func NormalizeSymbol(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || len(s) > maxSymbolLen {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidSymbol, s)
	}
	return s, nil
}

// FetchBars loads bars for symbol within the fetch timeout.
func (p *SignalPipeline) FetchBars(ctx context.Context, symbol string, period domrepo.Period) ([]models.Bar, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	bars, err := p.data.GetHistoricalBars(ctx, symbol, period, p.interval)
	p.m.RecordLatency("fetch_bars", time.Since(start))
	if err != nil {
		p.m.RecordError("fetch")
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		p.m.RecordError("fetch")
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, models.ErrDataUnavailable)
	}
	return bars, nil
}

// Generate fetches bars for symbol and evaluates them.
func (p *SignalPipeline) Generate(ctx context.Context, symbol string, period domrepo.Period) (*models.SignalResult, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	bars, err := p.FetchBars(ctx, sym, period)
	if err != nil {
		return nil, err
	}
	res, _, err := p.Evaluate(sym, bars)
	return res, err
}

// Evaluate runs the scoring core over bars already in hand. The indicator set is
// returned alongside the result for callers that report it.
func (p *SignalPipeline) Evaluate(symbol string, bars []models.Bar) (*models.SignalResult, *models.IndicatorSet, error) {
	if len(bars) == 0 {
		return nil, nil, fmt.Errorf("evaluate %s: %w", symbol, models.ErrDataUnavailable)
	}
	start := time.Now()
	p.m.RecordPipelineRun("evaluate")

	set, err := p.indicators.Indicators(symbol, bars)
	if err != nil {
		p.m.RecordError("indicators")
		return nil, nil, fmt.Errorf("compute indicators %s: %w", symbol, err)
	}

	now := p.clock.Now()
	price := bars[len(bars)-1].Close
	snap := domsvc.Snapshot{Indicators: set, Price: price, Bars: bars, Now: now}

	signals := make([]models.Signal, 0, 16)
	for _, ev := range p.evaluators {
		signals = append(signals, p.runEvaluator(symbol, ev, snap)...)
	}

	v := scoring.Aggregate(signals)
	res := &models.SignalResult{
		ID:             models.ResultID(symbol, now),
		Symbol:         symbol,
		Timestamp:      now,
		Price:          price,
		Signals:        signals,
		OverallScore:   v.Score,
		Strength:       v.Strength,
		Recommendation: v.Recommendation,
		Timeframe:      p.timeframe,
		Expiration:     now.Add(models.ResultTTL),
	}
	p.m.RecordScore(symbol, v.Score)
	p.m.RecordLatency("evaluate", time.Since(start))
	return res, set, nil
}

// runEvaluator isolates one evaluator: a panic costs only its own signals.
func (p *SignalPipeline) runEvaluator(symbol string, ev domsvc.Evaluator, snap domsvc.Snapshot) (out []models.Signal) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			p.m.RecordEvaluatorFailure(ev.Name())
			if p.l != nil {
				p.l.Error("evaluator failed",
					applogger.String("symbol", symbol),
					applogger.String("evaluator", ev.Name()),
					applogger.Any("panic", r))
			}
		}
	}()
	return ev.Evaluate(snap)
}
