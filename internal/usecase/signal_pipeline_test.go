package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/services/indicators"
	"FinSignal/internal/services/rules"
	"FinSignal/internal/testutil"
)

func TestSignalPipeline_Generate(t *testing.T) {
	bars := testutil.Bars(260)
	p := newTestPipeline(&fakeMarket{bars: map[string][]models.Bar{"AAPL": bars}})

	res, err := p.Generate(context.Background(), " aapl ", domrepo.Period1Y)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, "AAPL_1714996800000", res.ID)
	assert.Equal(t, testNow, res.Timestamp)
	assert.Equal(t, testNow.Add(24*time.Hour), res.Expiration)
	assert.Equal(t, "1d", res.Timeframe)
	assert.Equal(t, bars[len(bars)-1].Close, res.Price)
	assert.GreaterOrEqual(t, res.OverallScore, 0)
	assert.LessOrEqual(t, res.OverallScore, 100)
	assert.NotNil(t, res.Signals)
	for _, s := range res.Signals {
		assert.GreaterOrEqual(t, s.Strength, 0.0)
		assert.LessOrEqual(t, s.Strength, 100.0)
		assert.Equal(t, testNow, s.Timestamp)
	}
}

func TestSignalPipeline_DataUnavailable(t *testing.T) {
	p := newTestPipeline(&fakeMarket{})
	_, err := p.Generate(context.Background(), "NOPE", domrepo.Period1Y)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
}

func TestSignalPipeline_EmptyBarsIsDataUnavailable(t *testing.T) {
	p := newTestPipeline(&fakeMarket{bars: map[string][]models.Bar{"EMPTY": {}}})
	_, err := p.Generate(context.Background(), "EMPTY", domrepo.Period1Y)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestSignalPipeline_InvalidSymbol(t *testing.T) {
	market := &fakeMarket{}
	p := newTestPipeline(market)
	_, err := p.Generate(context.Background(), "   ", domrepo.Period1Y)
	assert.ErrorIs(t, err, models.ErrInvalidSymbol)
	assert.Zero(t, market.calls)
}

func TestSignalPipeline_ComputationErrorPropagates(t *testing.T) {
	bars := testutil.Bars(50)
	bars[20].High = bars[20].Low - 1
	p := newTestPipeline(&fakeMarket{bars: map[string][]models.Bar{"BAD": bars}})

	_, err := p.Generate(context.Background(), "BAD", domrepo.Period1Y)
	require.Error(t, err)
	var ce *models.ComputationError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, 20, ce.Index)
}

type panickingEvaluator struct{}

func (panickingEvaluator) Name() string { return "broken" }
func (panickingEvaluator) Evaluate(domsvc.Snapshot) []models.Signal {
	panic("index out of range")
}

type fixedEvaluator struct{ sig models.Signal }

func (fixedEvaluator) Name() string { return "fixed" }
func (f fixedEvaluator) Evaluate(s domsvc.Snapshot) []models.Signal {
	out := f.sig
	out.Timestamp = s.Now
	return []models.Signal{out}
}

type countingMetrics struct {
	domrepo.NopMetrics
	evaluatorFailures []string
}

func (c *countingMetrics) RecordEvaluatorFailure(name string) {
	c.evaluatorFailures = append(c.evaluatorFailures, name)
}

func TestSignalPipeline_EvaluatorPanicIsIsolated(t *testing.T) {
	engine := indicators.NewCachedEngine(indicators.NewEngine(), fixedClock{testNow}, 0)
	buy := models.NewSignal(models.SignalBuy, "TEST", "always buy", 80, testNow)
	p := NewSignalPipeline(&fakeMarket{}, engine, []domsvc.Evaluator{panickingEvaluator{}, fixedEvaluator{sig: buy}})
	p.SetClock(fixedClock{testNow})
	m := &countingMetrics{}
	p.SetMetrics(m)

	res, _, err := p.Evaluate("AAPL", testutil.Bars(40))
	require.NoError(t, err)
	require.Len(t, res.Signals, 1)
	assert.Equal(t, "TEST", res.Signals[0].Indicator)
	assert.Equal(t, 90, res.OverallScore)
	assert.Equal(t, models.RecommendStrongBuy, res.Recommendation)
	assert.Equal(t, []string{"broken"}, m.evaluatorFailures)
}

func TestSignalPipeline_NoSignalsIsNeutral(t *testing.T) {
	engine := indicators.NewCachedEngine(indicators.NewEngine(), fixedClock{testNow}, 0)
	p := NewSignalPipeline(&fakeMarket{}, engine, nil)

	res, _, err := p.Evaluate("FLAT", testutil.Flat(5, 10))
	require.NoError(t, err)
	assert.Empty(t, res.Signals)
	assert.Equal(t, 50, res.OverallScore)
	assert.Equal(t, models.StrengthModerate, res.Strength)
	assert.Equal(t, models.RecommendNeutral, res.Recommendation)
}

func TestSignalPipeline_UsesIndicatorCache(t *testing.T) {
	bars := testutil.Bars(80)
	market := &fakeMarket{bars: map[string][]models.Bar{"MSFT": bars}}
	probe := &probeComputer{inner: indicators.NewEngine()}
	engine := indicators.NewCachedEngine(probe, fixedClock{testNow}, 0)
	p := NewSignalPipeline(market, engine, rules.Default())

	for i := 0; i < 3; i++ {
		_, err := p.Generate(context.Background(), "MSFT", domrepo.Period1Y)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, probe.calls)
	assert.Equal(t, 3, market.calls)
}

type probeComputer struct {
	calls int
	inner indicators.Computer
}

func (p *probeComputer) Compute(bars []models.Bar) (*models.IndicatorSet, error) {
	p.calls++
	return p.inner.Compute(bars)
}
