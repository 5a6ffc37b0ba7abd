package rules

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
	"FinSignal/internal/testutil"
)

var now = time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)

func snapshot(price float64, series map[models.IndicatorName][]float64) service.Snapshot {
	set := models.NewIndicatorSet()
	for n, v := range series {
		set.Put(n, v)
	}
	return service.Snapshot{Indicators: set, Price: price, Now: now}
}

func byIndicator(sigs []models.Signal, name string) []models.Signal {
	var out []models.Signal
	for _, s := range sigs {
		if s.Indicator == name {
			out = append(out, s)
		}
	}
	return out
}

func TestDefault_DisplayOrder(t *testing.T) {
	var names []string
	for _, e := range Default() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"trend", "momentum", "volatility", "volume", "support_resistance", "composite"}, names)
}

func TestEvaluators_SilentWithoutIndicators(t *testing.T) {
	s := snapshot(100, nil)
	s.Bars = testutil.Bars(30)
	for _, e := range Default() {
		assert.Emptyf(t, e.Evaluate(s), "%s emitted without indicators", e.Name())
	}
}

func TestEvaluators_NilSetIsAbsent(t *testing.T) {
	s := service.Snapshot{Price: 100, Now: now}
	for _, e := range Default() {
		assert.Empty(t, e.Evaluate(s))
	}
}

func TestTrend_SMACross(t *testing.T) {
	up := Trend{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{
		models.SMA20: {9, 9.5, 11},
		models.SMA50: {10, 10, 10},
	}))
	got := byIndicator(up, "SMA_CROSS")
	require.Len(t, got, 1)
	assert.Equal(t, models.SignalBuy, got[0].Type)
	assert.Equal(t, 70.0, got[0].Strength)
	assert.Equal(t, now, got[0].Timestamp)

	down := Trend{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{
		models.SMA20: {11, 10.5, 9},
		models.SMA50: {10, 10, 10},
	}))
	got = byIndicator(down, "SMA_CROSS")
	require.Len(t, got, 1)
	assert.Equal(t, models.SignalSell, got[0].Type)
	assert.Equal(t, 70.0, got[0].Strength)
}

func TestTrend_SMACrossNeedsHistory(t *testing.T) {
	sigs := Trend{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{
		models.SMA20: {9.5, 11},
		models.SMA50: {10, 10},
	}))
	assert.Empty(t, byIndicator(sigs, "SMA_CROSS"))
}

func TestTrend_AlignmentAndADX(t *testing.T) {
	sigs := Trend{}.Evaluate(snapshot(120, map[models.IndicatorName][]float64{
		models.SMA20:  {110},
		models.SMA50:  {100},
		models.SMA200: {90},
		models.ADX:    {60},
	}))
	align := byIndicator(sigs, "TREND_ALIGNMENT")
	require.Len(t, align, 1)
	assert.Equal(t, models.SignalBuy, align[0].Type)
	assert.Equal(t, 80.0, align[0].Strength)

	adx := byIndicator(sigs, "ADX_STRENGTH")
	require.Len(t, adx, 1)
	assert.Equal(t, models.SignalNeutral, adx[0].Type)
	assert.Equal(t, 100.0, adx[0].Strength)

	sigs = Trend{}.Evaluate(snapshot(80, map[models.IndicatorName][]float64{
		models.SMA20:  {90},
		models.SMA50:  {100},
		models.SMA200: {110},
		models.ADX:    {25},
	}))
	align = byIndicator(sigs, "TREND_ALIGNMENT")
	require.Len(t, align, 1)
	assert.Equal(t, models.SignalSell, align[0].Type)
	assert.Empty(t, byIndicator(sigs, "ADX_STRENGTH"))
}

func TestTrend_MACDCross(t *testing.T) {
	sigs := Trend{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{
		models.MACD:       {-1, 0, 1},
		models.MACDSignal: {0, 0, 0},
	}))
	got := byIndicator(sigs, "MACD_CROSS")
	require.Len(t, got, 1)
	assert.Equal(t, models.SignalBuy, got[0].Type)
	assert.Equal(t, 65.0, got[0].Strength)
}

func TestMomentum_RSIThresholds(t *testing.T) {
	sigs := Momentum{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{models.RSI: {29.9}}))
	require.Len(t, sigs, 1)
	assert.Equal(t, "RSI_OVERSOLD", sigs[0].Indicator)
	assert.Equal(t, models.SignalBuy, sigs[0].Type)
	assert.InDelta(t, 40.2, sigs[0].Strength, 1e-9)
	assert.Equal(t, 40.0, math.Round(sigs[0].Strength))

	sigs = Momentum{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{models.RSI: {70.1}}))
	require.Len(t, sigs, 1)
	assert.Equal(t, "RSI_OVERBOUGHT", sigs[0].Indicator)
	assert.Equal(t, models.SignalSell, sigs[0].Type)
	assert.Equal(t, 70.0, sigs[0].Strength)

	sigs = Momentum{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{models.RSI: {50}}))
	assert.Empty(t, sigs)
}

func TestMomentum_ZeroIsAValue(t *testing.T) {
	sigs := Momentum{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{models.RSI: {0}}))
	require.Len(t, sigs, 1)
	assert.Equal(t, 100.0, sigs[0].Strength)
}

func TestMomentum_Oscillators(t *testing.T) {
	cases := []struct {
		name     string
		series   map[models.IndicatorName][]float64
		want     string
		typ      models.SignalType
		strength float64
	}{
		{"stoch oversold", map[models.IndicatorName][]float64{models.StochK: {15}, models.StochD: {10}}, "STOCHASTIC_OVERSOLD", models.SignalBuy, 55},
		{"stoch overbought", map[models.IndicatorName][]float64{models.StochK: {85}, models.StochD: {90}}, "STOCHASTIC_OVERBOUGHT", models.SignalSell, 80},
		{"williams oversold", map[models.IndicatorName][]float64{models.WillR: {-90}}, "WILLIAMS_OVERSOLD", models.SignalBuy, 40},
		{"williams overbought", map[models.IndicatorName][]float64{models.WillR: {-10}}, "WILLIAMS_OVERBOUGHT", models.SignalSell, 40},
		{"cci oversold", map[models.IndicatorName][]float64{models.CCI: {-150}}, "CCI_OVERSOLD", models.SignalBuy, 40},
		{"cci overbought", map[models.IndicatorName][]float64{models.CCI: {300}}, "CCI_OVERBOUGHT", models.SignalSell, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sigs := Momentum{}.Evaluate(snapshot(0, tc.series))
			require.Len(t, sigs, 1)
			assert.Equal(t, tc.want, sigs[0].Indicator)
			assert.Equal(t, tc.typ, sigs[0].Type)
			assert.InDelta(t, tc.strength, sigs[0].Strength, 1e-9)
		})
	}
}

func TestVolatility(t *testing.T) {
	sigs := Volatility{}.Evaluate(snapshot(105, map[models.IndicatorName][]float64{
		models.BBUpper:  {105},
		models.BBMiddle: {100},
		models.BBLower:  {95},
		models.BBWidth:  {0.4},
		models.ATR:      {1, 1, 1, 1, 1, 2},
	}))
	require.Len(t, sigs, 3)
	assert.Equal(t, "BB_UPPER_TOUCH", sigs[0].Indicator)
	assert.Equal(t, models.SignalSell, sigs[0].Type)
	assert.Equal(t, "BB_SQUEEZE", sigs[1].Indicator)
	assert.Equal(t, "ATR_INCREASE", sigs[2].Indicator)
	assert.Equal(t, 40.0, sigs[2].Strength)
}

func TestVolatility_SqueezeNeedsBands(t *testing.T) {
	sigs := Volatility{}.Evaluate(snapshot(100, map[models.IndicatorName][]float64{
		models.BBWidth: {0.1},
		models.ATR:     {2},
	}))
	assert.Empty(t, sigs)
}

func TestVolume(t *testing.T) {
	sigs := Volume{}.Evaluate(snapshot(0, map[models.IndicatorName][]float64{
		models.MFI: {10},
		models.CMF: {-0.2},
		models.VO:  {6},
	}))
	require.Len(t, sigs, 3)
	assert.Equal(t, "MFI_OVERSOLD", sigs[0].Indicator)
	assert.Equal(t, 70.0, sigs[0].Strength)
	assert.Equal(t, "CMF_NEGATIVE", sigs[1].Indicator)
	assert.Equal(t, 80.0, sigs[1].Strength)
	assert.Equal(t, "VO_INCREASE", sigs[2].Indicator)
	assert.Equal(t, 48.0, sigs[2].Strength)
}

func TestSupportResistance_ResistanceWins(t *testing.T) {
	sigs := SupportResistance{}.Evaluate(snapshot(100, map[models.IndicatorName][]float64{
		models.PivotR1: {100.5, 100.5},
		models.PivotS1: {99.6, 99.6},
		models.Fib38:   {100.2},
		models.Fib61:   {99.8},
	}))
	require.Len(t, sigs, 2)
	assert.Equal(t, "PIVOT_RESISTANCE", sigs[0].Indicator)
	assert.Equal(t, models.SignalSell, sigs[0].Type)
	assert.Equal(t, 55.0, sigs[0].Strength)
	assert.Equal(t, "FIB_38", sigs[1].Indicator)
	assert.Equal(t, models.SignalNeutral, sigs[1].Type)
}

func TestSupportResistance_Support(t *testing.T) {
	sigs := SupportResistance{}.Evaluate(snapshot(100, map[models.IndicatorName][]float64{
		models.PivotR1: {110},
		models.PivotS1: {99.5},
		models.Fib38:   {120},
		models.Fib61:   {100.9},
	}))
	require.Len(t, sigs, 2)
	assert.Equal(t, "PIVOT_SUPPORT", sigs[0].Indicator)
	assert.Equal(t, "FIB_61", sigs[1].Indicator)
	assert.Equal(t, 50.0, sigs[1].Strength)
}

func TestComposite(t *testing.T) {
	bars := testutil.Flat(12, 110)
	s := snapshot(100, map[models.IndicatorName][]float64{
		models.SuperTrend:     {95},
		models.IchimokuTenkan: {98},
		models.IchimokuKijun:  {97},
		models.RSI:            {30, 31, 32, 33, 34, 40},
	})
	s.Bars = bars

	sigs := Composite{}.Evaluate(s)
	require.Len(t, sigs, 3)
	assert.Equal(t, "SUPERTREND_BULLISH", sigs[0].Indicator)
	assert.Equal(t, "ICHIMOKU_BULLISH", sigs[1].Indicator)
	assert.Equal(t, "RSI_DIVERGENCE_BULLISH", sigs[2].Indicator)
	assert.Equal(t, 75.0, sigs[2].Strength)
}

func TestComposite_DivergenceNeedsTenBars(t *testing.T) {
	s := snapshot(100, map[models.IndicatorName][]float64{
		models.RSI: {30, 31, 32, 33, 34, 40},
	})
	s.Bars = testutil.Flat(9, 110)
	assert.Empty(t, Composite{}.Evaluate(s))
}
