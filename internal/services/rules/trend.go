package rules

import (
	"fmt"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
)

const (
	crossLookback  = 2
	adxTrendLevel  = 25
	smaCrossScore  = 70
	alignmentScore = 80
	macdCrossScore = 65
)

// Trend covers moving-average crossover, trend alignment, MACD and ADX.
type Trend struct{}

func (Trend) Name() string { return "trend" }

func (Trend) Evaluate(s service.Snapshot) []models.Signal {
	e := &emitter{s: s}

	sma20, sma50, ok := e.pair(models.SMA20, models.SMA50)
	if ok {
		p20, ok20 := e.back(models.SMA20, crossLookback)
		p50, ok50 := e.back(models.SMA50, crossLookback)
		if ok20 && ok50 {
			switch crossed(p20, p50, sma20, sma50) {
			case 1:
				e.add(models.SignalBuy, "SMA_CROSS", "Bullish SMA20/SMA50 crossover", smaCrossScore)
			case -1:
				e.add(models.SignalSell, "SMA_CROSS", "Bearish SMA20/SMA50 crossover", smaCrossScore)
			}
		}

		if sma200, ok := e.latest(models.SMA200); ok && e.priced() {
			p := s.Price
			switch {
			case p > sma20 && sma20 > sma50 && sma50 > sma200:
				e.add(models.SignalBuy, "TREND_ALIGNMENT", "Confirmed uptrend: price above SMA20 > SMA50 > SMA200", alignmentScore)
			case p < sma20 && sma20 < sma50 && sma50 < sma200:
				e.add(models.SignalSell, "TREND_ALIGNMENT", "Confirmed downtrend: price below SMA20 < SMA50 < SMA200", alignmentScore)
			}
		}
	}

	if macd, sig, ok := e.pair(models.MACD, models.MACDSignal); ok {
		pm, okm := e.back(models.MACD, crossLookback)
		ps, oks := e.back(models.MACDSignal, crossLookback)
		if okm && oks {
			switch crossed(pm, ps, macd, sig) {
			case 1:
				e.add(models.SignalBuy, "MACD_CROSS", "Bullish MACD crossover", macdCrossScore)
			case -1:
				e.add(models.SignalSell, "MACD_CROSS", "Bearish MACD crossover", macdCrossScore)
			}
		}
	}

	if adx, ok := e.latest(models.ADX); ok && adx > adxTrendLevel {
		e.add(models.SignalNeutral, "ADX_STRENGTH",
			fmt.Sprintf("Strong trend (ADX: %.1f)", adx), min(adx*2, 100))
	}

	return e.out
}
