package rules

import (
	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
)

const (
	divergenceLookback = 5
	divergenceMinBars  = 10
)

// Composite covers SuperTrend, Ichimoku and a simple RSI/price divergence.
type Composite struct{}

func (Composite) Name() string { return "composite" }

func (Composite) Evaluate(s service.Snapshot) []models.Signal {
	e := &emitter{s: s}
	if !e.priced() {
		return nil
	}
	p := s.Price

	if st, ok := e.latest(models.SuperTrend); ok {
		switch {
		case p > st:
			e.add(models.SignalBuy, "SUPERTREND_BULLISH", "SuperTrend uptrend", 65)
		case p < st:
			e.add(models.SignalSell, "SUPERTREND_BEARISH", "SuperTrend downtrend", 65)
		}
	}

	if tenkan, kijun, ok := e.pair(models.IchimokuTenkan, models.IchimokuKijun); ok {
		switch {
		case p > tenkan && tenkan > kijun:
			e.add(models.SignalBuy, "ICHIMOKU_BULLISH", "Ichimoku bullish: price above tenkan above kijun", 70)
		case p < tenkan && tenkan < kijun:
			e.add(models.SignalSell, "ICHIMOKU_BEARISH", "Ichimoku bearish: price below tenkan below kijun", 70)
		}
	}

	rsi, ok := e.latest(models.RSI)
	rsiPrev, okPrev := e.back(models.RSI, divergenceLookback)
	if ok && okPrev && len(s.Bars) >= divergenceMinBars {
		pricePrev := s.Bars[len(s.Bars)-1-divergenceLookback].Close
		switch {
		case p < pricePrev && rsi > rsiPrev && rsi < 50:
			e.add(models.SignalBuy, "RSI_DIVERGENCE_BULLISH", "Bullish RSI/price divergence", 75)
		case p > pricePrev && rsi < rsiPrev && rsi > 50:
			e.add(models.SignalSell, "RSI_DIVERGENCE_BEARISH", "Bearish RSI/price divergence", 75)
		}
	}

	return e.out
}
