package rules

import (
	"fmt"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
)

const (
	atrLookback    = 5
	atrJumpFactor  = 1.5
	squeezeFactor  = 0.5
	bandTouchScore = 60
)

// Volatility covers Bollinger band touches and squeezes and ATR expansion.
type Volatility struct{}

func (Volatility) Name() string { return "volatility" }

func (Volatility) Evaluate(s service.Snapshot) []models.Signal {
	e := &emitter{s: s}

	upper, lower, okBands := e.pair(models.BBUpper, models.BBLower)
	_, okMid := e.latest(models.BBMiddle)
	if okBands && okMid && e.priced() {
		switch {
		case s.Price >= upper:
			e.add(models.SignalSell, "BB_UPPER_TOUCH", "Price touching the upper Bollinger band", bandTouchScore)
		case s.Price <= lower:
			e.add(models.SignalBuy, "BB_LOWER_TOUCH", "Price touching the lower Bollinger band", bandTouchScore)
		}

		if width, atr, ok := e.pair(models.BBWidth, models.ATR); ok && width < atr*squeezeFactor {
			e.add(models.SignalNeutral, "BB_SQUEEZE", "Bollinger squeeze: low volatility", 50)
		}
	}

	atr, ok := e.latest(models.ATR)
	prev, okPrev := e.back(models.ATR, atrLookback)
	if ok && okPrev && atr > prev*atrJumpFactor {
		e.add(models.SignalNeutral, "ATR_INCREASE", fmt.Sprintf("Volatility expanding sharply (ATR: %.2f)", atr), 40)
	}

	return e.out
}
