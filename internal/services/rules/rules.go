// Package rules holds the signal evaluators. Each evaluator reads the latest
// and recent-past indicator values from a snapshot and emits threshold or
// crossover signals; an absent indicator silences the rules that need it.
package rules

import (
	"math"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/service"
)

// Default returns the evaluators in display order.
func Default() []service.Evaluator {
	return []service.Evaluator{
		Trend{},
		Momentum{},
		Volatility{},
		Volume{},
		SupportResistance{},
		Composite{},
	}
}

// nearPct is the relative distance treated as touching a level.
const nearPct = 0.01

type emitter struct {
	s   service.Snapshot
	out []models.Signal
}

func (e *emitter) add(t models.SignalType, indicator, desc string, strength float64) {
	e.out = append(e.out, models.NewSignal(t, indicator, desc, strength, e.s.Now))
}

func (e *emitter) latest(n models.IndicatorName) (float64, bool) {
	return e.s.Indicators.Latest(n)
}

func (e *emitter) back(n models.IndicatorName, k int) (float64, bool) {
	return e.s.Indicators.Back(n, k)
}

// pair fetches the latest value of two indicators; ok only if both are present.
func (e *emitter) pair(a, b models.IndicatorName) (float64, float64, bool) {
	x, ok1 := e.latest(a)
	y, ok2 := e.latest(b)
	return x, y, ok1 && ok2
}

func (e *emitter) priced() bool { return e.s.Price > 0 }

func near(price, level float64) bool {
	return math.Abs(price-level)/price < nearPct
}

// crossed reports an upward (1) or downward (-1) cross of fast over slow between
// k bars ago and now, or 0.
func crossed(fastPrev, slowPrev, fast, slow float64) int {
	switch {
	case fastPrev <= slowPrev && fast > slow:
		return 1
	case fastPrev >= slowPrev && fast < slow:
		return -1
	default:
		return 0
	}
}
