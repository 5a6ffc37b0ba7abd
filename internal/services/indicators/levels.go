package indicators

import (
	"math"

	"FinSignal/internal/domain/models"
)

const (
	fibWindow = 50
	fib38     = 0.382
	fib61     = 0.618
)

func broadcast(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// levelCalcs derive single price levels and repeat them across the whole bar
// range. Pivots come from the bar before the latest one; Fibonacci levels from
// the close range of the trailing window.
func levelCalcs() []calc {
	return []calc{
		{
			names:   []models.IndicatorName{models.Pivot, models.PivotR1, models.PivotS1},
			minBars: 2,
			run: func(in *ohlcv) [][]float64 {
				n := in.len()
				p := Pivots(in.bars[n-2])
				return [][]float64{broadcast(p.Pivot, n), broadcast(p.R1, n), broadcast(p.S1, n)}
			},
		},
		{
			names:   []models.IndicatorName{models.Fib38, models.Fib61},
			minBars: 1,
			run: func(in *ohlcv) [][]float64 {
				f := Fibonacci(in.close, fibWindow)
				n := in.len()
				return [][]float64{broadcast(f.Level38, n), broadcast(f.Level61, n)}
			},
		},
	}
}

// PivotLevels are the classic floor-trader levels.
type PivotLevels struct {
	Pivot, R1, S1 float64
}

func Pivots(b models.Bar) PivotLevels {
	p := (b.High + b.Low + b.Close) / 3
	return PivotLevels{Pivot: p, R1: 2*p - b.Low, S1: 2*p - b.High}
}

// FibLevels are retracements measured down from the window high.
type FibLevels struct {
	High, Low        float64
	Level38, Level61 float64
}

func Fibonacci(closes []float64, window int) FibLevels {
	if len(closes) > window {
		closes = closes[len(closes)-window:]
	}
	hi, lo := math.Inf(-1), math.Inf(1)
	for _, c := range closes {
		hi = math.Max(hi, c)
		lo = math.Min(lo, c)
	}
	r := hi - lo
	return FibLevels{High: hi, Low: lo, Level38: hi - r*fib38, Level61: hi - r*fib61}
}
