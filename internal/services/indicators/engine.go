package indicators

import (
	"fmt"
	"math"

	"FinSignal/internal/domain/models"
	applogger "FinSignal/pkg/logger"
)

// ohlcv holds the bar columns every calculation reads from.
type ohlcv struct {
	bars   []models.Bar
	open   []float64
	high   []float64
	low    []float64
	close  []float64
	volume []float64
}

func newOHLCV(bars []models.Bar) *ohlcv {
	n := len(bars)
	in := &ohlcv{
		bars:   bars,
		open:   make([]float64, n),
		high:   make([]float64, n),
		low:    make([]float64, n),
		close:  make([]float64, n),
		volume: make([]float64, n),
	}
	for i, b := range bars {
		in.open[i] = b.Open
		in.high[i] = b.High
		in.low[i] = b.Low
		in.close[i] = b.Close
		in.volume[i] = b.Volume
	}
	return in
}

func (in *ohlcv) len() int { return len(in.close) }

// calc produces one or more named series. run returns full-length outputs in the
// order of names; the first lookback positions are warm-up and get dropped.
type calc struct {
	names    []models.IndicatorName
	lookback int
	minBars  int
	run      func(in *ohlcv) [][]float64
}

func (c calc) ready(n int) bool {
	return n > c.lookback && n >= c.minBars
}

// Engine computes the indicator catalog from a bar sequence.
type Engine struct {
	calcs []calc
	l     *applogger.Logger
}

func NewEngine() *Engine {
	calcs := make([]calc, 0, 48)
	calcs = append(calcs, trendCalcs()...)
	calcs = append(calcs, momentumCalcs()...)
	calcs = append(calcs, volatilityCalcs()...)
	calcs = append(calcs, volumeCalcs()...)
	calcs = append(calcs, overlayCalcs()...)
	calcs = append(calcs, levelCalcs()...)
	return &Engine{calcs: calcs}
}

// SetLogger sets optional logger for dropped indicators.
func (e *Engine) SetLogger(l *applogger.Logger) { e.l = l }

// Compute returns every indicator the bar history supports. Short history leaves
// a series absent; malformed bars abort with *models.ComputationError.
func (e *Engine) Compute(bars []models.Bar) (*models.IndicatorSet, error) {
	if err := ValidateBars(bars); err != nil {
		return nil, err
	}
	in := newOHLCV(bars)
	set := models.NewIndicatorSet()
	for _, c := range e.calcs {
		if !c.ready(in.len()) {
			continue
		}
		out, err := e.run(c, in)
		if err != nil {
			if e.l != nil {
				e.l.Warn("indicator dropped",
					applogger.String("indicator", c.names[0].String()),
					applogger.Int("bars", in.len()),
					applogger.Error(err))
			}
			continue
		}
		for i, name := range c.names {
			set.Put(name, out[i])
		}
	}
	return set, nil
}

func (e *Engine) run(c calc, in *ohlcv) (out [][]float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", c.names[0], r)
		}
	}()
	raw := c.run(in)
	if len(raw) != len(c.names) {
		return nil, fmt.Errorf("%s: expected %d outputs, got %d", c.names[0], len(c.names), len(raw))
	}
	out = make([][]float64, len(raw))
	for i, v := range raw {
		if len(v) != in.len() {
			return nil, fmt.Errorf("%s: output length %d, want %d", c.names[i], len(v), in.len())
		}
		s := v[c.lookback:]
		if !finite(s) {
			return nil, fmt.Errorf("%s: non-finite value", c.names[i])
		}
		out[i] = s
	}
	return out, nil
}

// ValidateBars rejects bars that cannot be fed to the indicator math.
func ValidateBars(bars []models.Bar) error {
	for i, b := range bars {
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &models.ComputationError{Index: i, Reason: "non-finite value"}
			}
		}
		if b.Volume < 0 {
			return &models.ComputationError{Index: i, Reason: "negative volume"}
		}
		if b.High < b.Low {
			return &models.ComputationError{Index: i, Reason: "high below low"}
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return &models.ComputationError{Index: i, Reason: "timestamps not strictly ascending"}
		}
	}
	return nil
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
