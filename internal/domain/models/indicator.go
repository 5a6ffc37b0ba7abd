package models

import (
	"encoding/json"
	"math"
)

// IndicatorName enumerates the closed indicator catalog.
type IndicatorName int

const (
	SMA5 IndicatorName = iota
	SMA10
	SMA20
	SMA50
	SMA100
	SMA200
	EMA5
	EMA10
	EMA20
	EMA50
	EMA100
	EMA200
	WMA20
	MACD
	MACDSignal
	MACDHistogram
	ADX
	RSI
	RSI21
	RSI50
	StochK
	StochD
	StochRSIK
	StochRSID
	CCI
	WillR
	Mom
	ROC
	AO
	TRIX
	UO
	KST
	BBUpper
	BBMiddle
	BBLower
	BBWidth
	ATR
	KCUpper
	KCLower
	StdDev
	OBV
	CMF
	MFI
	VO
	ADLine
	ADOsc
	FI
	NVI
	AroonUp
	AroonDown
	AroonOsc
	PSAR
	SuperTrend
	IchimokuTenkan
	IchimokuKijun
	IchimokuChikou
	Pivot
	PivotR1
	PivotS1
	Fib38
	Fib61

	indicatorCount
)

var indicatorNames = [indicatorCount]string{
	"SMA_5", "SMA_10", "SMA_20", "SMA_50", "SMA_100", "SMA_200",
	"EMA_5", "EMA_10", "EMA_20", "EMA_50", "EMA_100", "EMA_200",
	"WMA_20",
	"MACD", "MACD_SIGNAL", "MACD_HISTOGRAM",
	"ADX",
	"RSI", "RSI_21", "RSI_50",
	"STOCH_K", "STOCH_D", "STOCHRSI_K", "STOCHRSI_D",
	"CCI", "WILLR", "MOM", "ROC", "AO", "TRIX", "UO", "KST",
	"BB_UPPER", "BB_MIDDLE", "BB_LOWER", "BB_WIDTH",
	"ATR", "KC_UPPER", "KC_LOWER", "STDDEV",
	"OBV", "CMF", "MFI", "VO", "AD_LINE", "ADOSC", "FI", "NVI",
	"AROON_UP", "AROON_DOWN", "AROON_OSC", "PSAR", "SUPERTREND",
	"ICHIMOKU_TENKAN", "ICHIMOKU_KIJUN", "ICHIMOKU_CHIKOU",
	"PIVOT", "PIVOT_R1", "PIVOT_S1", "FIB_38", "FIB_61",
}

func (n IndicatorName) String() string {
	if n < 0 || n >= indicatorCount {
		return "UNKNOWN"
	}
	return indicatorNames[n]
}

// IndicatorCatalog lists every indicator name in declaration order.
func IndicatorCatalog() []IndicatorName {
	out := make([]IndicatorName, indicatorCount)
	for i := range out {
		out[i] = IndicatorName(i)
	}
	return out
}

// ParseIndicatorName resolves the wire name of an indicator.
func ParseIndicatorName(s string) (IndicatorName, bool) {
	for i, v := range indicatorNames {
		if v == s {
			return IndicatorName(i), true
		}
	}
	return 0, false
}

// IndicatorSet holds one series per catalog name. A nil series means the
// indicator is absent, usually because the bar history is too short.
// The last element of every series aligns with the last bar.
type IndicatorSet struct {
	series [indicatorCount][]float64
}

// NewIndicatorSet returns an empty set.
func NewIndicatorSet() *IndicatorSet { return &IndicatorSet{} }

// Put stores a series. Empty input marks the indicator absent.
func (s *IndicatorSet) Put(n IndicatorName, v []float64) {
	if n < 0 || n >= indicatorCount {
		return
	}
	if len(v) == 0 {
		s.series[n] = nil
		return
	}
	s.series[n] = v
}

// Series returns the series for n, or nil when absent.
func (s *IndicatorSet) Series(n IndicatorName) []float64 {
	if s == nil || n < 0 || n >= indicatorCount {
		return nil
	}
	return s.series[n]
}

// Has reports whether n is present.
func (s *IndicatorSet) Has(n IndicatorName) bool { return len(s.Series(n)) > 0 }

// Latest returns the most recent value of n.
func (s *IndicatorSet) Latest(n IndicatorName) (float64, bool) { return s.Back(n, 0) }

// Back returns the value k positions before the most recent one.
func (s *IndicatorSet) Back(n IndicatorName, k int) (float64, bool) {
	v := s.Series(n)
	i := len(v) - 1 - k
	if k < 0 || i < 0 {
		return 0, false
	}
	x := v[i]
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// Present lists the names with a series, in catalog order.
func (s *IndicatorSet) Present() []IndicatorName {
	var out []IndicatorName
	for i := IndicatorName(0); i < indicatorCount; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// LatestValues maps present indicator names to their most recent value.
func (s *IndicatorSet) LatestValues() map[string]float64 {
	out := make(map[string]float64)
	for _, n := range s.Present() {
		if v, ok := s.Latest(n); ok {
			out[n.String()] = v
		}
	}
	return out
}

// MarshalJSON encodes present series keyed by wire name.
func (s *IndicatorSet) MarshalJSON() ([]byte, error) {
	out := make(map[string][]float64)
	for _, n := range s.Present() {
		out[n.String()] = s.series[n]
	}
	return json.Marshal(out)
}
