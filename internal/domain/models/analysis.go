package models

import "time"

// IndicatorReport is the latest-value view of an indicator set.
type IndicatorReport struct {
	Symbol    string             `json:"symbol"`
	Timestamp time.Time          `json:"timestamp"`
	Price     float64            `json:"price"`
	BarCount  int                `json:"barCount"`
	Latest    map[string]float64 `json:"latest"`
	Series    *IndicatorSet      `json:"series,omitempty"`
	Absent    []string           `json:"absent,omitempty"`
}

// Analysis bundles everything computed for one symbol.
type Analysis struct {
	Symbol     string           `json:"symbol"`
	Info       *SymbolInfo      `json:"symbolInfo,omitempty"`
	Bars       []Bar            `json:"historicalData"`
	Indicators *IndicatorReport `json:"indicators"`
	Signal     *SignalResult    `json:"signals"`
}
