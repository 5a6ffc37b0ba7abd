package models

import "time"

// Bar represents one OHLCV observation for a fixed interval.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// SymbolInfo describes a tradable instrument as reported by the market-data provider.
type SymbolInfo struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Currency         string  `json:"currency"`
	Exchange         string  `json:"exchange"`
	CurrentPrice     float64 `json:"currentPrice"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"changePercent"`
	Volume           float64 `json:"volume"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow,omitempty"`
}

// PlaceholderSymbolInfo is returned when the provider cannot describe a symbol.
func PlaceholderSymbolInfo(symbol string) SymbolInfo {
	return SymbolInfo{
		Symbol:   symbol,
		Name:     symbol,
		Currency: "USD",
		Exchange: "N/A",
	}
}

// Closes extracts close prices in bar order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
