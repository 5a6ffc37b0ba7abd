package models

import (
	"fmt"
	"time"
)

// SignalType is the direction of a single signal.
type SignalType string

const (
	SignalBuy     SignalType = "BUY"
	SignalSell    SignalType = "SELL"
	SignalNeutral SignalType = "NEUTRAL"
)

// Signal is one directional observation emitted by a rule.
type Signal struct {
	Type        SignalType `json:"type"`
	Indicator   string     `json:"indicator"`
	Description string     `json:"description"`
	Strength    float64    `json:"strength"`
	Timestamp   time.Time  `json:"timestamp"`
}

// NewSignal builds a Signal with its strength clamped to [0,100].
func NewSignal(t SignalType, indicator, description string, strength float64, at time.Time) Signal {
	return Signal{
		Type:        t,
		Indicator:   indicator,
		Description: description,
		Strength:    ClampStrength(strength),
		Timestamp:   at,
	}
}

// ClampStrength bounds v to [0,100]. NaN maps to 0.
func ClampStrength(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// StrengthLabel qualifies an overall score.
type StrengthLabel string

const (
	StrengthVeryStrong StrengthLabel = "very strong"
	StrengthStrong     StrengthLabel = "strong"
	StrengthModerate   StrengthLabel = "moderate"
	StrengthWeak       StrengthLabel = "weak"
	StrengthVeryWeak   StrengthLabel = "very weak"
)

// Recommendation is the final call derived from score and signal counts.
type Recommendation string

const (
	RecommendStrongBuy  Recommendation = "strong-buy"
	RecommendBuy        Recommendation = "buy"
	RecommendNeutral    Recommendation = "neutral"
	RecommendSell       Recommendation = "sell"
	RecommendStrongSell Recommendation = "strong-sell"
)

// ResultTTL is how long a SignalResult stays valid after generation.
const ResultTTL = 24 * time.Hour

// SignalResult is the aggregated verdict for one symbol at one point in time.
type SignalResult struct {
	ID             string         `json:"id"`
	Symbol         string         `json:"symbol"`
	Timestamp      time.Time      `json:"timestamp"`
	Price          float64        `json:"price"`
	Signals        []Signal       `json:"signals"`
	OverallScore   int            `json:"overallScore"`
	Strength       StrengthLabel  `json:"strength"`
	Recommendation Recommendation `json:"recommendation"`
	Timeframe      string         `json:"timeframe"`
	Expiration     time.Time      `json:"expiration"`
}

// ResultID formats the identifier of a result generated at t.
func ResultID(symbol string, t time.Time) string {
	return fmt.Sprintf("%s_%d", symbol, t.UnixMilli())
}

// BatchResult holds the successful results of a multi-symbol run.
type BatchResult struct {
	Signals   []SignalResult `json:"signals"`
	Count     int            `json:"count"`
	Timestamp time.Time      `json:"timestamp"`
}
