// Package scoring reduces a signal list to a score, a strength label and a
// recommendation.
package scoring

import (
	"math"

	"FinSignal/internal/domain/models"
)

// NeutralScore is reported when there is nothing to weigh.
const NeutralScore = 50

// Score weighs each signal by strength/100. BUY and SELL move the signed sum;
// NEUTRAL only dilutes it. The mean is mapped from [-100,100] to [0,100].
func Score(signals []models.Signal) int {
	var sum, weight float64
	for _, s := range signals {
		w := s.Strength / 100
		switch s.Type {
		case models.SignalBuy:
			sum += s.Strength * w
		case models.SignalSell:
			sum -= s.Strength * w
		}
		weight += w
	}
	if weight == 0 {
		return NeutralScore
	}
	v := (sum/weight + 100) / 2
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func Label(score int) models.StrengthLabel {
	switch {
	case score >= 80:
		return models.StrengthVeryStrong
	case score >= 65:
		return models.StrengthStrong
	case score >= 50:
		return models.StrengthModerate
	case score >= 35:
		return models.StrengthWeak
	default:
		return models.StrengthVeryWeak
	}
}

// Recommend requires the score and the BUY/SELL majority to agree; anything
// else is neutral.
func Recommend(score int, signals []models.Signal) models.Recommendation {
	buys, sells := Count(signals)
	switch {
	case score >= 70 && buys > sells:
		return models.RecommendStrongBuy
	case score >= 55 && buys > sells:
		return models.RecommendBuy
	case score <= 30 && sells > buys:
		return models.RecommendStrongSell
	case score <= 45 && sells > buys:
		return models.RecommendSell
	default:
		return models.RecommendNeutral
	}
}

// Count returns the number of BUY and SELL signals.
func Count(signals []models.Signal) (buys, sells int) {
	for _, s := range signals {
		switch s.Type {
		case models.SignalBuy:
			buys++
		case models.SignalSell:
			sells++
		}
	}
	return buys, sells
}

// Verdict bundles the three aggregate outputs.
type Verdict struct {
	Score          int
	Strength       models.StrengthLabel
	Recommendation models.Recommendation
}

func Aggregate(signals []models.Signal) Verdict {
	score := Score(signals)
	return Verdict{
		Score:          score,
		Strength:       Label(score),
		Recommendation: Recommend(score, signals),
	}
}
