package service

import (
	"time"

	"FinSignal/internal/domain/models"
)

// Snapshot is the read-only input handed to every rule evaluator.
type Snapshot struct {
	Indicators *models.IndicatorSet
	Price      float64
	Bars       []models.Bar
	Now        time.Time
}

// Evaluator turns a snapshot into zero or more signals. Implementations must not
// mutate the snapshot.
type Evaluator interface {
	Name() string
	Evaluate(s Snapshot) []models.Signal
}

// IndicatorProvider computes (or recalls) the indicator set for a symbol's bars.
type IndicatorProvider interface {
	Indicators(symbol string, bars []models.Bar) (*models.IndicatorSet, error)
}
