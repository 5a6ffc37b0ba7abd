package repository

import (
	"context"
	"time"

	"FinSignal/internal/domain/models"
)

// ResultPublisher ships finished signal results downstream.
type ResultPublisher interface {
	Publish(ctx context.Context, r *models.SignalResult) error
	PublishBatch(ctx context.Context, rs []models.SignalResult) error
	Close() error
}

// BarStore persists bars so they can later serve as a MarketData source.
type BarStore interface {
	Init(ctx context.Context) error
	StoreBars(ctx context.Context, symbol string, interval Interval, bars []models.Bar) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics is the recorder used by the pipeline and adapters.
type Metrics interface {
	RecordPipelineRun(stage string)
	RecordError(stage string)
	RecordEvaluatorFailure(evaluator string)
	RecordCache(name string, hit bool)
	RecordScore(symbol string, score int)
	RecordLatency(op string, d time.Duration)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordPipelineRun(string)            {}
func (NopMetrics) RecordError(string)                  {}
func (NopMetrics) RecordEvaluatorFailure(string)       {}
func (NopMetrics) RecordCache(string, bool)            {}
func (NopMetrics) RecordScore(string, int)             {}
func (NopMetrics) RecordLatency(string, time.Duration) {}
