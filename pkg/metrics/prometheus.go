package metrics

import (
	"time"

	"FinSignal/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	pipelineRuns      *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	evaluatorFailures *prometheus.CounterVec
	cacheLookups      *prometheus.CounterVec
	score             *prometheus.GaugeVec
	latency           *prometheus.HistogramVec
}

// New registers the recorder on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the recorder on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		pipelineRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_pipeline_runs_total",
				Help: "Pipeline stage completions",
			},
			[]string{"stage"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_errors_total",
				Help: "Errors by pipeline stage",
			},
			[]string{"stage"},
		),
		evaluatorFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_evaluator_failures_total",
				Help: "Evaluators that panicked and were skipped",
			},
			[]string{"evaluator"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_cache_lookups_total",
				Help: "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		score: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "finsignal_signal_score",
				Help: "Last overall score per symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsignal_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordPipelineRun(stage string) {
	r.pipelineRuns.WithLabelValues(stage).Inc()
}

func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

func (r *Recorder) RecordEvaluatorFailure(evaluator string) {
	r.evaluatorFailures.WithLabelValues(evaluator).Inc()
}

func (r *Recorder) RecordCache(name string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(name, result).Inc()
}

func (r *Recorder) RecordScore(symbol string, score int) {
	r.score.WithLabelValues(symbol).Set(float64(score))
}

func (r *Recorder) RecordLatency(op string, d time.Duration) {
	r.latency.WithLabelValues(op).Observe(d.Seconds())
}

var _ repository.Metrics = (*Recorder)(nil)
