package usecase

import (
	"context"
	"sync"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	applogger "FinSignal/pkg/logger"
)

const defaultBatchWorkers = 4

// BatchSignalsUseCase runs the pipeline for many symbols on a bounded worker
// pool. A failing symbol is logged and left out of the result.
type BatchSignalsUseCase struct {
	pipeline *SignalPipeline
	workers  int
	l        *applogger.Logger
	m        domrepo.Metrics
}

func NewBatchSignalsUseCase(p *SignalPipeline, workers int) *BatchSignalsUseCase {
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	return &BatchSignalsUseCase{pipeline: p, workers: workers, m: domrepo.NopMetrics{}}
}

// SetLogger sets optional logger.
func (uc *BatchSignalsUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// SetMetrics sets optional metrics recorder.
func (uc *BatchSignalsUseCase) SetMetrics(m domrepo.Metrics) {
	if m != nil {
		uc.m = m
	}
}

// Run returns successful results in the order the symbols were given.
func (uc *BatchSignalsUseCase) Run(ctx context.Context, symbols []string, period domrepo.Period) *models.BatchResult {
	uc.m.RecordPipelineRun("batch")
	results := make([]*models.SignalResult, len(symbols))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := min(uc.workers, len(symbols))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = uc.one(ctx, symbols[i], period)
			}
		}()
	}

	for i := range symbols {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := &models.BatchResult{
		Signals:   make([]models.SignalResult, 0, len(symbols)),
		Timestamp: uc.pipeline.clock.Now(),
	}
	for _, r := range results {
		if r != nil {
			out.Signals = append(out.Signals, *r)
		}
	}
	out.Count = len(out.Signals)
	return out
}

func (uc *BatchSignalsUseCase) one(ctx context.Context, symbol string, period domrepo.Period) (res *models.SignalResult) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			uc.m.RecordError("batch_symbol")
			if uc.l != nil {
				uc.l.Error("batch symbol panicked", applogger.String("symbol", symbol), applogger.Any("panic", r))
			}
		}
	}()
	res, err := uc.pipeline.Generate(ctx, symbol, period)
	if err != nil {
		uc.m.RecordError("batch_symbol")
		if uc.l != nil {
			uc.l.Warn("batch symbol omitted", applogger.String("symbol", symbol), applogger.Error(err))
		}
		return nil
	}
	return res
}
