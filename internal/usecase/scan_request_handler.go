package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domrepo "FinSignal/internal/domain/repository"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
)

// ScanRequest is the Kafka payload asking for a batch scan.
type ScanRequest struct {
	Symbols []string `json:"symbols"`
	Period  string   `json:"period"`
}

// ScanRequestHandler consumes scan requests, runs the batch and publishes each result.
type ScanRequestHandler struct {
	topic   string
	batch   *BatchSignalsUseCase
	pub     domrepo.ResultPublisher
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewScanRequestHandler(topic string, batch *BatchSignalsUseCase, pub domrepo.ResultPublisher, metrics domrepo.Metrics) *ScanRequestHandler {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &ScanRequestHandler{topic: topic, batch: batch, pub: pub, metrics: metrics}
}

// SetLogger sets optional logger.
func (h *ScanRequestHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *ScanRequestHandler) Topic() string { return h.topic }

func (h *ScanRequestHandler) Handle(ctx context.Context, b []byte) error {
	var req ScanRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("scan_unmarshal")
		return fmt.Errorf("decode scan request: %w", err)
	}
	if len(req.Symbols) == 0 {
		h.metrics.RecordError("scan_empty")
		return fmt.Errorf("scan request without symbols")
	}

	start := time.Now()
	res := h.batch.Run(ctx, req.Symbols, domrepo.NormalizePeriod(req.Period))
	h.metrics.RecordLatency("scan_request", time.Since(start))

	if h.l != nil {
		h.l.Info("scan request processed",
			applogger.Int("requested", len(req.Symbols)),
			applogger.Int("succeeded", res.Count))
	}
	if res.Count == 0 {
		return nil
	}
	if err := h.pub.PublishBatch(ctx, res.Signals); err != nil {
		h.metrics.RecordError("scan_publish")
		return fmt.Errorf("publish scan results: %w", err)
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*ScanRequestHandler)(nil)
