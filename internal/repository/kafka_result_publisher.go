package repository

import (
	"context"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
)

// KafkaResultPublisher writes SignalResults as JSON keyed by symbol.
type KafkaResultPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaResultPublisher(p *pkgkafka.Producer, topic string) *KafkaResultPublisher {
	return &KafkaResultPublisher{producer: p, topic: topic}
}

func (k *KafkaResultPublisher) Publish(ctx context.Context, r *models.SignalResult) error {
	return k.producer.Publish(ctx, k.topic, []byte(r.Symbol), r)
}

func (k *KafkaResultPublisher) PublishBatch(ctx context.Context, rs []models.SignalResult) error {
	msgs := make([]pkgkafka.Message, len(rs))
	for i := range rs {
		msgs[i] = pkgkafka.Message{Key: []byte(rs[i].Symbol), Value: &rs[i]}
	}
	return k.producer.PublishBatch(ctx, k.topic, msgs)
}

func (k *KafkaResultPublisher) Close() error { return k.producer.Close() }

// LogResultPublisher stands in when Kafka is disabled; results are only logged.
type LogResultPublisher struct {
	l *applogger.Logger
}

func NewLogResultPublisher(l *applogger.Logger) *LogResultPublisher {
	if l == nil {
		l = applogger.Nop()
	}
	return &LogResultPublisher{l: l}
}

func (p *LogResultPublisher) Publish(_ context.Context, r *models.SignalResult) error {
	p.l.Info("signal result",
		applogger.String("symbol", r.Symbol),
		applogger.Int("score", r.OverallScore),
		applogger.String("recommendation", string(r.Recommendation)),
		applogger.Int("signals", len(r.Signals)),
	)
	return nil
}

func (p *LogResultPublisher) PublishBatch(ctx context.Context, rs []models.SignalResult) error {
	for i := range rs {
		_ = p.Publish(ctx, &rs[i])
	}
	return nil
}

func (p *LogResultPublisher) Close() error { return nil }

var (
	_ domrepo.ResultPublisher = (*KafkaResultPublisher)(nil)
	_ domrepo.ResultPublisher = (*LogResultPublisher)(nil)
)
