package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"FinSignal/internal/domain/models"
	domrepo "FinSignal/internal/domain/repository"
	pkgcache "FinSignal/pkg/cache"
	pkgkafka "FinSignal/pkg/kafka"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	bars  []models.Bar
	err   error
}

func (s *countingSource) GetHistoricalBars(context.Context, string, domrepo.Period, domrepo.Interval) ([]models.Bar, error) {
	s.calls++
	return s.bars, s.err
}

func (s *countingSource) GetSymbolInfo(_ context.Context, symbol string) (models.SymbolInfo, error) {
	s.calls++
	if s.err != nil {
		return models.SymbolInfo{}, s.err
	}
	return models.SymbolInfo{Symbol: symbol, Name: "Apple"}, nil
}

type recordingStore struct {
	stored map[string]int
	err    error
}

func (r *recordingStore) Init(context.Context) error   { return nil }
func (r *recordingStore) Health(context.Context) error { return nil }
func (r *recordingStore) Close() error                 { return nil }
func (r *recordingStore) StoreBars(_ context.Context, symbol string, _ domrepo.Interval, bars []models.Bar) error {
	if r.err != nil {
		return r.err
	}
	r.stored[symbol] += len(bars)
	return nil
}

func sampleBars() []models.Bar {
	at := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []models.Bar{
		{Time: at, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Time: at.Add(24 * time.Hour), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 12},
	}
}

func TestCachedMarketData_HitsInnerOnce(t *testing.T) {
	src := &countingSource{bars: sampleBars()}
	mc := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	defer mc.Close()
	c := NewCachedMarketData(src, mc, time.Minute)
	ctx := context.Background()

	first, err := c.GetHistoricalBars(ctx, "AAPL", domrepo.Period1Y, domrepo.Interval1d)
	require.NoError(t, err)
	second, err := c.GetHistoricalBars(ctx, "AAPL", domrepo.Period1Y, domrepo.Interval1d)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first, second)

	_, err = c.GetHistoricalBars(ctx, "AAPL", domrepo.Period6M, domrepo.Interval1d)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCachedMarketData_DoesNotCacheFailures(t *testing.T) {
	src := &countingSource{err: models.ErrDataUnavailable}
	mc := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	defer mc.Close()
	c := NewCachedMarketData(src, mc, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.GetHistoricalBars(ctx, "NOPE", domrepo.Period1Y, domrepo.Interval1d)
		assert.ErrorIs(t, err, models.ErrDataUnavailable)
	}
	assert.Equal(t, 2, src.calls)
}

func TestCachedMarketData_SymbolInfo(t *testing.T) {
	src := &countingSource{}
	mc := pkgcache.NewMemoryCache(pkgcache.WithMemoryCleanup(0))
	defer mc.Close()
	c := NewCachedMarketData(src, mc, time.Minute)

	for i := 0; i < 3; i++ {
		info, err := c.GetSymbolInfo(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "Apple", info.Name)
	}
	assert.Equal(t, 1, src.calls)
}

func TestArchivingMarketData_StoresAndToleratesStoreErrors(t *testing.T) {
	src := &countingSource{bars: sampleBars()}
	store := &recordingStore{stored: map[string]int{}}
	a := NewArchivingMarketData(src, store)

	bars, err := a.GetHistoricalBars(context.Background(), "AAPL", domrepo.Period1Y, domrepo.Interval1d)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, 2, store.stored["AAPL"])

	store.err = errors.New("clickhouse down")
	bars, err = a.GetHistoricalBars(context.Background(), "AAPL", domrepo.Period1Y, domrepo.Interval1d)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
}

type memWriter struct{ msgs []kafka.Message }

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error { return nil }

func TestKafkaResultPublisher_KeysBySymbol(t *testing.T) {
	w := &memWriter{}
	pub := NewKafkaResultPublisher(pkgkafka.NewProducerWithWriter(w, "gzip"), "finsignal.signals")

	rs := []models.SignalResult{{Symbol: "AAPL", OverallScore: 72}, {Symbol: "MSFT", OverallScore: 40}}
	require.NoError(t, pub.PublishBatch(context.Background(), rs))
	require.NoError(t, pub.Publish(context.Background(), &rs[0]))

	require.Len(t, w.msgs, 3)
	assert.Equal(t, "AAPL", string(w.msgs[0].Key))
	assert.Equal(t, "MSFT", string(w.msgs[1].Key))
	assert.Equal(t, "finsignal.signals", w.msgs[2].Topic)
	assert.Contains(t, string(w.msgs[0].Value), `"overallScore":72`)
}
