package di

import (
	"context"
	"fmt"
	"time"

	"FinSignal/internal/domain/models"
	"FinSignal/internal/domain/repository"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/handler/api"
	internalrepo "FinSignal/internal/repository"
	"FinSignal/internal/scheduler"
	"FinSignal/internal/service/cache"
	"FinSignal/internal/service/ratelimit"
	"FinSignal/internal/services/indicators"
	"FinSignal/internal/services/rules"
	"FinSignal/internal/usecase"
	pkgcache "FinSignal/pkg/cache"
	pkgch "FinSignal/pkg/clickhouse"
	"FinSignal/pkg/config"
	xhttp "FinSignal/pkg/http"
	"FinSignal/pkg/http/middleware"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
	"FinSignal/pkg/metrics"
	"FinSignal/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient opens ClickHouse when enabled; nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the bar table on an open ClickHouse client.
func ProvideBarStore(ch *pkgch.Client, l *applogger.Logger) (*internalrepo.CHBarStore, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewCHBarStore(ch)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideCache returns Redis when enabled, else an in-process cache.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideMarketData builds the source chain: provider, optional archive, cache.
func ProvideMarketData(
	cfg *config.Config,
	store *internalrepo.CHBarStore,
	c pkgcache.Service,
	m repository.Metrics,
	l *applogger.Logger,
) repository.MarketData {
	var src repository.MarketData
	switch cfg.MarketData.Source {
	case "clickhouse":
		src = store
	default:
		y := internalrepo.NewYahooMarketData(
			xhttp.NewClient(xhttp.WithTimeout(cfg.MarketData.Timeout)),
			cfg.MarketData.BaseURL,
		)
		y.SetLogger(l)
		src = y
		if cfg.MarketData.Archive && store != nil {
			a := internalrepo.NewArchivingMarketData(y, store)
			a.SetLogger(l)
			src = a
		}
	}

	cached := internalrepo.NewCachedMarketData(src, c, cfg.MarketData.CacheTTL)
	cached.SetLogger(l)
	cached.SetMetrics(m)
	return cached
}

// ProvideIndicatorEngine wraps the indicator engine in the TTL cache and starts
// its sweeper; the app closes it on shutdown.
func ProvideIndicatorEngine(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *indicators.CachedEngine {
	engine := indicators.NewEngine()
	engine.SetLogger(l)
	cached := indicators.NewCachedEngine(engine, cache.SystemClock{}, cfg.Indicators.CacheTTL)
	cached.SetMetrics(m)
	cached.StartSweeper(cfg.Indicators.CacheTTL)
	return cached
}

// ProvideEvaluators returns the rule set in evaluation order.
func ProvideEvaluators() []domsvc.Evaluator {
	return rules.Default()
}

func ProvideSignalPipeline(
	cfg *config.Config,
	data repository.MarketData,
	ind domsvc.IndicatorProvider,
	evs []domsvc.Evaluator,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SignalPipeline {
	p := usecase.NewSignalPipeline(data, ind, evs)
	p.SetTimeframe(cfg.Pipeline.Timeframe, repository.Interval(cfg.Pipeline.Interval))
	p.SetFetchTimeout(cfg.Pipeline.FetchTimeout)
	p.SetMetrics(m)
	p.SetLogger(l)
	return p
}

func ProvideBatchSignals(cfg *config.Config, p *usecase.SignalPipeline, m repository.Metrics, l *applogger.Logger) *usecase.BatchSignalsUseCase {
	uc := usecase.NewBatchSignalsUseCase(p, cfg.Pipeline.BatchWorkers)
	uc.SetMetrics(m)
	uc.SetLogger(l)
	return uc
}

func ProvideMarketDataUseCase(data repository.MarketData, l *applogger.Logger) *usecase.MarketDataUseCase {
	uc := usecase.NewMarketDataUseCase(data)
	uc.SetLogger(l)
	return uc
}

func ProvideAnalysisUseCase(p *usecase.SignalPipeline, market *usecase.MarketDataUseCase) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(p, market)
}

// ProvideRateLimiter limits batch requests per client; a zero limit disables it.
func ProvideRateLimiter(cfg *config.Config) middleware.Allower {
	if cfg.Server.BatchRateLimit <= 0 {
		return nil
	}
	return ratelimit.New(cfg.Server.BatchRateLimit)
}

func ProvideSignalsHandler(
	l *applogger.Logger,
	p *usecase.SignalPipeline,
	batch *usecase.BatchSignalsUseCase,
	market *usecase.MarketDataUseCase,
	analysis *usecase.AnalysisUseCase,
	limiter middleware.Allower,
) *api.SignalsEchoHandler {
	return api.NewSignalsEchoHandler(l, p, batch, market, analysis, limiter)
}

func ProvideHTTPServer(cfg *config.Config, h *api.SignalsEchoHandler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h, l,
		xhttp.WithAddr(cfg.Server.Host, cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		xhttp.WithCORS(!cfg.Server.DisableCORS),
		xhttp.WithMetricsPath(cfg.Metrics.Path),
	)
}

// ProvideResultPublisher publishes to Kafka when enabled, else to the log.
func ProvideResultPublisher(cfg *config.Config, l *applogger.Logger) (repository.ResultPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NewLogResultPublisher(l), nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatch(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaResultPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideKafkaConsumer creates the scan-request consumer when enabled; nil otherwise.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.SetLogger(l)
	return consumer, nil
}

func ProvideScanRequestHandler(
	cfg *config.Config,
	batch *usecase.BatchSignalsUseCase,
	pub repository.ResultPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ScanRequestHandler {
	h := usecase.NewScanRequestHandler(cfg.Kafka.Consumer.Topic, batch, pub, m)
	h.SetLogger(l)
	return h
}

// ProvideScanner builds the watchlist scanner when enabled; nil otherwise.
// With Redis enabled replicas share a lock so each slot is scanned once.
func ProvideScanner(
	cfg *config.Config,
	batch *usecase.BatchSignalsUseCase,
	pub repository.ResultPublisher,
	c pkgcache.Service,
	l *applogger.Logger,
) *scheduler.Scanner {
	if !cfg.Scanner.Enabled {
		return nil
	}
	symbols := cfg.Scanner.Symbols
	if len(symbols) == 0 {
		symbols = models.DefaultWatchlist()
	}
	s := scheduler.NewScanner(batch, pub, symbols, repository.Period(cfg.Scanner.Period))
	s.SetLogger(l)
	if cfg.Redis.Enabled {
		s.SetLock(c, 0)
	}
	return s
}

// ProvideApp assembles the application and registers resources for shutdown.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	ind *indicators.CachedEngine,
	ch *pkgch.Client,
	c pkgcache.Service,
	pub repository.ResultPublisher,
	consumer *pkgkafka.Consumer,
	kh *usecase.ScanRequestHandler,
	scanner *scheduler.Scanner,
) *server.App {
	app := server.New(l, srv, cfg.Server.ShutdownTimeout)
	if ch != nil {
		app.AddCloser("clickhouse", ch)
	}
	app.AddCloser("cache", c)
	app.AddCloser("indicator cache", ind)
	app.AddCloser("publisher", pub)
	if consumer != nil {
		app.SetConsumer(consumer, kh)
	}
	if scanner != nil {
		app.SetScanner(scanner, cfg.Scanner.Cron)
	}
	l.Info("application assembled",
		applogger.String("marketdata", cfg.MarketData.Source),
		applogger.Bool("redis", cfg.Redis.Enabled),
		applogger.Bool("clickhouse", cfg.ClickHouse.Enabled),
		applogger.Bool("kafka", cfg.Kafka.Enabled),
		applogger.Bool("scanner", cfg.Scanner.Enabled),
	)
	return app
}
