//go:build wireinject
// +build wireinject

package di

import (
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/services/indicators"
	"FinSignal/pkg/config"
	"FinSignal/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideBarStore,
		ProvideCache,
		ProvideResultPublisher,
		ProvideKafkaConsumer,

		// Repositories
		ProvideMarketData,

		// Signal core
		ProvideIndicatorEngine,
		wire.Bind(new(domsvc.IndicatorProvider), new(*indicators.CachedEngine)),
		ProvideEvaluators,

		// Use cases
		ProvideSignalPipeline,
		ProvideBatchSignals,
		ProvideMarketDataUseCase,
		ProvideAnalysisUseCase,
		ProvideScanRequestHandler,
		ProvideScanner,

		// Transport
		ProvideRateLimiter,
		ProvideSignalsHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
