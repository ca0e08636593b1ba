//go:build wireinject
// +build wireinject

package di

import (
	"PacePulse/pkg/config"
	"PacePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCacheService,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideLineHistoryStore,
		ProvideLinePublisher,
		ProvideLiveStore,
		ProvideOddsFeedStream,
		ProvideProfileSource,

		// Use cases
		ProvideLineProcessor,
		ProvideLineCollector,
		ProvideKafkaLinesHandler,
		ProvideInsightEngine,
		ProvideInsightService,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
