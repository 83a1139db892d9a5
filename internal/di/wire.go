//go:build wireinject
// +build wireinject

package di

import (
	"StockScan/pkg/config"
	"StockScan/pkg/server"

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
		ProvideCacheStore,
		ProvideTTLPolicy,
		ProvideReportPublisher,
		ProvideRateLimiter,

		// Repositories
		ProvideBarStore,

		// Use cases
		ProvideOrchestrator,
		ProvideCachedOrchestrator,
		ProvideScanner,
		ProvideAggregator,
		ProvideScanService,

		// HTTP
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
