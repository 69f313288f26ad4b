//go:build wireinject
// +build wireinject

package di

import (
	"TargetCast/pkg/config"
	"TargetCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideBytesCache,
		ProvidePriceProvider,
		ProvideForecastSink,

		// Forecasting
		ProvidePredictorFactory,
		ProvideForecastOrchestrator,

		// HTTP
		ProvidePredictHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
