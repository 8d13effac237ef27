//go:build wireinject
// +build wireinject

package di

import (
	"QuantPro/pkg/config"
	"QuantPro/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,

		// Repositories
		ProvideBarArchive,
		ProvideBarSource,

		// Domain services and use cases
		ProvideNormalizer,
		ProvideQuoteUseCase,

		// HTTP surface
		ProvideQuoteHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
