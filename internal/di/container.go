// Package di provides dependency injection configuration for the games dashboard server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/gamestats/gamestats-server/internal/config"
	"github.com/gamestats/gamestats-server/internal/di/providers"
	"github.com/gamestats/gamestats-server/internal/domain"
	"github.com/gamestats/gamestats-server/internal/logger"
	"github.com/gamestats/gamestats-server/internal/service"
	"github.com/gamestats/gamestats-server/internal/store/sqlite"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Data layer
	do.Provide(injector, providers.ProvideLoader)
	do.Provide(injector, providers.ProvideDataset)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideDashboardService)

	// Workers
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideStoreWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the HTTP server is listening.
// A Dataset that cannot be loaded is returned as an error; the server never starts without one.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*sqlite.Loader](injector)

	if _, err := do.Invoke[*domain.Dataset](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.DashboardService](injector)

	// Workers
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.StoreWatcherHandle](injector)

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
