package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/gamestats/gamestats-server/internal/config"
	"github.com/gamestats/gamestats-server/internal/domain"
	"github.com/gamestats/gamestats-server/internal/logger"
	"github.com/gamestats/gamestats-server/internal/ratelimit"
	"github.com/gamestats/gamestats-server/internal/watcher"
)

// RateLimiterHandle wraps the per-client rate limiter with shutdown capability.
// Limiter is nil when rate limiting is disabled.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the API rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.RateLimit.RequestsPerMinute <= 0 {
		log.Info("API rate limiting disabled")
		return &RateLimiterHandle{}, nil
	}

	limiter := ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	log.Info("API rate limiting enabled",
		"requests_per_minute", cfg.RateLimit.RequestsPerMinute,
		"burst", cfg.RateLimit.Burst,
	)

	return &RateLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// StoreWatcherHandle wraps the store file watcher with shutdown capability.
type StoreWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *StoreWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideStoreWatcher watches the games database and warns when it changes
// underneath the loaded Dataset. The Dataset is never reloaded.
func ProvideStoreWatcher(i do.Injector) (*StoreWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	ds := do.MustInvoke[*domain.Dataset](i)

	if !cfg.Watch.Enabled {
		log.Info("Store watcher disabled by configuration")
		return &StoreWatcherHandle{}, nil
	}

	w, err := watcher.New(log.Logger, watcher.Options{})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(ds.Source()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Store watcher error", "error", err)
		}
	}()

	go func() {
		for event := range w.Events() {
			log.Warn("Games database changed on disk; restart to load the new data",
				"type", event.Type.String(),
				"path", event.Path,
				"snapshot_id", ds.SnapshotID(),
			)
		}
	}()

	log.Info("Store watcher started", "path", ds.Source())

	return &StoreWatcherHandle{Watcher: w, cancel: cancel}, nil
}
