package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/gamestats/gamestats-server/internal/config"
	"github.com/gamestats/gamestats-server/internal/domain"
	"github.com/gamestats/gamestats-server/internal/logger"
	"github.com/gamestats/gamestats-server/internal/store/sqlite"
)

// ProvideLoader provides the memoizing Dataset loader.
func ProvideLoader(i do.Injector) (*sqlite.Loader, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return sqlite.NewLoader(log.Logger), nil
}

// ProvideDataset loads the games table once. Failure is fatal to bootstrap.
func ProvideDataset(i do.Injector) (*domain.Dataset, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	loader := do.MustInvoke[*sqlite.Loader](i)

	dataLog := log.WithField("path", cfg.Data.Path)

	ds, err := loader.LoadCached(context.Background(), cfg.Data.Path)
	if err != nil {
		dataLog.WithError(err).Error("Failed to load games dataset")
		return nil, err
	}

	if ds.Len() == 0 {
		dataLog.Warn("Games table is empty; views will render without data")
	}
	dataLog.Info("Games dataset loaded",
		"rows", ds.Len(),
		"snapshot_id", ds.SnapshotID(),
	)

	return ds, nil
}
