package providers

import (
	"github.com/samber/do/v2"

	"github.com/gamestats/gamestats-server/internal/config"
	"github.com/gamestats/gamestats-server/internal/domain"
	"github.com/gamestats/gamestats-server/internal/logger"
	"github.com/gamestats/gamestats-server/internal/service"
)

// ProvideDashboardService provides the dashboard view service.
func ProvideDashboardService(i do.Injector) (*service.DashboardService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	ds := do.MustInvoke[*domain.Dataset](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	return service.NewDashboardService(ds, indexHandle.Index, cfg.Dashboard, log.Logger), nil
}
