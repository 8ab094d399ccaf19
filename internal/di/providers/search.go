package providers

import (
	"github.com/samber/do/v2"

	"github.com/gamestats/gamestats-server/internal/domain"
	"github.com/gamestats/gamestats-server/internal/logger"
	"github.com/gamestats/gamestats-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index over the Dataset.
// An index that fails to build only disables search.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	ds := do.MustInvoke[*domain.Dataset](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(ds, log.Logger)
	if err != nil {
		log.WithError(err).Warn("Search index unavailable")
		return &SearchIndexHandle{}, nil
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}
