// Package service exposes the dashboard views over the loaded games Dataset.
package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gamestats/gamestats-server/internal/analytics"
	"github.com/gamestats/gamestats-server/internal/config"
	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
	"github.com/gamestats/gamestats-server/internal/metrics"
	"github.com/gamestats/gamestats-server/internal/search"
)

// DashboardService computes the dashboard views. The Dataset it wraps is
// immutable, so category breakdowns are computed once per (family, topK).
type DashboardService struct {
	ds     *domain.Dataset
	index  *search.Index
	cfg    config.DashboardConfig
	logger *slog.Logger

	// distinct labels per family; bounds the category memo keys.
	distinct map[domain.Family]int

	mu         sync.Mutex
	categories map[categoryKey]*categoryEntry
}

type categoryKey struct {
	family domain.Family
	topK   int
}

type categoryEntry struct {
	once   sync.Once
	counts []domain.CategoryCount
	err    error
}

// DatasetStatus summarizes the loaded Dataset for health checks.
type DatasetStatus struct {
	Source          string    `json:"source"`
	SnapshotID      string    `json:"snapshot_id"`
	LoadedAt        time.Time `json:"loaded_at"`
	Rows            int       `json:"rows"`
	SearchDocuments uint64    `json:"search_documents"`
}

// NewDashboardService creates a new dashboard service. index may be nil, in
// which case Search reports the data as unavailable.
func NewDashboardService(ds *domain.Dataset, index *search.Index, cfg config.DashboardConfig, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	distinct := map[domain.Family]int{
		domain.FamilyGenre: len(analytics.CountSlots(ds, domain.FamilyGenre)),
		domain.FamilyTeam:  len(analytics.CountSlots(ds, domain.FamilyTeam)),
	}
	return &DashboardService{
		ds:         ds,
		index:      index,
		cfg:        cfg,
		logger:     logger,
		distinct:   distinct,
		categories: make(map[categoryKey]*categoryEntry),
	}
}

// Dataset returns the wrapped Dataset.
func (s *DashboardService) Dataset() *domain.Dataset {
	return s.ds
}

// Defaults returns the configured view defaults.
func (s *DashboardService) Defaults() config.DashboardConfig {
	return s.cfg
}

// observe records the duration of a view computation.
func observe(view string, start time.Time) {
	metrics.RecordAggregation(view, time.Since(start))
}

// Status reports what was loaded and how much of it is searchable.
func (s *DashboardService) Status(_ context.Context) DatasetStatus {
	status := DatasetStatus{
		Source:     s.ds.Source(),
		SnapshotID: s.ds.SnapshotID(),
		LoadedAt:   s.ds.LoadedAt(),
		Rows:       s.ds.Len(),
	}
	if s.index != nil {
		if n, err := s.index.DocumentCount(); err == nil {
			status.SearchDocuments = n
		} else {
			s.logger.Warn("failed to count search documents", "error", err)
		}
	}
	return status
}

// Overview returns the data table rows.
func (s *DashboardService) Overview(_ context.Context) []domain.OverviewRow {
	defer observe("overview", time.Now())
	return analytics.Overview(s.ds)
}

// Titles returns the distinct titles for the game picker.
func (s *DashboardService) Titles(_ context.Context) []string {
	defer observe("titles", time.Now())
	return analytics.Titles(s.ds)
}

// Search finds games by title, summary, genre or team.
func (s *DashboardService) Search(ctx context.Context, q string, limit int) (*search.Result, error) {
	defer observe("search", time.Now())
	if s.index == nil {
		return nil, domainerrors.DataUnavailable("search index is not available")
	}

	res, err := s.index.Search(ctx, q, limit)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search games")
	}
	return res, nil
}

// Detail returns the drill-down view of the game titled title.
func (s *DashboardService) Detail(_ context.Context, title string) (*domain.GameDetail, error) {
	defer observe("detail", time.Now())
	return analytics.Detail(s.ds, title)
}

// TopN ranks games by metric and returns the best n.
func (s *DashboardService) TopN(_ context.Context, metric domain.Metric, n int) ([]domain.TopEntry, error) {
	defer observe("top_n", time.Now())
	return analytics.TopN(s.ds, metric, n)
}

// DefaultTopK returns how many categories of family are shown before Other.
func (s *DashboardService) DefaultTopK(family domain.Family) int {
	if family == domain.FamilyTeam {
		return s.cfg.TeamTopK
	}
	return s.cfg.GenreTopK
}

// Categories returns the category breakdown of family keeping topK labels.
// Results are memoized; the returned slice is the caller's to modify.
// Any topK at or above the number of distinct labels shares one entry, so
// the memo holds at most distinct+1 entries per family.
func (s *DashboardService) Categories(_ context.Context, family domain.Family, topK int) ([]domain.CategoryCount, error) {
	if !family.Valid() {
		return nil, domainerrors.Validationf("unknown category family %q", family)
	}
	if topK < 0 {
		return nil, domainerrors.Validationf("top must be non-negative, got %d", topK)
	}

	key := categoryKey{family: family, topK: min(topK, s.distinct[family])}

	s.mu.Lock()
	entry, hit := s.categories[key]
	if !hit {
		entry = &categoryEntry{}
		s.categories[key] = entry
	}
	s.mu.Unlock()

	metrics.RecordCategoryCache(string(family), hit)

	entry.once.Do(func() {
		defer observe("categories", time.Now())
		entry.counts, entry.err = analytics.AggregateCategories(s.ds, family, key.topK)
		if entry.err == nil {
			s.logger.Debug("category breakdown computed",
				"family", family,
				"top", key.topK,
				"labels", len(entry.counts),
			)
		}
	})

	if entry.err != nil {
		return nil, entry.err
	}
	return slices.Clone(entry.counts), nil
}

// Histogram bins metric into bins equal-width buckets.
func (s *DashboardService) Histogram(_ context.Context, metric domain.Metric, bins int) ([]domain.Bin, error) {
	defer observe("histogram", time.Now())
	return analytics.Histogram(s.ds, metric, bins)
}

// Scatter pairs two metrics per game.
func (s *DashboardService) Scatter(_ context.Context, x, y domain.Metric) ([]domain.Point, error) {
	defer observe("scatter", time.Now())
	return analytics.Scatter(s.ds, x, y)
}
