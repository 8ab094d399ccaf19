package api

import (
	"strings"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// Control ranges exposed by the dashboard.
const (
	MinTopN = 5
	MaxTopN = 50
	MinBins = 5
	MaxBins = 40
)

// clampInt resolves a query control: zero means def, anything else is pinned to [lo, hi].
func clampInt(v, def, lo, hi int) int {
	if v == 0 {
		v = def
	}
	return min(max(v, lo), hi)
}

func (s *Server) topN(n int) int {
	return clampInt(n, s.dashboard.Defaults().DefaultTopN, MinTopN, MaxTopN)
}

func (s *Server) bins(n int) int {
	return clampInt(n, s.dashboard.Defaults().DefaultBins, MinBins, MaxBins)
}

// topK resolves the category count for family; negative means the family default.
func (s *Server) topK(family domain.Family, top int) int {
	if top < 0 {
		return s.dashboard.DefaultTopK(family)
	}
	return top
}

func parseMetric(raw string, def domain.Metric) (domain.Metric, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return def, nil
	}
	m := domain.Metric(raw)
	if !m.Valid() {
		return "", domainerrors.Validationf("unknown metric %q", raw).
			WithDetails(map[string]any{"allowed": domain.Metrics})
	}
	return m, nil
}

func parseFamily(raw string) (domain.Family, error) {
	f := domain.Family(strings.ToLower(strings.TrimSpace(raw)))
	if !f.Valid() {
		return "", domainerrors.Validationf("unknown category family %q", raw).
			WithDetails(map[string]any{"allowed": []domain.Family{domain.FamilyGenre, domain.FamilyTeam}})
	}
	return f, nil
}
