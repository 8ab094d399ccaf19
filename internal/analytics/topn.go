package analytics

import (
	"cmp"
	"slices"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// TopN ranks every game by metric, highest first, and returns the first n.
// Equal values keep their dataset order. n larger than the dataset returns
// every game; n == 0 returns an empty slice.
func TopN(ds *domain.Dataset, metric domain.Metric, n int) ([]domain.TopEntry, error) {
	if !metric.Valid() {
		return nil, domainerrors.Validationf("unknown metric %q", metric)
	}
	if n < 0 {
		return nil, domainerrors.Validationf("n must be non-negative, got %d", n)
	}

	ranked := make([]domain.TopEntry, 0, ds.Len())
	ds.Each(func(_ int, g *domain.Game) bool {
		ranked = append(ranked, domain.TopEntry{Title: g.Title, Value: metric.Value(g)})
		return true
	})

	slices.SortStableFunc(ranked, func(a, b domain.TopEntry) int {
		return cmp.Compare(b.Value, a.Value)
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}
