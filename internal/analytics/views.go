package analytics

import (
	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// Overview projects every game onto the columns shown in the data table.
func Overview(ds *domain.Dataset) []domain.OverviewRow {
	rows := make([]domain.OverviewRow, 0, ds.Len())
	ds.Each(func(_ int, g *domain.Game) bool {
		rows = append(rows, domain.OverviewRow{
			Title:    g.Title,
			Rating:   g.Rating,
			Plays:    g.Plays,
			Playing:  g.Playing,
			Backlogs: g.Backlogs,
			Wishlist: g.Wishlist,
		})
		return true
	})
	return rows
}

// Scatter pairs two metrics per game, in dataset order.
func Scatter(ds *domain.Dataset, x, y domain.Metric) ([]domain.Point, error) {
	if !x.Valid() {
		return nil, domainerrors.Validationf("unknown x field %q", x)
	}
	if !y.Valid() {
		return nil, domainerrors.Validationf("unknown y field %q", y)
	}

	points := make([]domain.Point, 0, ds.Len())
	ds.Each(func(_ int, g *domain.Game) bool {
		points = append(points, domain.Point{X: x.Value(g), Y: y.Value(g), Title: g.Title})
		return true
	})
	return points, nil
}

// Titles returns the distinct titles in first-seen order.
func Titles(ds *domain.Dataset) []string {
	seen := make(map[string]struct{}, ds.Len())
	titles := make([]string, 0, ds.Len())
	ds.Each(func(_ int, g *domain.Game) bool {
		if _, dup := seen[g.Title]; !dup {
			seen[g.Title] = struct{}{}
			titles = append(titles, g.Title)
		}
		return true
	})
	return titles
}
