package analytics

import (
	"time"

	"github.com/gamestats/gamestats-server/internal/domain"
)

// game builds a row with just a title and rating; use the option funcs for the rest.
func game(title string, rating float64, opts ...func(*domain.Game)) domain.Game {
	g := domain.Game{Title: title, Rating: rating}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func withPlays(n int64) func(*domain.Game) {
	return func(g *domain.Game) { g.Plays = n }
}

func withGenres(genres ...string) func(*domain.Game) {
	return func(g *domain.Game) { copy(g.Genres[:], genres) }
}

func withTeams(teams ...string) func(*domain.Game) {
	return func(g *domain.Game) { copy(g.Teams[:], teams) }
}

func dataset(games ...domain.Game) *domain.Dataset {
	for i := range games {
		games[i].Index = int64(i)
	}
	return domain.NewDataset(games, "test.db", "ds-test", time.Unix(0, 0))
}
