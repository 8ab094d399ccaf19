package domain

// TeamSlots is the number of team columns on a games row (team_1, team_2).
const TeamSlots = 2

// GenreSlots is the number of genre columns on a games row (genre_1..genre_7).
const GenreSlots = 7

// Game is one row of the games table.
// Empty strings in Teams and Genres mark unfilled slots; slot position is kept as stored.
type Game struct {
	Index    int64              `json:"index"`
	Title    string             `json:"title"`
	Rating   float64            `json:"rating"`
	Plays    int64              `json:"plays"`
	Playing  int64              `json:"playing"`
	Backlogs int64              `json:"backlogs"`
	Wishlist int64              `json:"wishlist"`
	Summary  string             `json:"summary"`
	Teams    [TeamSlots]string  `json:"teams"`
	Genres   [GenreSlots]string `json:"genres"`
}

// FilledTeams returns the non-empty team slots in slot order.
func (g *Game) FilledTeams() []string {
	return filled(g.Teams[:])
}

// FilledGenres returns the non-empty genre slots in slot order.
func (g *Game) FilledGenres() []string {
	return filled(g.Genres[:])
}

func filled(slots []string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
