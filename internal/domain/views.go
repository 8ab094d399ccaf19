package domain

// TopEntry is one row of a top-N ranking.
type TopEntry struct {
	Title string  `json:"title"`
	Value float64 `json:"value"`
}

// CategoryCount pairs a genre or team label with its number of slot occurrences.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Bin is one equal-width histogram bucket.
// Low is inclusive; High is exclusive except for the last bin of a histogram.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Point is one scatter-plot sample.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Title string  `json:"title"`
}

// OverviewRow is the tabular projection of a game used by the data table.
type OverviewRow struct {
	Title    string  `json:"title"`
	Rating   float64 `json:"rating"`
	Plays    int64   `json:"plays"`
	Playing  int64   `json:"playing"`
	Backlogs int64   `json:"backlogs"`
	Wishlist int64   `json:"wishlist"`
}

// GameDetail is the drill-down view of a single game.
type GameDetail struct {
	Game
	TeamsLabel      string            `json:"teams_label"`
	GenresLabel     string            `json:"genres_label"`
	SummaryMarkdown string            `json:"summary_markdown"`
	Display         map[string]string `json:"display"`
}
