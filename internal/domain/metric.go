package domain

// Metric names a numeric column that can be ranked or binned.
type Metric string

// Metric constants for the numeric games columns.
const (
	MetricRating   Metric = "rating"
	MetricPlays    Metric = "plays"
	MetricPlaying  Metric = "playing"
	MetricBacklogs Metric = "backlogs"
	MetricWishlist Metric = "wishlist"
)

// Metrics lists every supported metric in column order.
var Metrics = []Metric{MetricRating, MetricPlays, MetricPlaying, MetricBacklogs, MetricWishlist}

// Valid returns true if the metric is a recognized column.
func (m Metric) Valid() bool {
	switch m {
	case MetricRating, MetricPlays, MetricPlaying, MetricBacklogs, MetricWishlist:
		return true
	default:
		return false
	}
}

// Value extracts the metric from a game as a float64.
// Unknown metrics read as zero; callers check Valid first.
func (m Metric) Value(g *Game) float64 {
	switch m {
	case MetricRating:
		return g.Rating
	case MetricPlays:
		return float64(g.Plays)
	case MetricPlaying:
		return float64(g.Playing)
	case MetricBacklogs:
		return float64(g.Backlogs)
	case MetricWishlist:
		return float64(g.Wishlist)
	default:
		return 0
	}
}

// Label is the human-readable axis label for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricRating:
		return "Rating"
	case MetricPlays:
		return "Plays"
	case MetricPlaying:
		return "Playing"
	case MetricBacklogs:
		return "Backlogs"
	case MetricWishlist:
		return "Wishlist"
	default:
		return string(m)
	}
}
