package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamestats/gamestats-server/internal/domain"
)

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTopN",
		Method:      http.MethodGet,
		Path:        "/api/v1/top",
		Summary:     "Top games",
		Description: "Ranks games by a metric; ties keep dataset order",
		Tags:        []string{"Views"},
	}, s.handleTopN)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{family}",
		Summary:     "Category breakdown",
		Description: "Counts genre or team occurrences across all slots, folding the long tail into Other",
		Tags:        []string{"Views"},
	}, s.handleCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getHistogram",
		Method:      http.MethodGet,
		Path:        "/api/v1/histogram",
		Summary:     "Distribution",
		Description: "Bins a metric into equal-width buckets",
		Tags:        []string{"Views"},
	}, s.handleHistogram)

	huma.Register(s.api, huma.Operation{
		OperationID: "getScatter",
		Method:      http.MethodGet,
		Path:        "/api/v1/scatter",
		Summary:     "Scatter series",
		Description: "Pairs two metrics per game, plays against rating by default",
		Tags:        []string{"Views"},
	}, s.handleScatter)
}

// === DTOs ===

// TopNInput contains parameters for ranking games.
type TopNInput struct {
	Metric string `query:"metric" default:"rating" doc:"Metric to rank by: rating, plays, playing, backlogs or wishlist"`
	N      int    `query:"n" doc:"Number of games (5-50, default 5)"`
}

// TopNResponse contains a ranking.
type TopNResponse struct {
	Metric  domain.Metric     `json:"metric" doc:"Ranked metric"`
	N       int               `json:"n" doc:"Requested count after clamping"`
	Entries []domain.TopEntry `json:"entries" doc:"Best games first"`
}

// TopNOutput wraps the ranking for Huma.
type TopNOutput struct {
	Body TopNResponse
}

// CategoriesInput selects the slot family and how many labels to keep.
type CategoriesInput struct {
	Family string `path:"family" doc:"genre or team"`
	Top    int    `query:"top" default:"-1" doc:"Labels kept before Other (default 5 for genre, 10 for team)"`
}

// CategoriesResponse contains a category breakdown.
type CategoriesResponse struct {
	Family domain.Family          `json:"family" doc:"Slot family"`
	Top    int                    `json:"top" doc:"Labels kept before Other"`
	Total  int                    `json:"total" doc:"Sum of all counts, Other included"`
	Counts []domain.CategoryCount `json:"counts" doc:"Descending counts, Other last"`
}

// CategoriesOutput wraps the breakdown for Huma.
type CategoriesOutput struct {
	Body CategoriesResponse
}

// HistogramInput contains parameters for binning.
type HistogramInput struct {
	Field string `query:"field" default:"rating" doc:"Metric to bin"`
	Bins  int    `query:"bins" doc:"Number of bins (5-40, default 20)"`
}

// HistogramResponse contains a histogram.
type HistogramResponse struct {
	Field domain.Metric `json:"field" doc:"Binned metric"`
	Bins  []domain.Bin  `json:"bins" doc:"Equal-width bins in ascending order"`
}

// HistogramOutput wraps the histogram for Huma.
type HistogramOutput struct {
	Body HistogramResponse
}

// ScatterInput selects the axes.
type ScatterInput struct {
	X string `query:"x" default:"plays" doc:"Metric on the horizontal axis"`
	Y string `query:"y" default:"rating" doc:"Metric on the vertical axis"`
}

// ScatterResponse contains a scatter series.
type ScatterResponse struct {
	X      domain.Metric  `json:"x" doc:"Horizontal metric"`
	Y      domain.Metric  `json:"y" doc:"Vertical metric"`
	Points []domain.Point `json:"points" doc:"One point per game"`
}

// ScatterOutput wraps the series for Huma.
type ScatterOutput struct {
	Body ScatterResponse
}

// === Handlers ===

func (s *Server) handleTopN(ctx context.Context, input *TopNInput) (*TopNOutput, error) {
	metric, err := parseMetric(input.Metric, domain.MetricRating)
	if err != nil {
		return nil, err
	}
	n := s.topN(input.N)

	entries, err := s.dashboard.TopN(ctx, metric, n)
	if err != nil {
		return nil, err
	}
	return &TopNOutput{
		Body: TopNResponse{Metric: metric, N: n, Entries: entries},
	}, nil
}

func (s *Server) handleCategories(ctx context.Context, input *CategoriesInput) (*CategoriesOutput, error) {
	family, err := parseFamily(input.Family)
	if err != nil {
		return nil, err
	}
	top := s.topK(family, input.Top)

	counts, err := s.dashboard.Categories(ctx, family, top)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return &CategoriesOutput{
		Body: CategoriesResponse{Family: family, Top: top, Total: total, Counts: counts},
	}, nil
}

func (s *Server) handleHistogram(ctx context.Context, input *HistogramInput) (*HistogramOutput, error) {
	metric, err := parseMetric(input.Field, domain.MetricRating)
	if err != nil {
		return nil, err
	}

	bins, err := s.dashboard.Histogram(ctx, metric, s.bins(input.Bins))
	if err != nil {
		return nil, err
	}
	return &HistogramOutput{
		Body: HistogramResponse{Field: metric, Bins: bins},
	}, nil
}

func (s *Server) handleScatter(ctx context.Context, input *ScatterInput) (*ScatterOutput, error) {
	x, err := parseMetric(input.X, domain.MetricPlays)
	if err != nil {
		return nil, err
	}
	y, err := parseMetric(input.Y, domain.MetricRating)
	if err != nil {
		return nil, err
	}

	points, err := s.dashboard.Scatter(ctx, x, y)
	if err != nil {
		return nil, err
	}
	return &ScatterOutput{
		Body: ScatterResponse{X: x, Y: y, Points: points},
	}, nil
}
