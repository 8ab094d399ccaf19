package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamestats/gamestats-server/internal/chart"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// Canvas limits for rendered charts.
const (
	minChartSize = 200
	maxChartSize = 2000
)

// chartCacheControl lets browsers reuse a chart for the lifetime of the loaded dataset.
const chartCacheControl = "public, max-age=300"

func svgResponses() map[string]*huma.Response {
	return map[string]*huma.Response{
		"200": {
			Description: "SVG image",
			Content: map[string]*huma.MediaType{
				chart.ContentType: {Schema: &huma.Schema{Type: "string", Format: "binary"}},
			},
		},
	}
}

func (s *Server) registerChartRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "chartTopN",
		Method:      http.MethodGet,
		Path:        "/charts/top.svg",
		Summary:     "Top games chart",
		Description: "Bar chart of the top-N ranking",
		Tags:        []string{"Charts"},
		Responses:   svgResponses(),
	}, s.handleTopNChart)

	huma.Register(s.api, huma.Operation{
		OperationID: "chartCategories",
		Method:      http.MethodGet,
		Path:        "/charts/categories/{family}.svg",
		Summary:     "Category chart",
		Description: "Pie chart of the genre or team breakdown",
		Tags:        []string{"Charts"},
		Responses:   svgResponses(),
	}, s.handleCategoriesChart)

	huma.Register(s.api, huma.Operation{
		OperationID: "chartHistogram",
		Method:      http.MethodGet,
		Path:        "/charts/histogram.svg",
		Summary:     "Distribution chart",
		Description: "Histogram of a metric",
		Tags:        []string{"Charts"},
		Responses:   svgResponses(),
	}, s.handleHistogramChart)

	huma.Register(s.api, huma.Operation{
		OperationID: "chartScatter",
		Method:      http.MethodGet,
		Path:        "/charts/scatter.svg",
		Summary:     "Scatter chart",
		Description: "Scatter plot of two metrics",
		Tags:        []string{"Charts"},
		Responses:   svgResponses(),
	}, s.handleScatterChart)
}

// === DTOs ===

// ChartSize is embedded by every chart input.
type ChartSize struct {
	Width  int `query:"width" doc:"Canvas width in pixels (200-2000, default 800)"`
	Height int `query:"height" doc:"Canvas height in pixels (200-2000, default 480)"`
}

func (c ChartSize) options() chart.Options {
	return chart.Options{
		Width:  clampInt(c.Width, chart.DefaultWidth, minChartSize, maxChartSize),
		Height: clampInt(c.Height, chart.DefaultHeight, minChartSize, maxChartSize),
	}
}

// TopNChartInput mirrors TopNInput.
type TopNChartInput struct {
	TopNInput
	ChartSize
}

// CategoriesChartInput mirrors CategoriesInput.
type CategoriesChartInput struct {
	CategoriesInput
	ChartSize
}

// HistogramChartInput mirrors HistogramInput.
type HistogramChartInput struct {
	HistogramInput
	ChartSize
}

// ScatterChartInput mirrors ScatterInput.
type ScatterChartInput struct {
	ScatterInput
	ChartSize
}

// ChartOutput carries a rendered SVG document.
type ChartOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

func svgOutput(render func(buf *bytes.Buffer) error) (*ChartOutput, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return nil, domainerrors.Internal("render chart").WithCause(err)
	}
	return &ChartOutput{
		ContentType:  chart.ContentType,
		CacheControl: chartCacheControl,
		Body:         buf.Bytes(),
	}, nil
}

// === Handlers ===

func (s *Server) handleTopNChart(ctx context.Context, input *TopNChartInput) (*ChartOutput, error) {
	out, err := s.handleTopN(ctx, &input.TopNInput)
	if err != nil {
		return nil, err
	}
	return svgOutput(func(buf *bytes.Buffer) error {
		return chart.TopN(buf, out.Body.Entries, out.Body.Metric, input.options())
	})
}

func (s *Server) handleCategoriesChart(ctx context.Context, input *CategoriesChartInput) (*ChartOutput, error) {
	out, err := s.handleCategories(ctx, &input.CategoriesInput)
	if err != nil {
		return nil, err
	}
	return svgOutput(func(buf *bytes.Buffer) error {
		return chart.Categories(buf, out.Body.Counts, out.Body.Family, input.options())
	})
}

func (s *Server) handleHistogramChart(ctx context.Context, input *HistogramChartInput) (*ChartOutput, error) {
	out, err := s.handleHistogram(ctx, &input.HistogramInput)
	if err != nil {
		return nil, err
	}
	return svgOutput(func(buf *bytes.Buffer) error {
		return chart.Histogram(buf, out.Body.Bins, out.Body.Field, input.options())
	})
}

func (s *Server) handleScatterChart(ctx context.Context, input *ScatterChartInput) (*ChartOutput, error) {
	out, err := s.handleScatter(ctx, &input.ScatterInput)
	if err != nil {
		return nil, err
	}
	return svgOutput(func(buf *bytes.Buffer) error {
		return chart.Scatter(buf, out.Body.Points, out.Body.X, out.Body.Y, input.options())
	})
}

