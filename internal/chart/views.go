package chart

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/gamestats/gamestats-server/internal/domain"
)

// TopN renders a ranking as a bar chart, best first.
func TopN(w io.Writer, entries []domain.TopEntry, metric domain.Metric, opts Options) error {
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("Top %d by %s", len(entries), metric.Label())
	}
	if len(entries) == 0 {
		return renderPlaceholder(w, opts, "No games to rank")
	}

	bars := make([]chart.Value, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		bars[i] = chart.Value{
			Value: e.Value,
			Label: shortLabel(e.Title),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		values[i] = e.Value
	}

	return renderBars(w, bars, values, metric.Label(), opts)
}

// Histogram renders bins as adjacent bars labeled by their lower edge.
func Histogram(w io.Writer, bins []domain.Bin, metric domain.Metric, opts Options) error {
	if opts.Title == "" {
		opts.Title = metric.Label() + " distribution"
	}
	if len(bins) == 0 {
		return renderPlaceholder(w, opts, "No data")
	}

	bars := make([]chart.Value, len(bins))
	values := make([]float64, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{
			Value: float64(b.Count),
			Label: formatTick(b.Low),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		values[i] = float64(b.Count)
	}

	return renderBars(w, bars, values, "Games", opts)
}

func renderBars(w io.Writer, bars []chart.Value, values []float64, yName string, opts Options) error {
	width, height := opts.size()

	bc := chart.BarChart{
		Title:      opts.Title,
		Background: background,
		Width:      width,
		Height:     height,
		BarWidth:   max(4, (width-120)/(2*len(bars))),
		YAxis: chart.YAxis{
			Name:           yName,
			Range:          valueRange(values),
			ValueFormatter: tickFormatter,
		},
		Bars: bars,
	}

	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// Categories renders a category breakdown as a pie chart. The Other slice is
// drawn in a neutral color; zero-count slices are omitted.
func Categories(w io.Writer, counts []domain.CategoryCount, family domain.Family, opts Options) error {
	if opts.Title == "" {
		opts.Title = "Games by " + string(family)
	}

	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		v := chart.Value{Value: float64(c.Count), Label: fmt.Sprintf("%s (%d)", shortLabel(c.Label), c.Count)}
		if c.Label == domain.OtherLabel {
			v.Style = chart.Style{FillColor: otherColor}
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return renderPlaceholder(w, opts, "No categories")
	}

	width, height := opts.size()
	pc := chart.PieChart{
		Title:      opts.Title,
		Background: background,
		Width:      width,
		Height:     height,
		Values:     values,
	}

	if err := pc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// Scatter renders points as unconnected dots.
func Scatter(w io.Writer, points []domain.Point, x, y domain.Metric, opts Options) error {
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("%s vs %s", y.Label(), x.Label())
	}
	if len(points) == 0 {
		return renderPlaceholder(w, opts, "No data")
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	width, height := opts.size()
	ch := chart.Chart{
		Title:      opts.Title,
		Background: background,
		Width:      width,
		Height:     height,
		XAxis: chart.XAxis{
			Name:           x.Label(),
			Range:          valueRange(xs),
			ValueFormatter: tickFormatter,
		},
		YAxis: chart.YAxis{
			Name:           y.Label(),
			Range:          valueRange(ys),
			ValueFormatter: tickFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "games",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    dotColor,
				},
			},
		},
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}
