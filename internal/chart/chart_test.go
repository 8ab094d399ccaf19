package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamestats/gamestats-server/internal/domain"
)

func requireSVG(t *testing.T, buf *bytes.Buffer) string {
	t.Helper()
	out := buf.String()
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "</svg>")
	return out
}

func TestTopN(t *testing.T) {
	var buf bytes.Buffer
	entries := []domain.TopEntry{
		{Title: "Elden Ring", Value: 4.5},
		{Title: "Hades", Value: 4.3},
		{Title: "Celeste", Value: 4.1},
	}

	require.NoError(t, TopN(&buf, entries, domain.MetricRating, Options{}))

	out := requireSVG(t, &buf)
	assert.Contains(t, out, "Top 3 by Rating")
	assert.Contains(t, out, "Elden Ring")
}

func TestTopN_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, TopN(&buf, nil, domain.MetricPlays, Options{}))

	assert.Contains(t, requireSVG(t, &buf), "No games to rank")
}

func TestTopN_AllZero(t *testing.T) {
	var buf bytes.Buffer
	entries := []domain.TopEntry{{Title: "A", Value: 0}, {Title: "B", Value: 0}}

	require.NoError(t, TopN(&buf, entries, domain.MetricPlays, Options{Title: "Flat"}))

	assert.Contains(t, requireSVG(t, &buf), "Flat")
}

func TestHistogram(t *testing.T) {
	var buf bytes.Buffer
	bins := []domain.Bin{
		{Low: 0, High: 2.5, Count: 1},
		{Low: 2.5, High: 5, Count: 3},
	}

	require.NoError(t, Histogram(&buf, bins, domain.MetricRating, Options{Width: 640, Height: 360}))

	out := requireSVG(t, &buf)
	assert.Contains(t, out, "Rating distribution")
	assert.Contains(t, out, `width="640"`)
}

func TestHistogram_SingleBin(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Histogram(&buf, []domain.Bin{{Low: 7, High: 7, Count: 4}}, domain.MetricRating, Options{}))

	requireSVG(t, &buf)
}

func TestHistogram_ManyBins(t *testing.T) {
	var buf bytes.Buffer
	bins := make([]domain.Bin, 40)
	for i := range bins {
		bins[i] = domain.Bin{Low: float64(i) * 1000, High: float64(i+1) * 1000, Count: i % 7}
	}

	require.NoError(t, Histogram(&buf, bins, domain.MetricPlays, Options{}))

	requireSVG(t, &buf)
}

func TestHistogram_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Histogram(&buf, []domain.Bin{}, domain.MetricRating, Options{}))

	assert.Contains(t, requireSVG(t, &buf), "No data")
}

func TestCategories(t *testing.T) {
	var buf bytes.Buffer
	counts := []domain.CategoryCount{
		{Label: "RPG", Count: 2},
		{Label: "Action", Count: 1},
		{Label: domain.OtherLabel, Count: 1},
	}

	require.NoError(t, Categories(&buf, counts, domain.FamilyGenre, Options{}))

	out := requireSVG(t, &buf)
	assert.Contains(t, out, "Games by genre")
	assert.Contains(t, out, "RPG (2)")
	assert.Contains(t, out, "Other (1)")
}

func TestCategories_ZeroCountsSkipped(t *testing.T) {
	var buf bytes.Buffer
	counts := []domain.CategoryCount{
		{Label: "Valve", Count: 3},
		{Label: domain.OtherLabel, Count: 0},
	}

	require.NoError(t, Categories(&buf, counts, domain.FamilyTeam, Options{}))

	out := requireSVG(t, &buf)
	assert.Contains(t, out, "Valve (3)")
	assert.NotContains(t, out, "Other (0)")
}

func TestCategories_OnlyZeroCounts(t *testing.T) {
	var buf bytes.Buffer
	counts := []domain.CategoryCount{{Label: domain.OtherLabel, Count: 0}}

	require.NoError(t, Categories(&buf, counts, domain.FamilyGenre, Options{}))

	assert.Contains(t, requireSVG(t, &buf), "No categories")
}

func TestScatter(t *testing.T) {
	var buf bytes.Buffer
	points := []domain.Point{
		{X: 17000, Y: 4.5, Title: "Elden Ring"},
		{X: 40000, Y: 4.3, Title: "Hades"},
		{X: 90000, Y: 4.0, Title: "Tetris"},
	}

	require.NoError(t, Scatter(&buf, points, domain.MetricPlays, domain.MetricRating, Options{}))

	out := requireSVG(t, &buf)
	assert.Contains(t, out, "Rating vs Plays")
}

func TestScatter_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	points := []domain.Point{{X: 5, Y: 5, Title: "Only"}}

	require.NoError(t, Scatter(&buf, points, domain.MetricPlays, domain.MetricRating, Options{}))

	requireSVG(t, &buf)
}

func TestScatter_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Scatter(&buf, nil, domain.MetricPlays, domain.MetricRating, Options{}))

	assert.Contains(t, requireSVG(t, &buf), "No data")
}

func TestValueRange(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		min, max float64
	}{
		{"empty", nil, 0, 1},
		{"all zero", []float64{0, 0}, -1, 1},
		{"non-negative starts at zero", []float64{2, 10}, 0, 10.5},
		{"negative padded", []float64{-10, 10}, -11, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valueRange(tt.values)
			assert.InDelta(t, tt.min, r.Min, 1e-9)
			assert.InDelta(t, tt.max, r.Max, 1e-9)
		})
	}
}

func TestShortLabel(t *testing.T) {
	assert.Equal(t, "Hades", shortLabel("Hades"))
	assert.Equal(t, "The Legend of Z...", shortLabel("The Legend of Zelda: Breath of the Wild"))
	assert.Len(t, []rune(shortLabel("Ōkami Ōkami Ōkami Ōkami")), maxLabelRunes)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "0", formatTick(0))
	assert.Equal(t, "4.5", formatTick(4.5))
	assert.Equal(t, "250", formatTick(250))
	assert.Equal(t, "35k", formatTick(35_000))
	assert.Equal(t, "1.2M", formatTick(1_200_000))
}
