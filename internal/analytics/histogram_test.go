package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

func binTotal(bins []domain.Bin) int {
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	return total
}

func TestHistogram_EqualWidthBins(t *testing.T) {
	ds := dataset(game("a", 0), game("b", 2.5), game("c", 5), game("d", 7.5), game("e", 10))

	got, err := Histogram(ds, domain.MetricRating, 4)
	require.NoError(t, err)

	assert.Equal(t, []domain.Bin{
		{Low: 0, High: 2.5, Count: 1},
		{Low: 2.5, High: 5, Count: 1},
		{Low: 5, High: 7.5, Count: 1},
		{Low: 7.5, High: 10, Count: 2},
	}, got)
}

func TestHistogram_MaximumLandsInLastBin(t *testing.T) {
	ds := dataset(game("a", 1), game("b", 2), game("c", 3))

	got, err := Histogram(ds, domain.MetricRating, 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 2, got[1].Count)
	assert.InDelta(t, 3.0, got[1].High, 1e-12)
}

func TestHistogram_IdenticalValues(t *testing.T) {
	ds := dataset(game("a", 0, withPlays(42)), game("b", 0, withPlays(42)), game("c", 0, withPlays(42)))

	got, err := Histogram(ds, domain.MetricPlays, 10)
	require.NoError(t, err)

	assert.Equal(t, []domain.Bin{{Low: 42, High: 42, Count: 3}}, got)
}

func TestHistogram_CountsSumToDatasetSize(t *testing.T) {
	ratings := []float64{3.1, 4.7, 2.2, 3.3, 4.9, 1.0, 3.75, 2.05, 4.4, 3.9, 0.3, 4.99, 1.1}
	games := make([]domain.Game, 0, len(ratings))
	for _, r := range ratings {
		games = append(games, game("g", r))
	}
	ds := dataset(games...)

	for bins := 1; bins <= 40; bins++ {
		got, err := Histogram(ds, domain.MetricRating, bins)
		require.NoError(t, err)

		assert.Len(t, got, bins)
		assert.Equal(t, len(ratings), binTotal(got), "bins=%d", bins)
		for i := 1; i < len(got); i++ {
			assert.Equal(t, got[i-1].High, got[i].Low, "bins=%d edge %d", bins, i)
		}
	}
}

func TestHistogram_EmptyDataset(t *testing.T) {
	got, err := Histogram(dataset(), domain.MetricRating, 10)
	require.NoError(t, err)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHistogram_InvalidInput(t *testing.T) {
	ds := dataset(game("a", 1))

	_, err := Histogram(ds, domain.MetricRating, 0)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = Histogram(ds, domain.Metric("title"), 10)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
