package analytics

import (
	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// Histogram splits the observed [min, max] range of metric into binCount
// equal-width bins and counts the games falling in each.
//
// Bins are half-open [low, high) except the last, which is closed so the
// maximum is counted. When every value is identical a single [v, v] bin holds
// all games. An empty dataset yields no bins.
func Histogram(ds *domain.Dataset, metric domain.Metric, binCount int) ([]domain.Bin, error) {
	if !metric.Valid() {
		return nil, domainerrors.Validationf("unknown field %q", metric)
	}
	if binCount < 1 {
		return nil, domainerrors.Validationf("bins must be at least 1, got %d", binCount)
	}
	if ds.Len() == 0 {
		return []domain.Bin{}, nil
	}

	values := make([]float64, 0, ds.Len())
	ds.Each(func(_ int, g *domain.Game) bool {
		values = append(values, metric.Value(g))
		return true
	})

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	if lo == hi {
		return []domain.Bin{{Low: lo, High: hi, Count: len(values)}}, nil
	}

	width := (hi - lo) / float64(binCount)
	bins := make([]domain.Bin, binCount)
	for i := range bins {
		bins[i].Low = lo + float64(i)*width
		bins[i].High = lo + float64(i+1)*width
	}
	// Pin the top edge so rounding never leaves the maximum outside.
	bins[binCount-1].High = hi

	for _, v := range values {
		bins[binIndex(bins, v, lo, width)].Count++
	}
	return bins, nil
}

// binIndex estimates the bin arithmetically, then corrects against the
// stored edges so assignment always agrees with the reported boundaries.
func binIndex(bins []domain.Bin, v, lo, width float64) int {
	last := len(bins) - 1
	i := min(max(int((v-lo)/width), 0), last)
	for i > 0 && v < bins[i].Low {
		i--
	}
	for i < last && v >= bins[i].High {
		i++
	}
	return i
}
