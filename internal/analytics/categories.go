package analytics

import (
	"cmp"
	"slices"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// AggregateCategories counts slot occurrences for a family and keeps the topK
// labels, folding everything else into a trailing "Other" entry.
//
// Each non-empty slot counts once, so a game listing the same genre twice
// contributes two. Labels are ranked by count descending with ties in the
// order the label was first encountered. The "Other" entry is always present,
// even when its count is zero. Slot values that are literally "Other" go
// straight into that bucket.
func AggregateCategories(ds *domain.Dataset, family domain.Family, topK int) ([]domain.CategoryCount, error) {
	if !family.Valid() {
		return nil, domainerrors.Validationf("unknown category family %q", family)
	}
	if topK < 0 {
		return nil, domainerrors.Validationf("top must be non-negative, got %d", topK)
	}

	counts, other := countSlots(ds, family)

	slices.SortStableFunc(counts, func(a, b domain.CategoryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	keep := min(topK, len(counts))
	for _, c := range counts[keep:] {
		other += c.Count
	}

	out := make([]domain.CategoryCount, 0, keep+1)
	out = append(out, counts[:keep]...)
	out = append(out, domain.CategoryCount{Label: domain.OtherLabel, Count: other})
	return out, nil
}

// CountSlots returns the total per label in first-seen order without any
// ranking or bucketing. Values equal to the Other label are excluded.
func CountSlots(ds *domain.Dataset, family domain.Family) []domain.CategoryCount {
	counts, _ := countSlots(ds, family)
	return counts
}

// SlotOccurrences returns the number of non-empty slots of the family across the dataset.
func SlotOccurrences(ds *domain.Dataset, family domain.Family) int {
	total := 0
	ds.Each(func(_ int, g *domain.Game) bool {
		for _, v := range family.Slots(g) {
			if v != "" {
				total++
			}
		}
		return true
	})
	return total
}

func countSlots(ds *domain.Dataset, family domain.Family) (counts []domain.CategoryCount, other int) {
	position := make(map[string]int)
	ds.Each(func(_ int, g *domain.Game) bool {
		for _, v := range family.Slots(g) {
			switch v {
			case "":
				continue
			case domain.OtherLabel:
				other++
				continue
			}
			i, seen := position[v]
			if !seen {
				i = len(counts)
				position[v] = i
				counts = append(counts, domain.CategoryCount{Label: v})
			}
			counts[i].Count++
		}
		return true
	})
	return counts, other
}
