package analytics

import (
	"strconv"
	"strings"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// slotSeparator joins filled slots for display.
const slotSeparator = ", "

// Project returns the first game whose title matches exactly (case-sensitive).
func Project(ds *domain.Dataset, title string) (*domain.Game, error) {
	var found *domain.Game
	ds.Each(func(_ int, g *domain.Game) bool {
		if g.Title == title {
			cp := *g
			found = &cp
			return false
		}
		return true
	})
	if found == nil {
		return nil, domainerrors.NotFoundf("game %q not found", title)
	}
	return found, nil
}

// JoinSlots joins the non-empty slots in slot order.
func JoinSlots(slots []string) string {
	var b strings.Builder
	for _, s := range slots {
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(slotSeparator)
		}
		b.WriteString(s)
	}
	return b.String()
}

// Detail builds the drill-down view for title.
func Detail(ds *domain.Dataset, title string) (*domain.GameDetail, error) {
	g, err := Project(ds, title)
	if err != nil {
		return nil, err
	}

	return &domain.GameDetail{
		Game:            *g,
		TeamsLabel:      JoinSlots(g.Teams[:]),
		GenresLabel:     JoinSlots(g.Genres[:]),
		SummaryMarkdown: SummaryMarkdown(g.Summary),
		Display: map[string]string{
			"rating":   strconv.FormatFloat(g.Rating, 'f', -1, 64),
			"plays":    FormatCount(g.Plays),
			"playing":  FormatCount(g.Playing),
			"backlogs": FormatCount(g.Backlogs),
			"wishlist": FormatCount(g.Wishlist),
		},
	}, nil
}
