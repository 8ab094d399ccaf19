package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"golang.org/x/text/unicode/norm"
)

// Limits on the number of hits returned.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Result is the outcome of one search.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is one matching game.
type Hit struct {
	Index      int64             `json:"index"`
	Title      string            `json:"title"`
	Score      float64           `json:"score"`
	Genres     []string          `json:"genres,omitempty"`
	Teams      []string          `json:"teams,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search finds games matching q. A blank q lists games in table order.
// limit is clamped to [1, MaxLimit]; zero or less means DefaultLimit.
func (s *Index) Search(ctx context.Context, q string, limit int) (*Result, error) {
	q = strings.TrimSpace(norm.NFC.String(q))
	limit = clampLimit(limit)

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, 0, false)
	if q == "" {
		req.SortBy([]string{fieldIndex})
	} else {
		req.SortBy([]string{"-_score", fieldIndex})
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField(fieldTitle)
	}

	start := time.Now()
	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  q,
		Total:  res.Total,
		TookMs: time.Since(start).Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= s.ds.Len() {
			s.logger.Warn("search hit does not map to a dataset row", "id", h.ID)
			continue
		}
		g := s.ds.At(pos)

		hit := Hit{
			Index:  g.Index,
			Title:  g.Title,
			Score:  h.Score,
			Genres: g.FilledGenres(),
			Teams:  g.FilledTeams(),
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, hit)
	}

	return result, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// buildQuery constructs the Bleve query for q.
// Title matches dominate; genre and team names count as much as a fuzzy
// title hit; summary text is a weak signal.
func buildQuery(q string) query.Query {
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField(fieldTitle)
	titleMatch.SetBoost(3.0)

	// Typo tolerance on single terms; fuzzy queries are not analyzed.
	fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
	fuzzy.SetFuzziness(1)
	fuzzy.SetField(fieldTitle)
	fuzzy.SetBoost(0.8)

	genresMatch := bleve.NewMatchQuery(q)
	genresMatch.SetField(fieldGenres)

	teamsMatch := bleve.NewMatchQuery(q)
	teamsMatch.SetField(fieldTeams)

	summaryMatch := bleve.NewMatchQuery(q)
	summaryMatch.SetField(fieldSummary)
	summaryMatch.SetBoost(0.5)

	queries := []query.Query{titleMatch, fuzzy, genresMatch, teamsMatch, summaryMatch}

	// Prefix query for type-ahead (minimum 2 chars)
	if len(q) >= 2 && !strings.ContainsAny(q, " \t") {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField(fieldTitle)
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
