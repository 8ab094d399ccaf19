// Package search provides an in-memory full-text index over a games Dataset,
// used by the game picker to find titles by name, summary, genre or team.
package search

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/gamestats/gamestats-server/internal/domain"
)

// batchSize bounds the number of documents per Bleve batch.
const batchSize = 500

// Index is an immutable search index built from one Dataset snapshot.
// All methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	ds     *domain.Dataset
	logger *slog.Logger
}

// NewIndex builds an in-memory index over every game in ds.
// Documents are keyed by dataset position so hits map straight back to rows.
func NewIndex(ds *domain.Dataset, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	start := time.Now()
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	s := &Index{index: index, ds: ds, logger: logger}
	if err := s.indexAll(); err != nil {
		index.Close()
		return nil, err
	}

	logger.Info("search index built",
		"documents", ds.Len(),
		"snapshot_id", ds.SnapshotID(),
		"duration", time.Since(start),
	)
	return s, nil
}

func (s *Index) indexAll() error {
	batch := s.index.NewBatch()
	var err error

	s.ds.Each(func(i int, g *domain.Game) bool {
		if err = batch.Index(strconv.Itoa(i), toDocument(g)); err != nil {
			err = fmt.Errorf("batch index %q: %w", g.Title, err)
			return false
		}
		if batch.Size() >= batchSize {
			if err = s.index.Batch(batch); err != nil {
				err = fmt.Errorf("commit batch at row %d: %w", i, err)
				return false
			}
			batch.Reset()
		}
		return true
	})
	if err != nil {
		return err
	}

	if batch.Size() > 0 {
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit final batch: %w", err)
		}
	}
	return nil
}

// toDocument converts a game into the field map the mapping expects.
// Text is NFC-normalized so composed and decomposed accents match.
func toDocument(g *domain.Game) map[string]any {
	return map[string]any{
		fieldTitle:   norm.NFC.String(g.Title),
		fieldSummary: norm.NFC.String(g.Summary),
		fieldGenres:  normalizeAll(g.FilledGenres()),
		fieldTeams:   normalizeAll(g.FilledTeams()),
		fieldIndex:   float64(g.Index),
	}
}

func normalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = norm.NFC.String(v)
	}
	return out
}

// DocumentCount returns the number of indexed games.
func (s *Index) DocumentCount() (uint64, error) {
	return s.index.DocCount()
}

// Close releases the index.
func (s *Index) Close() error {
	return s.index.Close()
}
