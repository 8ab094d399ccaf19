package sqlite

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
)

// Loader loads each games store at most once per process and hands out the
// shared, immutable Dataset on every later call. Failed loads are not cached.
type Loader struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*loaderEntry
}

type loaderEntry struct {
	mu sync.Mutex
	ds *domain.Dataset
}

// NewLoader creates an empty Loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		logger:  logger,
		entries: make(map[string]*loaderEntry),
	}
}

// LoadCached returns the Dataset for the store at path, reading it on first use.
// Concurrent first calls for the same path share a single read.
func (l *Loader) LoadCached(ctx context.Context, path string) (*domain.Dataset, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeDataUnavailable, "resolve games store path %q", path)
	}

	l.mu.Lock()
	entry, ok := l.entries[abs]
	if !ok {
		entry = &loaderEntry{}
		l.entries[abs] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.ds != nil {
		l.logger.Debug("games dataset served from cache", "path", abs, "snapshot_id", entry.ds.SnapshotID())
		return entry.ds, nil
	}

	ds, err := LoadFile(ctx, abs, l.logger)
	if err != nil {
		return nil, err
	}
	entry.ds = ds
	return ds, nil
}

// LoadFile opens the store at path, reads the whole games table and closes it.
func LoadFile(ctx context.Context, path string, logger *slog.Logger) (*domain.Dataset, error) {
	s, err := Open(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return s.Load(ctx)
}
