// Package sqlite reads the games dataset from a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
	"github.com/gamestats/gamestats-server/internal/id"
	"github.com/gamestats/gamestats-server/internal/metrics"

	_ "modernc.org/sqlite"
)

// Schema is the DDL of the games table. The server never executes it; it is
// used by the seed tool and by tests to build fixture stores.
//
//go:embed schema.sql
var Schema string

// Store is a read-only handle on a games database file.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the SQLite file at path read-only and verifies it is reachable.
// A missing file is reported as DataUnavailable; it is never created.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeDataUnavailable, "resolve games store path %q", path)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(abs))
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeDataUnavailable, "open games store %q", abs)
	}

	// Read-only workload; a couple of connections is plenty.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, domainerrors.Wrapf(err, domainerrors.CodeDataUnavailable, "open games store %q", abs)
	}

	return &Store{db: db, path: abs, logger: logger}, nil
}

// readOnlyDSN builds a URI filename that refuses to create or write the file.
func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	q := url.Values{}
	q.Set("mode", "ro")
	q.Add("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the absolute path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// gameColumns is the ordered list of columns selected from games.
// Must match the scan order in scanGame.
const gameColumns = `"index", title, rating, plays, playing, backlogs, wishlist, summary,
	team_1, team_2, genre_1, genre_2, genre_3, genre_4, genre_5, genre_6, genre_7`

// Load reads every row of the games table in index order.
// Any failure is returned as DataUnavailable; a nil Dataset is never returned with a nil error.
func (s *Store) Load(ctx context.Context) (ds *domain.Dataset, err error) {
	start := time.Now()
	defer func() {
		rows := 0
		if ds != nil {
			rows = ds.Len()
		}
		metrics.RecordDatasetLoad(time.Since(start), rows, err)
	}()

	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY "index"`)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeDataUnavailable, "query games")
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, domainerrors.Wrapf(err, domainerrors.CodeDataUnavailable, "scan games row %d", len(games))
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeDataUnavailable, "iterate games")
	}

	snapshotID, err := id.Generate("ds")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate snapshot id")
	}

	ds = domain.NewDataset(games, s.path, snapshotID, time.Now())

	s.logger.Info("games dataset loaded",
		"path", s.path,
		"rows", ds.Len(),
		"snapshot_id", snapshotID,
		"duration", time.Since(start),
	)
	if ds.Len() == 0 {
		s.logger.Warn("games table is empty; views will be empty", "path", s.path)
	}

	return ds, nil
}

// scanGame scans a sql.Row (or sql.Rows via its Scan method) into a domain.Game.
// NULL numbers read as zero and NULL text as the empty string.
func scanGame(scanner interface{ Scan(dest ...any) error }) (*domain.Game, error) {
	var (
		index    sql.NullInt64
		title    sql.NullString
		rating   sql.NullFloat64
		plays    sql.NullInt64
		playing  sql.NullInt64
		backlogs sql.NullInt64
		wishlist sql.NullInt64
		summary  sql.NullString
		teams    [domain.TeamSlots]sql.NullString
		genres   [domain.GenreSlots]sql.NullString
	)

	dest := []any{&index, &title, &rating, &plays, &playing, &backlogs, &wishlist, &summary}
	for i := range teams {
		dest = append(dest, &teams[i])
	}
	for i := range genres {
		dest = append(dest, &genres[i])
	}

	if err := scanner.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan game: %w", err)
	}

	g := &domain.Game{
		Index:    index.Int64,
		Title:    title.String,
		Rating:   rating.Float64,
		Plays:    plays.Int64,
		Playing:  playing.Int64,
		Backlogs: backlogs.Int64,
		Wishlist: wishlist.Int64,
		Summary:  summary.String,
	}
	for i, t := range teams {
		g.Teams[i] = slotValue(t)
	}
	for i, gn := range genres {
		g.Genres[i] = slotValue(gn)
	}
	return g, nil
}
