package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureRow is one games row; nil fields insert NULL.
type fixtureRow struct {
	index   int64
	title   any
	rating  any
	plays   any
	summary any
	teams   [2]any
	genres  [7]any
}

// newFixtureDB creates a games database in a temp dir and returns its path.
func newFixtureDB(t *testing.T, rows ...fixtureRow) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "games.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(Schema)
	require.NoError(t, err)

	for _, r := range rows {
		args := []any{r.index, r.title, r.rating, r.plays, int64(1), int64(2), int64(3), r.summary}
		args = append(args, r.teams[:]...)
		args = append(args, r.genres[:]...)
		_, err := db.Exec(`INSERT INTO games (`+gameColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		require.NoError(t, err)
	}

	return path
}

// newDBWithoutGames creates a SQLite file that has no games table.
func newDBWithoutGames(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE players (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)

	return path
}
