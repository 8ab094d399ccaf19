package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamestats/gamestats-server/internal/config"
	"github.com/gamestats/gamestats-server/internal/domain"
	"github.com/gamestats/gamestats-server/internal/search"
	"github.com/gamestats/gamestats-server/internal/service"
)

var testDefaults = config.DashboardConfig{GenreTopK: 5, TeamTopK: 10, DefaultBins: 20, DefaultTopN: 5}

func testGames() []domain.Game {
	titles := []struct {
		title  string
		rating float64
		plays  int64
		genres []string
		teams  []string
	}{
		{"Elden Ring", 4.5, 17000, []string{"RPG", "Action"}, []string{"FromSoftware", "Bandai Namco"}},
		{"Hades", 4.3, 40000, []string{"RPG", "", "Strategy"}, []string{"Supergiant Games"}},
		{"Tetris", 4.0, 90000, []string{"Puzzle"}, nil},
		{"Celeste", 4.1, 12000, []string{"Platformer"}, []string{"Maddy Makes Games"}},
		{"Portal 2", 4.4, 60000, []string{"Puzzle", "Platformer"}, []string{"Valve"}},
		{"Doom", 3.9, 30000, []string{"Shooter"}, []string{"id Software"}},
	}

	games := make([]domain.Game, len(titles))
	for i, row := range titles {
		games[i] = domain.Game{
			Index:   int64(i),
			Title:   row.title,
			Rating:  row.rating,
			Plays:   row.plays,
			Summary: "<p>About " + row.title + "</p>",
		}
		copy(games[i].Genres[:], row.genres)
		copy(games[i].Teams[:], row.teams)
	}
	return games
}

type testServer struct {
	server *Server
	api    humatest.TestAPI
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithGames(t, testGames())
}

func newTestServerWithGames(t *testing.T, games []domain.Game) *testServer {
	t.Helper()

	ds := domain.NewDataset(games, "/data/games.db", "ds-test", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	idx, err := search.NewIndex(ds, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	dashboard := service.NewDashboardService(ds, idx, testDefaults, nil)
	cfg := &config.Config{Dashboard: testDefaults}
	s := NewServer(dashboard, nil, cfg, nil)

	return &testServer{server: s, api: humatest.Wrap(t, s.API())}
}

// decodeEnvelope unmarshals an enveloped response, decoding data into out when non-nil.
func decodeEnvelope(t *testing.T, body []byte, out any) APIEnvelope {
	t.Helper()

	var raw struct {
		Version int             `json:"v"`
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &raw), string(body))

	if out != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, out))
	}
	return APIEnvelope{Version: raw.Version, Success: raw.Success, Error: raw.Error}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	env := decodeEnvelope(t, resp.Body.Bytes(), &health)

	assert.True(t, env.Success)
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["dataset"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
	assert.Equal(t, 6, health.Dataset.Rows)
	assert.Equal(t, "ds-test", health.Dataset.SnapshotID)
	assert.Equal(t, uint64(6), health.Dataset.SearchDocuments)
}

func TestHealthCheck_EmptyDataset(t *testing.T) {
	ts := newTestServerWithGames(t, nil)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	decodeEnvelope(t, resp.Body.Bytes(), &health)

	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "EMPTY_DATASET", health.Components["dataset"].Code)
	assert.Equal(t, "healthy", health.Components["search"].Status)
}

func TestListGames(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/games")
	require.Equal(t, http.StatusOK, resp.Code)

	var games ListGamesResponse
	decodeEnvelope(t, resp.Body.Bytes(), &games)

	assert.Equal(t, 6, games.Total)
	require.Len(t, games.Games, 6)
	assert.Equal(t, "Elden Ring", games.Games[0].Title)
	assert.Equal(t, int64(17000), games.Games[0].Plays)
}

func TestListTitles(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/games/titles")
	require.Equal(t, http.StatusOK, resp.Code)

	var titles ListTitlesResponse
	decodeEnvelope(t, resp.Body.Bytes(), &titles)

	assert.Equal(t, []string{"Elden Ring", "Hades", "Tetris", "Celeste", "Portal 2", "Doom"}, titles.Titles)
}

func TestSearchGames(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/games/search?q=tetris")
	require.Equal(t, http.StatusOK, resp.Code)

	var res search.Result
	decodeEnvelope(t, resp.Body.Bytes(), &res)

	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "Tetris", res.Hits[0].Title)
}

func TestSearchGames_NegativeLimit(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/games/search?q=tetris&limit=-1")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGameDetail(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/games/detail?title=Hades")
	require.Equal(t, http.StatusOK, resp.Code)

	var detail domain.GameDetail
	decodeEnvelope(t, resp.Body.Bytes(), &detail)

	assert.Equal(t, "Hades", detail.Title)
	assert.Equal(t, "RPG, Strategy", detail.GenresLabel)
	assert.Equal(t, "Supergiant Games", detail.TeamsLabel)
}

func TestGameDetail_Errors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"unknown title", "/api/v1/games/detail?title=Nope", http.StatusNotFound, "NOT_FOUND"},
		{"case sensitive", "/api/v1/games/detail?title=hades", http.StatusNotFound, "NOT_FOUND"},
		{"missing title", "/api/v1/games/detail", http.StatusBadRequest, "VALIDATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			require.Equal(t, tt.status, resp.Code)

			env := decodeEnvelope(t, resp.Body.Bytes(), nil)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestTopN(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/top?metric=plays&n=5")
	require.Equal(t, http.StatusOK, resp.Code)

	var top TopNResponse
	decodeEnvelope(t, resp.Body.Bytes(), &top)

	assert.Equal(t, domain.MetricPlays, top.Metric)
	assert.Equal(t, 5, top.N)
	require.Len(t, top.Entries, 5)
	assert.Equal(t, "Tetris", top.Entries[0].Title)
	assert.Equal(t, "Portal 2", top.Entries[1].Title)
}

func TestTopN_ClampsN(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query string
		want  int
	}{
		{"", 5},
		{"?n=1", 5},
		{"?n=500", 50},
		{"?n=7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/top" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code)

			var top TopNResponse
			decodeEnvelope(t, resp.Body.Bytes(), &top)
			assert.Equal(t, tt.want, top.N)
			assert.Equal(t, domain.MetricRating, top.Metric)
		})
	}
}

func TestTopN_UnknownMetric(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/top?metric=price")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope(t, resp.Body.Bytes(), nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}

func TestCategories(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/categories/genre?top=2")
	require.Equal(t, http.StatusOK, resp.Code)

	var cats CategoriesResponse
	decodeEnvelope(t, resp.Body.Bytes(), &cats)

	assert.Equal(t, domain.FamilyGenre, cats.Family)
	assert.Equal(t, 2, cats.Top)
	// RPG, Puzzle and Platformer tie at 2; first seen wins.
	assert.Equal(t, []domain.CategoryCount{
		{Label: "RPG", Count: 2},
		{Label: "Puzzle", Count: 2},
		{Label: domain.OtherLabel, Count: 5},
	}, cats.Counts)
	assert.Equal(t, 9, cats.Total)
}

func TestCategories_FamilyDefault(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/categories/team")
	require.Equal(t, http.StatusOK, resp.Code)

	var cats CategoriesResponse
	decodeEnvelope(t, resp.Body.Bytes(), &cats)

	assert.Equal(t, 10, cats.Top)
	assert.Equal(t, 6, cats.Total)
	last := cats.Counts[len(cats.Counts)-1]
	assert.Equal(t, domain.OtherLabel, last.Label)
	assert.Zero(t, last.Count)
}

func TestCategories_UnknownFamily(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/categories/platform")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHistogram(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/histogram?field=plays&bins=5")
	require.Equal(t, http.StatusOK, resp.Code)

	var hist HistogramResponse
	decodeEnvelope(t, resp.Body.Bytes(), &hist)

	assert.Equal(t, domain.MetricPlays, hist.Field)
	require.Len(t, hist.Bins, 5)
	total := 0
	for _, b := range hist.Bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)
}

func TestHistogram_ClampsBins(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/histogram?bins=100")
	require.Equal(t, http.StatusOK, resp.Code)

	var hist HistogramResponse
	decodeEnvelope(t, resp.Body.Bytes(), &hist)
	assert.Len(t, hist.Bins, MaxBins)
}

func TestScatter(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/api/v1/scatter")
	require.Equal(t, http.StatusOK, resp.Code)

	var sc ScatterResponse
	decodeEnvelope(t, resp.Body.Bytes(), &sc)

	assert.Equal(t, domain.MetricPlays, sc.X)
	assert.Equal(t, domain.MetricRating, sc.Y)
	require.Len(t, sc.Points, 6)
	assert.Equal(t, domain.Point{X: 17000, Y: 4.5, Title: "Elden Ring"}, sc.Points[0])
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t)

	paths := []string{
		"/charts/top.svg?metric=plays&n=5",
		"/charts/categories/genre.svg",
		"/charts/histogram.svg?bins=10",
		"/charts/scatter.svg?width=400&height=300",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp := ts.api.Get(path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			assert.Equal(t, "image/svg+xml", resp.Header().Get("Content-Type"))
			assert.NotEmpty(t, resp.Header().Get("Cache-Control"))
			assert.Contains(t, resp.Body.String(), "<svg")
		})
	}
}

func TestCharts_ValidationIsEnveloped(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Get("/charts/top.svg?metric=price")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope(t, resp.Body.Bytes(), nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes(), nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestWrongMethod(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/top", nil)
	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes(), nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// Generate at least one recorded request first.
	ts.api.Get("/api/v1/games")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "gamestats_api_requests_total"), "metrics exposition should include API counters")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
