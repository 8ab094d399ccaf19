package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamestats/gamestats-server/internal/domain"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
	"github.com/gamestats/gamestats-server/internal/search"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games",
		Summary:     "List games",
		Description: "Returns the overview table in dataset order",
		Tags:        []string{"Games"},
	}, s.handleListGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/titles",
		Summary:     "List titles",
		Description: "Returns the distinct game titles in first-seen order",
		Tags:        []string{"Games"},
	}, s.handleListTitles)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/search",
		Summary:     "Search games",
		Description: "Full-text search over titles, summaries, genres and teams",
		Tags:        []string{"Games"},
	}, s.handleSearchGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGameDetail",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/detail",
		Summary:     "Get game detail",
		Description: "Returns the drill-down view of the first game with exactly the given title",
		Tags:        []string{"Games"},
	}, s.handleGameDetail)
}

// === DTOs ===

// ListGamesResponse contains the overview table.
type ListGamesResponse struct {
	Total int                  `json:"total" doc:"Number of games"`
	Games []domain.OverviewRow `json:"games" doc:"Overview rows in dataset order"`
}

// ListGamesOutput wraps the overview for Huma.
type ListGamesOutput struct {
	Body ListGamesResponse
}

// ListTitlesResponse contains picker options.
type ListTitlesResponse struct {
	Titles []string `json:"titles" doc:"Distinct titles"`
}

// ListTitlesOutput wraps the titles for Huma.
type ListTitlesOutput struct {
	Body ListTitlesResponse
}

// SearchGamesInput contains parameters for searching games.
type SearchGamesInput struct {
	Query string `query:"q" maxLength:"200" doc:"Search query; blank lists games in table order"`
	Limit int    `query:"limit" doc:"Max hits (default 10, max 50)"`
}

// SearchGamesOutput wraps the search result for Huma.
type SearchGamesOutput struct {
	Body *search.Result
}

// GameDetailInput selects the game to drill into.
type GameDetailInput struct {
	Title string `query:"title" doc:"Exact, case-sensitive title"`
}

// GameDetailOutput wraps the detail view for Huma.
type GameDetailOutput struct {
	Body *domain.GameDetail
}

// === Handlers ===

func (s *Server) handleListGames(ctx context.Context, _ *struct{}) (*ListGamesOutput, error) {
	rows := s.dashboard.Overview(ctx)
	return &ListGamesOutput{
		Body: ListGamesResponse{Total: len(rows), Games: rows},
	}, nil
}

func (s *Server) handleListTitles(ctx context.Context, _ *struct{}) (*ListTitlesOutput, error) {
	return &ListTitlesOutput{
		Body: ListTitlesResponse{Titles: s.dashboard.Titles(ctx)},
	}, nil
}

func (s *Server) handleSearchGames(ctx context.Context, input *SearchGamesInput) (*SearchGamesOutput, error) {
	if input.Limit < 0 {
		return nil, domainerrors.Validationf("limit must be non-negative, got %d", input.Limit)
	}

	res, err := s.dashboard.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchGamesOutput{Body: res}, nil
}

func (s *Server) handleGameDetail(ctx context.Context, input *GameDetailInput) (*GameDetailOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domainerrors.Validation("title is required")
	}

	detail, err := s.dashboard.Detail(ctx, input.Title)
	if err != nil {
		return nil, err
	}
	return &GameDetailOutput{Body: detail}, nil
}
