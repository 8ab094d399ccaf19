package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
	"github.com/gamestats/gamestats-server/internal/service"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks and the loaded dataset snapshot",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Code    string `json:"code,omitempty" doc:"Error code explaining a non-healthy status"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
	Dataset    service.DatasetStatus      `json:"dataset" doc:"Loaded dataset snapshot"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	status := s.dashboard.Status(ctx)
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	datasetHealth := checkDataset(status)
	components["dataset"] = datasetHealth
	if datasetHealth.Status != "healthy" {
		overall = "degraded"
	}

	searchHealth := checkSearchIndex(status)
	components["search"] = searchHealth
	if searchHealth.Status != "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
			Dataset:    status,
		},
	}, nil
}

// checkDataset reports an empty table as degraded: views render but show nothing.
func checkDataset(status service.DatasetStatus) ComponentHealth {
	if status.Rows == 0 {
		err := domainerrors.EmptyDataset("games table is empty")
		return ComponentHealth{Status: "degraded", Code: string(err.Code), Message: err.Message}
	}
	return ComponentHealth{Status: "healthy"}
}

func checkSearchIndex(status service.DatasetStatus) ComponentHealth {
	if uint64(status.Rows) != status.SearchDocuments {
		return ComponentHealth{Status: "degraded", Message: "search index is incomplete"}
	}
	return ComponentHealth{Status: "healthy"}
}
