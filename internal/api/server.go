// Package api provides the HTTP API server and handlers for the games dashboard.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gamestats/gamestats-server/internal/config"
	domainerrors "github.com/gamestats/gamestats-server/internal/errors"
	"github.com/gamestats/gamestats-server/internal/metrics"
	"github.com/gamestats/gamestats-server/internal/ratelimit"
	"github.com/gamestats/gamestats-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	dashboard *service.DashboardService
	limiter   *ratelimit.KeyedRateLimiter
	cfg       *config.Config
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// limiter may be nil to disable rate limiting.
func NewServer(dashboard *service.DashboardService, limiter *ratelimit.KeyedRateLimiter, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := chi.NewRouter()

	s := &Server{
		dashboard: dashboard,
		limiter:   limiter,
		cfg:       cfg,
		router:    router,
		logger:    logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Games Dashboard API", "1.0.0")
	humaConfig.Info.Description = "Aggregated views over the games catalogue: rankings, category breakdowns, distributions and per-game detail."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mostly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.cfg != nil && s.cfg.Server.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Retry-After", "X-Request-ID"},
		MaxAge:         300,
	}))
	s.router.Use(metrics.Middleware)
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, newAPIError(http.StatusNotFound, "", domainerrors.NotFound("route not found")))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, newAPIError(http.StatusMethodNotAllowed, "method not allowed"))
	})
}

func (s *Server) corsOrigins() []string {
	if s.cfg != nil && len(s.cfg.Server.CORSOrigins) > 0 {
		return s.cfg.Server.CORSOrigins
	}
	return []string{"*"}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.registerHealthRoutes()
	s.registerGameRoutes()
	s.registerViewRoutes()
	s.registerChartRoutes()
}
