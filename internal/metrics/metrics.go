// Package metrics exposes Prometheus instrumentation for the dataset loader,
// the aggregation views and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dataset Metrics
	DatasetLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamestats_dataset_load_duration_seconds",
			Help:    "Duration of full games table loads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DatasetLoadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamestats_dataset_load_errors_total",
			Help: "Total number of failed games table loads",
		},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamestats_dataset_rows",
			Help: "Number of rows in the most recently loaded games dataset",
		},
	)

	// Aggregation Metrics
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamestats_aggregation_duration_seconds",
			Help:    "Time spent computing a dashboard view",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"view"},
	)

	CategoryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamestats_category_cache_hits_total",
			Help: "Category breakdowns served from the memo cache",
		},
		[]string{"family"},
	)

	CategoryCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamestats_category_cache_misses_total",
			Help: "Category breakdowns computed from the dataset",
		},
		[]string{"family"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamestats_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamestats_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamestats_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamestats_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)
)

// RecordDatasetLoad records the outcome of one games table load.
func RecordDatasetLoad(duration time.Duration, rows int, err error) {
	DatasetLoadDuration.Observe(duration.Seconds())
	if err != nil {
		DatasetLoadErrors.Inc()
		return
	}
	DatasetRows.Set(float64(rows))
}

// RecordAggregation records how long a view took to compute.
func RecordAggregation(view string, duration time.Duration) {
	AggregationDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// RecordCategoryCache records a memo cache lookup for a category family.
func RecordCategoryCache(family string, hit bool) {
	if hit {
		CategoryCacheHits.WithLabelValues(family).Inc()
		return
	}
	CategoryCacheMisses.WithLabelValues(family).Inc()
}

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per chi route pattern.
// Unmatched routes are grouped under "unmatched" to keep label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		APIActiveRequests.Inc()
		defer APIActiveRequests.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		RecordAPIRequest(r.Method, routePattern(r), rec.status, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
