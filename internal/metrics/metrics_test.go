package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDatasetLoad(t *testing.T) {
	errorsBefore := testutil.ToFloat64(DatasetLoadErrors)

	RecordDatasetLoad(5*time.Millisecond, 42, nil)
	assert.Equal(t, 42.0, testutil.ToFloat64(DatasetRows))
	assert.Equal(t, errorsBefore, testutil.ToFloat64(DatasetLoadErrors))

	RecordDatasetLoad(time.Millisecond, 0, errors.New("no such table: games"))
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(DatasetLoadErrors))
	// Failed loads leave the row gauge untouched.
	assert.Equal(t, 42.0, testutil.ToFloat64(DatasetRows))
}

func TestRecordCategoryCache(t *testing.T) {
	hits := testutil.ToFloat64(CategoryCacheHits.WithLabelValues("genre"))
	misses := testutil.ToFloat64(CategoryCacheMisses.WithLabelValues("genre"))

	RecordCategoryCache("genre", true)
	RecordCategoryCache("genre", false)
	RecordCategoryCache("genre", false)

	assert.Equal(t, hits+1, testutil.ToFloat64(CategoryCacheHits.WithLabelValues("genre")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CategoryCacheMisses.WithLabelValues("genre")))
}

func TestRecordRateLimitHit(t *testing.T) {
	before := testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/api/v1/top"))

	RecordRateLimitHit("/api/v1/top")

	assert.Equal(t, before+1, testutil.ToFloat64(APIRateLimitHits.WithLabelValues("/api/v1/top")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/api/v1/categories/{family}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/categories/{family}", "418")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/genre", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, 0.0, testutil.ToFloat64(APIActiveRequests))
}
