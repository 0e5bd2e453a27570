package metrics_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOutcome(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected string
	}{
		"success":          {nil, metrics.OutcomeSuccess},
		"missing barcode":  {platform.ErrBarcodeMissing, metrics.OutcomeValidation},
		"not found":        {fmt.Errorf("can't look up product: %w", platform.ErrNotFound), metrics.OutcomeNotFound},
		"upstream":         {platform.ErrUpstream, metrics.OutcomeUpstream},
		"malformed rating": {platform.ErrMalformedRating, metrics.OutcomeRating},
		"other":            {assert.AnError, metrics.OutcomeError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, metrics.Outcome(tt.err))
		})
	}
}

func TestUnitMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/getData/{barcodeString}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Handle("/metrics", m.Handler())

	for _, barcode := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/getData/"+barcode, nil))
	}

	expected := `
# HELP product_rater_http_requests_total Total number of HTTP requests.
# TYPE product_rater_http_requests_total counter
product_rater_http_requests_total{method="GET",route="/api/getData/{barcodeString}",status="4xx"} 3
`
	err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "product_rater_http_requests_total")
	require.NoError(t, err, "should label requests with route pattern")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "product_rater_http_request_duration_seconds")
}

func TestUnitRecordIngestion(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	m.RecordIngestion("http", nil, time.Second)
	m.RecordIngestion("http", platform.ErrNotFound, time.Second)
	m.RecordIngestion("rabbitmq", nil, time.Second)

	expected := `
# HELP product_rater_ingestions_total Total number of product ingestions by source and outcome.
# TYPE product_rater_ingestions_total counter
product_rater_ingestions_total{outcome="not_found",source="http"} 1
product_rater_ingestions_total{outcome="success",source="http"} 1
product_rater_ingestions_total{outcome="success",source="rabbitmq"} 1
`
	err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "product_rater_ingestions_total")
	require.NoError(t, err)
}
