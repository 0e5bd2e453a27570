package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingestion outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeNotFound   = "not_found"
	OutcomeUpstream   = "upstream"
	OutcomeRating     = "rating"
	OutcomeError      = "error"
)

const namespace = "product_rater"

// Metrics holds HTTP and ingestion collectors.
type Metrics struct {
	gatherer            prometheus.Gatherer
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	ingestionsTotal     *prometheus.CounterVec
	ingestionDuration   *prometheus.HistogramVec
}

// NewMetrics creates collectors and registers them in registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request durations.",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route", "status"},
		),
		ingestionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingestions_total",
				Help:      "Total number of product ingestions by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		ingestionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingestion_duration_seconds",
				Help:      "Histogram of product ingestion durations.",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"source"},
		),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.ingestionsTotal,
		m.ingestionDuration,
	)

	return m
}

// RecordRequest records HTTP request metrics.
func (m *Metrics) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordIngestion records outcome and duration of single ingestion started from source.
func (m *Metrics) RecordIngestion(source string, err error, duration time.Duration) {
	m.ingestionsTotal.WithLabelValues(source, Outcome(err)).Inc()
	m.ingestionDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// Middleware records metrics of requests handled by chi router.
// Requests are labeled with route pattern, so path parameters don't blow up cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RecordRequest(r.Method, route, status, time.Since(start))
	})
}

// Handler returns HTTP handler exposing registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Outcome classifies ingestion error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, platform.ErrValidation):
		return OutcomeValidation
	case errors.Is(err, platform.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, platform.ErrUpstream):
		return OutcomeUpstream
	case errors.Is(err, platform.ErrRatingAcquisition):
		return OutcomeRating
	default:
		return OutcomeError
	}
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
