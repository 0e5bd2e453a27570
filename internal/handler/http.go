package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/metrics"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/unrolled/secure"
)

//go:generate mockery --name Ingester --filename ingester.go
//go:generate mockery --name Store --filename store.go

const (
	// APIVersion is version reported by welcome endpoint.
	APIVersion = "1.0.0"

	maxBodySize     = 1 << 20
	defaultTopLimit = 4
	isoMillis       = "2006-01-02T15:04:05.000Z07:00"
)

// Ingester looks up, rates and stores product under barcode.
type Ingester interface {
	Ingest(ctx context.Context, barcode string) (*models.IngestResult, error)
}

// Store reads stored products.
type Store interface {
	TopRated(ctx context.Context, limit int) ([]models.ProductSummary, error)
	FindByBrand(ctx context.Context, brand string) ([]models.BrandProduct, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	ListBrands(ctx context.Context) ([]string, error)
}

// HTTPOption configures HTTPHandler.
type HTTPOption func(h *HTTPHandler)

// WithMetrics enables request and ingestion metrics exposed under /metrics.
func WithMetrics(m *metrics.Metrics) HTTPOption {
	return func(h *HTTPHandler) {
		h.metrics = m
	}
}

// WithProduction hides internal error details from responses.
func WithProduction(production bool) HTTPOption {
	return func(h *HTTPHandler) {
		h.production = production
	}
}

// WithTopLimit sets default number of top rated products.
func WithTopLimit(limit int) HTTPOption {
	return func(h *HTTPHandler) {
		if limit > 0 {
			h.topLimit = limit
		}
	}
}

// WithCORSOrigins sets origins allowed to call API from browser. Empty list allows all origins.
func WithCORSOrigins(origins []string) HTTPOption {
	return func(h *HTTPHandler) {
		h.corsOrigins = origins
	}
}

// WithNow sets custom current time source.
func WithNow(now func() time.Time) HTTPOption {
	return func(h *HTTPHandler) {
		h.now = now
	}
}

// HTTPHandler serves products REST API.
type HTTPHandler struct {
	ingester    Ingester
	store       Store
	logger      *zerolog.Logger
	metrics     *metrics.Metrics
	production  bool
	topLimit    int
	corsOrigins []string
	now         func() time.Time
}

// NewHTTPHandler returns new HTTPHandler.
func NewHTTPHandler(ingester Ingester, store Store, logger *zerolog.Logger, opts ...HTTPOption) *HTTPHandler {
	h := &HTTPHandler{
		ingester: ingester,
		store:    store,
		logger:   logger,
		topLimit: defaultTopLimit,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Routes returns router with all API routes and middlewares.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(*h.logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request handled")
	}))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}
	r.Use(middleware.Recoverer)
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      !h.production,
	}).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Compress(5))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
	})

	r.Get("/health", h.health)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.welcome)
		r.Post("/addProduct", h.addProduct)
		r.Get("/topProducts", h.topProducts)
		r.Get("/getProducts/{brand}", h.productsByBrand)
		r.Get("/getData/{barcodeString}", h.productData)
		r.Get("/brands", h.brands)
	})

	return r
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listResponse struct {
	Success bool `json:"success"`
	List    any  `json:"list"`
}

type brandsResponse struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Brands  []string `json:"brands"`
}

type addProductRequest struct {
	Barcode string `json:"barcode"`
}

// addedProduct is acquired ratings merged with basic product information.
type addedProduct struct {
	models.Ratings

	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	Price          *float64 `json:"price"`
	Image          string   `json:"image"`
	NutritionGrade *string  `json:"nutritionGrade,omitempty"`
	NovaGroup      *string  `json:"novaGroup,omitempty"`
}

func (h *HTTPHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": h.now().UTC().Format(isoMillis),
	})
}

func (h *HTTPHandler) welcome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":       "Welcome to the API",
		"version":       APIVersion,
		"documentation": "/api/docs",
	})
}

func (h *HTTPHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil ||
		strings.TrimSpace(req.Barcode) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Barcode is required"})
		return
	}

	start := time.Now()
	result, err := h.ingester.Ingest(r.Context(), req.Barcode)
	if h.metrics != nil {
		h.metrics.RecordIngestion("http", err, time.Since(start))
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	info := result.ProductInfo
	image := ""
	if len(info.Images) > 0 {
		image = info.Images[0]
	}

	writeJSON(w, http.StatusOK, dataResponse{
		Success: true,
		Data: addedProduct{
			Ratings:        result.Ratings,
			Name:           info.Title,
			Brand:          info.Brand,
			Price:          result.Ratings.RawPrice,
			Image:          image,
			NutritionGrade: info.MetadataString("nutrition_grades"),
			NovaGroup:      info.MetadataString("nova_group"),
		},
	})
}

func (h *HTTPHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	limit := h.topLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	products, err := h.store.TopRated(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, List: products})
}

func (h *HTTPHandler) productsByBrand(w http.ResponseWriter, r *http.Request) {
	brand, ok := pathParam(r, "brand")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Brand name is required"})
		return
	}

	products, err := h.store.FindByBrand(r.Context(), brand)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, List: products})
}

func (h *HTTPHandler) productData(w http.ResponseWriter, r *http.Request) {
	barcode, ok := pathParam(r, "barcodeString")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Barcode is required"})
		return
	}

	product, err := h.store.FindByBarcode(r.Context(), barcode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: product})
}

func (h *HTTPHandler) brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.store.ListBrands(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, brandsResponse{Success: true, Count: len(brands), Brands: brands})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)

	event := hlog.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	}
	event.Err(err).Int("status", status).Msg("request failed")

	msg := err.Error()
	if h.production && status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *HTTPHandler) allowedOrigins() []string {
	if len(h.corsOrigins) == 0 {
		return []string{"*"}
	}
	return h.corsOrigins
}

// StatusCode maps error to HTTP status code.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, platform.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, platform.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, platform.ErrUpstream), errors.Is(err, platform.ErrRatingAcquisition):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func pathParam(r *http.Request, name string) (string, bool) {
	value, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		value = chi.URLParam(r, name)
	}
	value = strings.TrimSpace(value)

	return value, value != ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
