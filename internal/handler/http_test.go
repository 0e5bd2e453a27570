package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MichalMitros/product-rater/internal/handler"
	"github.com/MichalMitros/product-rater/internal/handler/mocks"
	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/metrics"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/MichalMitros/product-rater/internal/platform/models/modelstesting"
	"github.com/go-faker/faker/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = zerolog.Nop()

func TestUnitHealth(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 30, 0, 0, time.UTC)
	h := handler.NewHTTPHandler(mocks.NewIngester(t), mocks.NewStore(t), &logger,
		handler.WithNow(func() time.Time { return now }),
	)

	rec := serve(h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","timestamp":"2025-03-01T12:30:00.000Z"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), "should set security headers")
}

func TestUnitWelcome(t *testing.T) {
	h := handler.NewHTTPHandler(mocks.NewIngester(t), mocks.NewStore(t), &logger)

	rec := serve(h, http.MethodGet, "/api", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to the API","version":"1.0.0","documentation":"/api/docs"}`, rec.Body.String())
}

func TestUnitNotFoundRoute(t *testing.T) {
	h := handler.NewHTTPHandler(mocks.NewIngester(t), mocks.NewStore(t), &logger)

	rec := serve(h, http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not Found"}`, rec.Body.String())
}

func TestUnitAddProduct(t *testing.T) {
	barcode := faker.Word()
	info := modelstesting.FakeProductInfo(func(i *models.ProductInfo) {
		i.Barcode = barcode
		i.Images = []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"}
		i.Metadata = map[string]any{"nutrition_grades": "b", "nova_group": 3.0}
	})
	ratings := models.Ratings{
		PriceValue:          4,
		SustainabilityScore: 2,
		NutritionalValue:    3,
		HolisticRating:      3,
		Description:         "Decent product.",
		RawPrice:            lo.ToPtr(2.49),
	}

	ingester := mocks.NewIngester(t)
	ingester.On("Ingest", mock.Anything, barcode).Return(&models.IngestResult{
		ProductInfo: info,
		Ratings:     ratings,
		Product:     &models.Product{Barcode: barcode},
	}, nil).Once()

	h := handler.NewHTTPHandler(ingester, mocks.NewStore(t), &logger)

	rec := serve(h, http.MethodPost, "/api/addProduct", fmt.Sprintf(`{"barcode":%q}`, barcode))

	require.Equal(t, http.StatusOK, rec.Code)

	expected := fmt.Sprintf(`{
		"success": true,
		"data": {
			"priceValue": 4,
			"sustainabilityScore": 2,
			"nutritionalValue": 3,
			"holisticRating": 3,
			"description": "Decent product.",
			"rawPrice": 2.49,
			"name": %q,
			"brand": %q,
			"price": 2.49,
			"image": "https://img.example.com/1.jpg",
			"nutritionGrade": "b",
			"novaGroup": "3"
		}
	}`, info.Title, info.Brand)
	assert.JSONEq(t, expected, rec.Body.String())
}

func TestUnitAddProductBadRequest(t *testing.T) {
	tests := map[string]string{
		"empty body":      "",
		"invalid json":    `{"barcode":`,
		"missing barcode": `{}`,
		"blank barcode":   `{"barcode":"  "}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			// ingester without expectations fails on any call
			h := handler.NewHTTPHandler(mocks.NewIngester(t), mocks.NewStore(t), &logger)

			rec := serve(h, http.MethodPost, "/api/addProduct", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"success":false,"error":"Barcode is required"}`, rec.Body.String())
		})
	}
}

func TestUnitAddProductErrors(t *testing.T) {
	tests := map[string]struct {
		err        error
		production bool
		wantStatus int
		wantError  string
	}{
		"not found": {
			err:        fmt.Errorf("can't look up product: %w", platform.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "can't look up product: product not found",
		},
		"upstream": {
			err:        fmt.Errorf("can't look up product: %w", platform.ErrUpstream),
			wantStatus: http.StatusBadGateway,
			wantError:  "can't look up product: upstream request failed",
		},
		"malformed rating": {
			err:        fmt.Errorf("can't rate product: %w", platform.ErrMalformedRating),
			wantStatus: http.StatusBadGateway,
			wantError:  "can't rate product: can't acquire ratings: malformed rating",
		},
		"internal": {
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantError:  assert.AnError.Error(),
		},
		"internal in production": {
			err:        assert.AnError,
			production: true,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal Server Error",
		},
		"not found in production": {
			err:        platform.ErrNotFound,
			production: true,
			wantStatus: http.StatusNotFound,
			wantError:  "product not found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ingester := mocks.NewIngester(t)
			ingester.On("Ingest", mock.Anything, "123").Return(nil, tt.err).Once()

			h := handler.NewHTTPHandler(ingester, mocks.NewStore(t), &logger, handler.WithProduction(tt.production))

			rec := serve(h, http.MethodPost, "/api/addProduct", `{"barcode":"123"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, errorBody{Success: false, Error: tt.wantError}, decodeError(t, rec))
		})
	}
}

func TestUnitTopProducts(t *testing.T) {
	products := []models.ProductSummary{
		{Barcode: "1", Name: "First", MostRecentHolisticRating: 5},
		{Barcode: "2", Name: "Second", MostRecentHolisticRating: 4},
	}

	tests := map[string]struct {
		query     string
		wantLimit int
	}{
		"default limit": {query: "", wantLimit: 4},
		"custom limit":  {query: "?limit=2", wantLimit: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			store := mocks.NewStore(t)
			store.On("TopRated", mock.Anything, tt.wantLimit).Return(products, nil).Once()

			h := handler.NewHTTPHandler(mocks.NewIngester(t), store, &logger)

			rec := serve(h, http.MethodGet, "/api/topProducts"+tt.query, "")

			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Success bool                    `json:"success"`
				List    []models.ProductSummary `json:"list"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.True(t, body.Success)
			assert.Equal(t, products, body.List)
		})
	}
}

func TestUnitTopProductsInvalidLimit(t *testing.T) {
	h := handler.NewHTTPHandler(mocks.NewIngester(t), mocks.NewStore(t), &logger)

	for _, limit := range []string{"abc", "0", "-1"} {
		rec := serve(h, http.MethodGet, "/api/topProducts?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit %q should be rejected", limit)
	}
}

func TestUnitProductsByBrand(t *testing.T) {
	store := mocks.NewStore(t)
	store.On("FindByBrand", mock.Anything, "Acme Foods").
		Return([]models.BrandProduct{{Name: "Widget", Barcode: "0123456789"}}, nil).Once()

	h := handler.NewHTTPHandler(mocks.NewIngester(t), store, &logger)

	rec := serve(h, http.MethodGet, "/api/getProducts/Acme%20Foods", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"list":[{"name":"Widget","barcode":"0123456789"}]}`, rec.Body.String())
}

func TestUnitProductData(t *testing.T) {
	product := &models.Product{
		Barcode: "0123456789",
		Name:    "Widget",
		Brand:   "Acme",
		RatingList: []models.RatingInstance{
			{Timestamp: 1, Rating: modelstesting.FakeRatings()},
		},
	}

	store := mocks.NewStore(t)
	store.On("FindByBarcode", mock.Anything, "0123456789").Return(product, nil).Once()

	h := handler.NewHTTPHandler(mocks.NewIngester(t), store, &logger)

	rec := serve(h, http.MethodGet, "/api/getData/0123456789", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool            `json:"success"`
		Data    *models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, product.RatingList, body.Data.RatingList)
}

func TestUnitProductDataNotFound(t *testing.T) {
	store := mocks.NewStore(t)
	store.On("FindByBarcode", mock.Anything, "404").
		Return(nil, fmt.Errorf("%w: barcode 404", platform.ErrNotFound)).Once()

	h := handler.NewHTTPHandler(mocks.NewIngester(t), store, &logger)

	rec := serve(h, http.MethodGet, "/api/getData/404", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errorBody{Success: false, Error: "product not found: barcode 404"}, decodeError(t, rec))
}

func TestUnitBrands(t *testing.T) {
	store := mocks.NewStore(t)
	store.On("ListBrands", mock.Anything).Return([]string{"Acme", "Zeta"}, nil).Once()

	h := handler.NewHTTPHandler(mocks.NewIngester(t), store, &logger)

	rec := serve(h, http.MethodGet, "/api/brands", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"count":2,"brands":["Acme","Zeta"]}`, rec.Body.String())
}

func TestUnitBrandsStoreError(t *testing.T) {
	store := mocks.NewStore(t)
	store.On("ListBrands", mock.Anything).Return(nil, assert.AnError).Once()

	h := handler.NewHTTPHandler(mocks.NewIngester(t), store, &logger, handler.WithProduction(true))

	rec := serve(h, http.MethodGet, "/api/brands", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error(), "shouldn't leak internal error")
}

func TestUnitMetricsEndpoint(t *testing.T) {
	ingester := mocks.NewIngester(t)
	ingester.On("Ingest", mock.Anything, "123").Return(nil, platform.ErrNotFound).Once()

	h := handler.NewHTTPHandler(ingester, mocks.NewStore(t), &logger,
		handler.WithMetrics(metrics.NewMetrics(prometheus.NewRegistry())),
	)

	_ = serve(h, http.MethodPost, "/api/addProduct", `{"barcode":"123"}`)
	rec := serve(h, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `product_rater_ingestions_total{outcome="not_found",source="http"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/api/addProduct",status="4xx"`)
}

func TestUnitStatusCode(t *testing.T) {
	tests := map[string]struct {
		err      error
		expected int
	}{
		"validation":        {platform.ErrBarcodeMissing, http.StatusBadRequest},
		"not found":         {platform.ErrNotFound, http.StatusNotFound},
		"upstream":          {platform.ErrUpstream, http.StatusBadGateway},
		"rating":            {platform.ErrRatingAcquisition, http.StatusBadGateway},
		"malformed rating":  {platform.ErrMalformedRating, http.StatusBadGateway},
		"unclassified":      {assert.AnError, http.StatusInternalServerError},
		"wrapped not found": {fmt.Errorf("a: %w", fmt.Errorf("b: %w", platform.ErrNotFound)), http.StatusNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, handler.StatusCode(tt.err))
		})
	}
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func serve(h *handler.HTTPHandler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	return rec
}
