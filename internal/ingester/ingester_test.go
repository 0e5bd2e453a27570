package ingester_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/MichalMitros/product-rater/internal/ingester"
	"github.com/MichalMitros/product-rater/internal/ingester/mocks"
	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/genai"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/MichalMitros/product-rater/internal/platform/models/modelstesting"
	"github.com/MichalMitros/product-rater/internal/rating"
	ratingmocks "github.com/MichalMitros/product-rater/internal/rating/mocks"
	"github.com/go-faker/faker/v4"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reusable test data
var (
	barcode                        = faker.Word()
	timestamp                      = rand.Int63()
	logger                         = zerolog.Nop()
	errShouldContainAssertErrorMsg = "should return error containing assert.AnError"
)

func TestUnitIngest(t *testing.T) {
	info := modelstesting.FakeProductInfo(func(i *models.ProductInfo) { i.Barcode = barcode })
	ratings := modelstesting.FakeRatings()
	product := &models.Product{
		Barcode:    barcode,
		Name:       info.Title,
		RatingList: []models.RatingInstance{{Timestamp: timestamp, Rating: ratings}},
	}

	lookup := mocks.NewLookup(t)
	acquirer := mocks.NewAcquirer(t)
	storage := mocks.NewStorage(t)

	lookup.On("Lookup", mock.Anything, barcode).Return(info, nil).Once()
	acquirer.On("Acquire", mock.Anything, info).Return(ratings, nil).Once()
	storage.On("Upsert", mock.Anything, barcode, info, ratings, timestamp).Return(product, nil).Once()

	ing := ingester.NewIngester(lookup, acquirer, storage, &logger, ingester.WithClock(fakeClock{timestamp: timestamp}))

	result, err := ing.Ingest(context.Background(), "  "+barcode+"\t")
	require.NoError(t, err)

	assert.Equal(t, &models.IngestResult{
		ProductInfo: info,
		Ratings:     ratings,
		Product:     product,
	}, result)
}

func TestUnitIngestEmptyBarcode(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"whitespaces": " \t\n ",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			// mocks without expectations fail on any call
			ing := ingester.NewIngester(mocks.NewLookup(t), mocks.NewAcquirer(t), mocks.NewStorage(t), &logger)

			result, err := ing.Ingest(context.Background(), input)

			require.ErrorIs(t, err, platform.ErrBarcodeMissing)
			require.ErrorIs(t, err, platform.ErrValidation)
			assert.Nil(t, result)
		})
	}
}

func TestUnitIngestLookupError(t *testing.T) {
	tests := map[string]error{
		"not found":        platform.ErrNotFound,
		"upstream failure": platform.ErrUpstream,
		"other error":      assert.AnError,
	}

	for name, lookupErr := range tests {
		t.Run(name, func(t *testing.T) {
			lookup := mocks.NewLookup(t)
			lookup.On("Lookup", mock.Anything, barcode).Return(models.ProductInfo{}, lookupErr).Once()

			ing := ingester.NewIngester(lookup, mocks.NewAcquirer(t), mocks.NewStorage(t), &logger)

			result, err := ing.Ingest(context.Background(), barcode)

			require.ErrorContains(t, err, "can't look up product")
			require.ErrorIs(t, err, lookupErr)
			assert.Nil(t, result)
		})
	}
}

func TestUnitIngestAcquirerError(t *testing.T) {
	info := modelstesting.FakeProductInfo()

	lookup := mocks.NewLookup(t)
	acquirer := mocks.NewAcquirer(t)

	lookup.On("Lookup", mock.Anything, barcode).Return(info, nil).Once()
	acquirer.On("Acquire", mock.Anything, info).Return(models.Ratings{}, assert.AnError).Once()

	ing := ingester.NewIngester(lookup, acquirer, mocks.NewStorage(t), &logger)

	result, err := ing.Ingest(context.Background(), barcode)

	require.ErrorContains(t, err, "can't rate product")
	require.ErrorIs(t, err, assert.AnError, errShouldContainAssertErrorMsg)
	assert.Nil(t, result)
}

func TestUnitIngestStorageError(t *testing.T) {
	info := modelstesting.FakeProductInfo()
	ratings := modelstesting.FakeRatings()

	lookup := mocks.NewLookup(t)
	acquirer := mocks.NewAcquirer(t)
	storage := mocks.NewStorage(t)

	lookup.On("Lookup", mock.Anything, barcode).Return(info, nil).Once()
	acquirer.On("Acquire", mock.Anything, info).Return(ratings, nil).Once()
	storage.On("Upsert", mock.Anything, barcode, info, ratings, mock.AnythingOfType("int64")).
		Return(nil, assert.AnError).Once()

	ing := ingester.NewIngester(lookup, acquirer, storage, &logger)

	result, err := ing.Ingest(context.Background(), barcode)

	require.ErrorContains(t, err, "can't store product")
	require.ErrorIs(t, err, assert.AnError, errShouldContainAssertErrorMsg)
	assert.Nil(t, result)
}

func TestUnitIngestWithRatingAcquirer(t *testing.T) {
	ts := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	info := models.ProductInfo{
		Barcode:  "0123456789",
		Title:    "Widget",
		Brand:    "Acme",
		Images:   []string{},
		Offers:   []models.Offer{},
		Metadata: map[string]any{},
	}
	reply := "```json\n" + `{
		"priceValue": 4,
		"sustainabilityScore": 2,
		"nutritionalValue": 3,
		"holisticRating": 3,
		"description": "Affordable widget with average footprint.",
		"rawPrice": "9.99"
	}` + "\n```"

	lookup := mocks.NewLookup(t)
	generator := ratingmocks.NewGenerator(t)
	storage := mocks.NewStorage(t)

	lookup.On("Lookup", mock.Anything, "0123456789").Return(info, nil).Once()
	generator.On("Generate", mock.Anything, mock.AnythingOfType("genai.Request")).Return(reply, nil).Once()
	storage.On("Upsert", mock.Anything, "0123456789", info, mock.AnythingOfType("models.Ratings"), ts).
		Return(func(_ context.Context, barcode string, info models.ProductInfo, r models.Ratings, ts int64) (*models.Product, error) {
			return &models.Product{
				Barcode:                       barcode,
				Name:                          info.Title,
				Brand:                         info.Brand,
				RawPrice:                      r.RawPrice,
				MostRecentPriceValue:          r.PriceValue,
				MostRecentSustainabilityScore: r.SustainabilityScore,
				MostRecentNutritionalValue:    r.NutritionalValue,
				MostRecentHolisticRating:      r.HolisticRating,
				MostRecentDescription:         r.Description,
				RatingList:                    []models.RatingInstance{{Timestamp: ts, Rating: r}},
			}, nil
		}).Once()

	acquirer := rating.NewAcquirer(generator, &logger)
	ing := ingester.NewIngester(lookup, acquirer, storage, &logger, ingester.WithClock(fakeClock{timestamp: ts}))

	result, err := ing.Ingest(context.Background(), "0123456789")
	require.NoError(t, err)

	expectedRatings := models.Ratings{
		PriceValue:          4,
		SustainabilityScore: 2,
		NutritionalValue:    3,
		HolisticRating:      3,
		Description:         "Affordable widget with average footprint.",
		RawPrice:            lo.ToPtr(9.99),
	}
	assert.Equal(t, expectedRatings, result.Ratings)
	assert.Equal(t, "Widget", result.Product.Name)
	assert.Equal(t, "Acme", result.Product.Brand)
	assert.Equal(t, 3, result.Product.MostRecentHolisticRating)
	assert.Equal(t, []models.RatingInstance{{Timestamp: ts, Rating: expectedRatings}}, result.Product.RatingList)

	req := generator.Calls[0].Arguments.Get(1).(genai.Request)
	assert.True(t, req.GoogleSearch, "should ground rating with search")
	assert.Contains(t, req.Parts[1], `"title":"Widget"`)
}

type fakeClock struct {
	timestamp int64
}

func (c fakeClock) Timestamp() int64 {
	return c.timestamp
}
