package ingester

import (
	"context"
	"fmt"
	"strings"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Lookup --filename lookup.go
//go:generate mockery --name Acquirer --filename acquirer.go
//go:generate mockery --name Storage --filename storage.go

// Lookup looks up product information by barcode.
type Lookup interface {
	Lookup(ctx context.Context, barcode string) (models.ProductInfo, error)
}

// Acquirer acquires ratings of product.
type Acquirer interface {
	Acquire(ctx context.Context, info models.ProductInfo) (models.Ratings, error)
}

// Storage is products and ratings storage.
type Storage interface {
	// Upsert creates product or updates its most recent ratings and appends rating to its history.
	// Returns product after the change.
	Upsert(
		ctx context.Context,
		barcode string,
		info models.ProductInfo,
		ratings models.Ratings,
		timestamp int64,
	) (*models.Product, error)
}

// Clock provides times.
type Clock interface {
	// Timestamp returns UTC unix timestamp in milliseconds.
	Timestamp() int64
}

// Option is custom configuration of Ingester.
type Option func(i *Ingester)

// Ingester looks up, rates and stores products.
type Ingester struct {
	lookup   Lookup
	acquirer Acquirer
	storage  Storage
	clock    Clock
	logger   *zerolog.Logger
}

// NewIngester returns new Ingester.
func NewIngester(lookup Lookup, acquirer Acquirer, storage Storage, logger *zerolog.Logger, ops ...Option) *Ingester {
	ing := &Ingester{
		lookup:   lookup,
		acquirer: acquirer,
		storage:  storage,
		clock:    systemClock{},
		logger:   logger,
	}

	for _, op := range ops {
		op(ing)
	}

	return ing
}

// Ingest looks up product under barcode, acquires its ratings and stores them.
// Stages run one after another and the first failure is returned.
func (i Ingester) Ingest(ctx context.Context, barcode string) (*models.IngestResult, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, platform.ErrBarcodeMissing
	}

	logger := i.logger.With().Str("barcode", barcode).Logger()

	// look up product information.
	info, err := i.lookup.Lookup(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("can't look up product: %w", err)
	}
	logger.Debug().Str("title", info.Title).Str("brand", info.Brand).Msg("product found")

	// acquire ratings.
	ratings, err := i.acquirer.Acquire(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("can't rate product: %w", err)
	}
	logger.Debug().Int("holistic_rating", ratings.HolisticRating).Msg("product rated")

	// store ratings.
	product, err := i.storage.Upsert(ctx, barcode, info, ratings, i.clock.Timestamp())
	if err != nil {
		return nil, fmt.Errorf("can't store product: %w", err)
	}
	logger.Info().Int("ratings", len(product.RatingList)).Msg("product ingested")

	return &models.IngestResult{
		ProductInfo: info,
		Ratings:     ratings,
		Product:     product,
	}, nil
}

// WithClock sets Ingester's custom Clock.
func WithClock(c Clock) Option {
	return func(i *Ingester) {
		i.clock = c
	}
}
