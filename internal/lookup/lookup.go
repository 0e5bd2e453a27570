package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MichalMitros/product-rater/internal/decoder"
	"github.com/MichalMitros/product-rater/internal/fetcher"
	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Default base URLs of supported providers.
const (
	UPCDatabaseURL   = "https://api.upcdatabase.org"
	UPCItemDBURL     = "https://api.upcitemdb.com"
	OpenFoodFactsURL = "https://world.openfoodfacts.org"
)

// Fetcher fetches JSON documents.
type Fetcher interface {
	FetchFile(ctx context.Context, url string, opts ...fetcher.RequestOption) (io.ReadCloser, error)
}

// Client looks up products by barcode in configured provider.
type Client struct {
	fetcher  Fetcher
	provider decoder.Provider
	baseURL  string
	apiKey   string
	limiter  *rate.Limiter
	logger   *zerolog.Logger
}

// Option configures Client.
type Option func(c *Client)

// WithBaseURL overrides default provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithAPIKey sets provider API key sent as bearer token.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithRateInterval sets minimal interval between provider calls. Zero disables pacing.
func WithRateInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewClient returns new Client for provider.
func NewClient(fet Fetcher, provider decoder.Provider, logger *zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		fetcher:  fet,
		provider: provider,
		baseURL:  defaultBaseURL(provider),
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger:   logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Lookup fetches product information for barcode and normalizes it.
// Returns platform.ErrNotFound when provider has no match and platform.ErrUpstream on any other failure.
func (c *Client) Lookup(ctx context.Context, barcode string) (models.ProductInfo, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return models.ProductInfo{}, platform.ErrBarcodeMissing
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return models.ProductInfo{}, fmt.Errorf("%w: rate limiter: %w", platform.ErrUpstream, err)
	}

	productURL := c.productURL(barcode)
	c.logger.Debug().
		Str("provider", string(c.provider)).
		Str("barcode", barcode).
		Msg("looking up product")

	body, err := c.fetcher.FetchFile(ctx, productURL, fetcher.WithBearerToken(c.apiKey))
	if err != nil {
		var statusErr *fetcher.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return models.ProductInfo{}, fmt.Errorf("%w: barcode %s", platform.ErrNotFound, barcode)
		}
		return models.ProductInfo{}, fmt.Errorf("%w: can't fetch product from %s: %w", platform.ErrUpstream, c.provider, err)
	}
	defer func() {
		if err := body.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("can't close lookup response body")
		}
	}()

	resp, err := decoder.Decode(c.provider, body)
	if err != nil {
		return models.ProductInfo{}, fmt.Errorf("%w: %w", platform.ErrUpstream, err)
	}

	if !resp.Found() {
		return models.ProductInfo{}, fmt.Errorf("%w: barcode %s", platform.ErrNotFound, barcode)
	}

	return decoder.Normalize(resp, barcode), nil
}

func (c *Client) productURL(barcode string) string {
	escaped := url.PathEscape(barcode)

	switch c.provider {
	case decoder.ProviderUPCItemDB:
		return c.baseURL + "/prod/trial/lookup?upc=" + url.QueryEscape(barcode)
	case decoder.ProviderOpenFoodFacts:
		return c.baseURL + "/api/v2/product/" + escaped + ".json"
	default:
		return c.baseURL + "/product/" + escaped
	}
}

func defaultBaseURL(provider decoder.Provider) string {
	switch provider {
	case decoder.ProviderUPCItemDB:
		return UPCItemDBURL
	case decoder.ProviderOpenFoodFacts:
		return OpenFoodFactsURL
	default:
		return UPCDatabaseURL
	}
}
