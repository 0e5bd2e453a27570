package decoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/samber/lo"
)

// Provider identifies barcode lookup provider and its response shape.
type Provider string

const (
	// ProviderUPCDatabase is upcdatabase.org store-price aggregator.
	ProviderUPCDatabase Provider = "upcdatabase"
	// ProviderUPCItemDB is upcitemdb.com generic lookup.
	ProviderUPCItemDB Provider = "upcitemdb"
	// ProviderOpenFoodFacts is Open Food Facts nutrition database.
	ProviderOpenFoodFacts Provider = "openfoodfacts"

	// Unknown is default value of missing product title and brand.
	Unknown = "Unknown"
)

// ErrUnknownProvider is returned when response of unsupported provider is decoded.
var ErrUnknownProvider = errors.New("unknown lookup provider")

// Response is decoded lookup response of one of supported providers.
type Response interface {
	// Provider returns provider which produced the response.
	Provider() Provider
	// Found reports whether provider matched any product.
	Found() bool

	normalize(barcode string) models.ProductInfo
}

// ParseProvider returns Provider with given name.
func ParseProvider(name string) (Provider, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(name)))
	switch provider {
	case ProviderUPCDatabase, ProviderUPCItemDB, ProviderOpenFoodFacts:
		return provider, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// Decode decodes lookup response body of provider.
func Decode(provider Provider, body io.Reader) (Response, error) {
	var resp Response
	switch provider {
	case ProviderUPCDatabase:
		resp = &upcDatabaseResponse{}
	case ProviderUPCItemDB:
		resp = &upcItemDBResponse{}
	case ProviderOpenFoodFacts:
		resp = &openFoodFactsResponse{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	if err := json.NewDecoder(body).Decode(resp); err != nil {
		return nil, fmt.Errorf("can't decode %s response: %w", provider, err)
	}

	return resp, nil
}

// Normalize converts provider response into ProductInfo.
// It never fails, every missing field gets its default value.
func Normalize(resp Response, barcode string) models.ProductInfo {
	if resp == nil {
		return withDefaults(models.ProductInfo{Barcode: barcode})
	}

	info := resp.normalize(barcode)
	if barcode != "" {
		info.Barcode = barcode
	}

	return withDefaults(info)
}

// withDefaults unescapes html characters from text fields and fills missing fields with defaults.
func withDefaults(info models.ProductInfo) models.ProductInfo {
	info.Title = firstNonBlank(html.UnescapeString(info.Title), Unknown)
	info.Brand = firstNonBlank(html.UnescapeString(info.Brand), Unknown)
	info.Description = strings.TrimSpace(html.UnescapeString(info.Description))
	info.Category = strings.TrimSpace(html.UnescapeString(info.Category))
	info.Images = cleanImages(info.Images)

	if info.Offers == nil {
		info.Offers = []models.Offer{}
	}

	if info.Metadata == nil {
		info.Metadata = map[string]any{}
	}

	return info
}

// firstNonBlank returns first trimmed value which is not empty.
func firstNonBlank(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func cleanImages(images []string) []string {
	cleaned := lo.Uniq(lo.FilterMap(images, func(img string, _ int) (string, bool) {
		img = strings.TrimSpace(img)
		return img, img != ""
	}))

	if cleaned == nil {
		return []string{}
	}

	return cleaned
}

// metadata builds metadata map skipping empty values.
func metadata(values map[string]any) map[string]any {
	return lo.OmitBy(values, func(_ string, value any) bool {
		switch v := value.(type) {
		case nil:
			return true
		case string:
			return strings.TrimSpace(v) == ""
		case []string:
			return len(v) == 0
		case map[string]any:
			return len(v) == 0
		default:
			return false
		}
	})
}
