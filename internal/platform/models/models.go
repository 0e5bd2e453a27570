package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductInfo is canonical product information returned by barcode lookup providers.
type ProductInfo struct {
	Barcode     string         `json:"barcode"`
	Title       string         `json:"title"`
	Brand       string         `json:"brand"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Images      []string       `json:"images"`
	Offers      []Offer        `json:"offers"`
	Metadata    map[string]any `json:"metadata"`
}

// Offer is single merchant offer for a product.
type Offer struct {
	Merchant  string              `json:"merchant"`
	Price     decimal.NullDecimal `json:"price"`
	ListPrice decimal.NullDecimal `json:"list_price"`
	Link      string              `json:"link"`
}

// Ratings is a single rating acquisition result.
type Ratings struct {
	PriceValue          int      `json:"priceValue" bson:"priceValue"`
	SustainabilityScore int      `json:"sustainabilityScore" bson:"sustainabilityScore"`
	NutritionalValue    int      `json:"nutritionalValue" bson:"nutritionalValue"`
	HolisticRating      int      `json:"holisticRating" bson:"holisticRating"`
	Description         string   `json:"description" bson:"description"`
	RawPrice            *float64 `json:"rawPrice" bson:"rawPrice"`
}

// RatingInstance is immutable rating history entry.
type RatingInstance struct {
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
	Rating    Ratings `json:"rating" bson:"rating"`
}

// Product is persisted product model with its rating history.
type Product struct {
	Barcode                       string           `json:"barcode"`
	Name                          string           `json:"name"`
	Brand                         string           `json:"brand"`
	Image                         string           `json:"image"`
	RawPrice                      *float64         `json:"rawPrice"`
	NutritionGrade                *string          `json:"nutritionGrade,omitempty"`
	NovaGroup                     *string          `json:"novaGroup,omitempty"`
	MostRecentPriceValue          int              `json:"mostRecentPriceValue"`
	MostRecentSustainabilityScore int              `json:"mostRecentSustainabilityScore"`
	MostRecentNutritionalValue    int              `json:"mostRecentNutritionalValue"`
	MostRecentHolisticRating      int              `json:"mostRecentHolisticRating"`
	MostRecentDescription         string           `json:"mostRecentDescription"`
	RatingList                    []RatingInstance `json:"ratingList"`
	CreatedAt                     time.Time        `json:"createdAt"`
	UpdatedAt                     time.Time        `json:"updatedAt"`
}

// ProductSummary is product model without rating history.
type ProductSummary struct {
	Barcode                       string   `json:"barcode"`
	Name                          string   `json:"name"`
	Brand                         string   `json:"brand"`
	Image                         string   `json:"image"`
	RawPrice                      *float64 `json:"rawPrice"`
	MostRecentPriceValue          int      `json:"mostRecentPriceValue"`
	MostRecentSustainabilityScore int      `json:"mostRecentSustainabilityScore"`
	MostRecentNutritionalValue    int      `json:"mostRecentNutritionalValue"`
	MostRecentHolisticRating      int      `json:"mostRecentHolisticRating"`
	MostRecentDescription         string   `json:"mostRecentDescription"`
}

// BrandProduct is brand search result entry.
type BrandProduct struct {
	Name    string `json:"name"`
	Barcode string `json:"barcode"`
}

// IngestResult contains all artifacts of a single barcode ingestion.
type IngestResult struct {
	ProductInfo ProductInfo
	Ratings     Ratings
	Product     *Product
}

// Summary returns product without rating history.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		Barcode:                       p.Barcode,
		Name:                          p.Name,
		Brand:                         p.Brand,
		Image:                         p.Image,
		RawPrice:                      p.RawPrice,
		MostRecentPriceValue:          p.MostRecentPriceValue,
		MostRecentSustainabilityScore: p.MostRecentSustainabilityScore,
		MostRecentNutritionalValue:    p.MostRecentNutritionalValue,
		MostRecentHolisticRating:      p.MostRecentHolisticRating,
		MostRecentDescription:         p.MostRecentDescription,
	}
}

// MetadataString returns metadata value under key as string.
// Numbers are formatted without trailing zeros, missing and empty values return nil.
func (i *ProductInfo) MetadataString(key string) *string {
	value, ok := i.Metadata[key]
	if !ok || value == nil {
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case float64:
		str = decimal.NewFromFloat(v).String()
	case int:
		str = decimal.NewFromInt(int64(v)).String()
	case int64:
		str = decimal.NewFromInt(v).String()
	default:
		return nil
	}

	if str == "" {
		return nil
	}

	return &str
}
