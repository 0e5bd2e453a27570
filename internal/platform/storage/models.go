package storage

import (
	"strings"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/product-rater/internal/platform/storage/gen/postgres/public/model"
)

//go:generate make -C ../../../ generate-db

// DefaultTopLimit is number of top rated products returned when no limit is provided.
const DefaultTopLimit = 4

// ToDBProduct converts product info and ratings into postgres product model.
func ToDBProduct(barcode string, info *models.ProductInfo, ratings *models.Ratings, ts time.Time) *pgmodels.Product {
	return &pgmodels.Product{
		Barcode:                       barcode,
		Name:                          info.Title,
		Brand:                         nullableString(info.Brand),
		Image:                         firstImage(info.Images),
		RawPrice:                      ratings.RawPrice,
		NutritionGrade:                info.MetadataString("nutrition_grades"),
		NovaGroup:                     info.MetadataString("nova_group"),
		MostRecentPriceValue:          int32(ratings.PriceValue),
		MostRecentSustainabilityScore: int32(ratings.SustainabilityScore),
		MostRecentNutritionalValue:    int32(ratings.NutritionalValue),
		MostRecentHolisticRating:      int32(ratings.HolisticRating),
		MostRecentDescription:         ratings.Description,
		CreatedAt:                     ts,
		UpdatedAt:                     ts,
	}
}

// ToDBRating converts ratings into postgres rating model.
func ToDBRating(productID int32, timestamp int64, ratings *models.Ratings) *pgmodels.Rating {
	return &pgmodels.Rating{
		ProductID:           productID,
		RatedAt:             timestamp,
		PriceValue:          int32(ratings.PriceValue),
		SustainabilityScore: int32(ratings.SustainabilityScore),
		NutritionalValue:    int32(ratings.NutritionalValue),
		HolisticRating:      int32(ratings.HolisticRating),
		Description:         ratings.Description,
		RawPrice:            ratings.RawPrice,
	}
}

func toProduct(product *pgmodels.Product, ratings []pgmodels.Rating) *models.Product {
	return &models.Product{
		Barcode:                       product.Barcode,
		Name:                          product.Name,
		Brand:                         lo.FromPtr(product.Brand),
		Image:                         product.Image,
		RawPrice:                      product.RawPrice,
		NutritionGrade:                product.NutritionGrade,
		NovaGroup:                     product.NovaGroup,
		MostRecentPriceValue:          int(product.MostRecentPriceValue),
		MostRecentSustainabilityScore: int(product.MostRecentSustainabilityScore),
		MostRecentNutritionalValue:    int(product.MostRecentNutritionalValue),
		MostRecentHolisticRating:      int(product.MostRecentHolisticRating),
		MostRecentDescription:         product.MostRecentDescription,
		RatingList:                    lo.Map(ratings, toRatingInstance),
		CreatedAt:                     product.CreatedAt,
		UpdatedAt:                     product.UpdatedAt,
	}
}

func toRatingInstance(rating pgmodels.Rating, _ int) models.RatingInstance {
	return models.RatingInstance{
		Timestamp: rating.RatedAt,
		Rating: models.Ratings{
			PriceValue:          int(rating.PriceValue),
			SustainabilityScore: int(rating.SustainabilityScore),
			NutritionalValue:    int(rating.NutritionalValue),
			HolisticRating:      int(rating.HolisticRating),
			Description:         rating.Description,
			RawPrice:            rating.RawPrice,
		},
	}
}

func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

func nullableString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
