package modelstesting

import (
	"math/rand"

	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FakeProductInfo returns models.ProductInfo with fake data and random number of fake offers.
func FakeProductInfo(ops ...func(i *models.ProductInfo)) models.ProductInfo {
	info := models.ProductInfo{
		Barcode:     faker.Word(),
		Title:       faker.Word(),
		Brand:       faker.Word(),
		Description: faker.Sentence(),
		Category:    faker.Word(),
		Images:      fakeImages(),
		Offers:      fakeOffers(),
		Metadata: map[string]any{
			"nutrition_grades": faker.Word(),
			"nova_group":       "4",
		},
	}

	for _, op := range ops {
		op(&info)
	}

	return info
}

// FakeOffer returns models.Offer with fake data.
func FakeOffer(ops ...func(o *models.Offer)) models.Offer {
	offer := models.Offer{
		Merchant:  faker.Word(),
		Price:     decimal.NewNullDecimal(decimal.New(rand.Int63n(10000), -2)),
		ListPrice: decimal.NullDecimal{},
		Link:      faker.URL(),
	}

	for _, op := range ops {
		op(&offer)
	}

	return offer
}

// FakeRatings returns models.Ratings with random scores within [1, 5].
func FakeRatings(ops ...func(r *models.Ratings)) models.Ratings {
	ratings := models.Ratings{
		PriceValue:          fakeScore(),
		SustainabilityScore: fakeScore(),
		NutritionalValue:    fakeScore(),
		HolisticRating:      fakeScore(),
		Description:         faker.Sentence(),
		RawPrice:            lo.ToPtr(float64(rand.Intn(10000)) / 100),
	}

	for _, op := range ops {
		op(&ratings)
	}

	return ratings
}

func fakeScore() int {
	return rand.Intn(5) + 1
}

func fakeImages() []string {
	imagesLen := rand.Intn(5)
	images := make([]string, 0, imagesLen)
	for range imagesLen {
		images = append(images, faker.URL())
	}

	return images
}

func fakeOffers() []models.Offer {
	offersLen := rand.Intn(5)
	offers := make([]models.Offer, 0, offersLen)
	for range offersLen {
		offers = append(offers, FakeOffer())
	}

	return offers
}
