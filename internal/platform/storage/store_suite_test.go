package storage_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/MichalMitros/product-rater/internal/platform/models/modelstesting"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

// store is behaviour shared by all storage backends.
type store interface {
	Upsert(ctx context.Context, barcode string, info models.ProductInfo, ratings models.Ratings, timestamp int64) (*models.Product, error)
	TopRated(ctx context.Context, limit int) ([]models.ProductSummary, error)
	FindByBrand(ctx context.Context, brand string) ([]models.BrandProduct, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	ListBrands(ctx context.Context) ([]string, error)
}

// StoreTestSuite tests store behaviour. Backend suites embed it and provide Store and Cleanup.
type StoreTestSuite struct {
	suite.Suite
	Store   store
	Cleanup func()
}

var now = time.Date(2024, time.April, 1, 1, 1, 1, 0, time.UTC)

func (s *StoreTestSuite) TestIntegrationUpsertTwice() {
	s.Cleanup()
	barcode := faker.UUIDDigit()
	info := modelstesting.FakeProductInfo(func(i *models.ProductInfo) {
		i.Barcode = barcode
		i.Images = []string{"https://img.example.com/front.jpg", "https://img.example.com/back.jpg"}
		i.Metadata = map[string]any{"nutrition_grades": "b", "nova_group": 2.0}
	})
	first := modelstesting.FakeRatings()
	second := modelstesting.FakeRatings(func(r *models.Ratings) { r.RawPrice = nil })

	created, err := s.Store.Upsert(context.TODO(), barcode, info, first, now.UnixMilli())
	s.Require().NoError(err)
	s.Require().Len(created.RatingList, 1)

	updatedInfo := modelstesting.FakeProductInfo(func(i *models.ProductInfo) { i.Metadata = map[string]any{} })
	updated, err := s.Store.Upsert(context.TODO(), barcode, updatedInfo, second, now.Add(time.Hour).UnixMilli())
	s.Require().NoError(err)

	s.Equal(barcode, updated.Barcode)
	s.Equal(info.Title, updated.Name, "should keep name set at creation")
	s.Equal(info.Brand, updated.Brand, "should keep brand set at creation")
	s.Equal("https://img.example.com/front.jpg", updated.Image, "should keep front image")
	s.Equal(lo.ToPtr("b"), updated.NutritionGrade, "should keep nutrition grade when new one is missing")
	s.Equal(lo.ToPtr("2"), updated.NovaGroup)
	s.Nil(updated.RawPrice, "should refresh raw price")
	s.Equal(second.PriceValue, updated.MostRecentPriceValue)
	s.Equal(second.SustainabilityScore, updated.MostRecentSustainabilityScore)
	s.Equal(second.NutritionalValue, updated.MostRecentNutritionalValue)
	s.Equal(second.HolisticRating, updated.MostRecentHolisticRating)
	s.Equal(second.Description, updated.MostRecentDescription)
	s.Equal([]models.RatingInstance{
		{Timestamp: now.UnixMilli(), Rating: first},
		{Timestamp: now.Add(time.Hour).UnixMilli(), Rating: second},
	}, updated.RatingList, "should append rating and keep previous one unchanged")

	found, err := s.Store.FindByBarcode(context.TODO(), barcode)
	s.Require().NoError(err)
	s.Equal(updated.RatingList, found.RatingList)
	s.Equal(updated.MostRecentHolisticRating, found.MostRecentHolisticRating)
}

func (s *StoreTestSuite) TestIntegrationConcurrentUpserts() {
	s.Cleanup()
	barcode := faker.UUIDDigit()
	upserts := 10

	var eg errgroup.Group
	for ix := range upserts {
		eg.Go(func() error {
			_, err := s.Store.Upsert(
				context.TODO(),
				barcode,
				modelstesting.FakeProductInfo(),
				modelstesting.FakeRatings(),
				now.Add(time.Duration(ix)*time.Second).UnixMilli(),
			)
			return err
		})
	}
	s.Require().NoError(eg.Wait())

	product, err := s.Store.FindByBarcode(context.TODO(), barcode)
	s.Require().NoError(err)
	s.Len(product.RatingList, upserts, "shouldn't lose any rating")

	timestamps := lo.Uniq(lo.Map(product.RatingList, func(r models.RatingInstance, _ int) int64 {
		return r.Timestamp
	}))
	s.Len(timestamps, upserts, "should store every rating once")

	last := product.RatingList[len(product.RatingList)-1].Rating
	s.Equal(last.HolisticRating, product.MostRecentHolisticRating, "most recent fields should match last rating")
	s.Equal(last.Description, product.MostRecentDescription)
}

func (s *StoreTestSuite) TestIntegrationTopRated() {
	s.Cleanup()
	holistic := []int{3, 5, 1, 4, 5, 2}
	for ix, rating := range holistic {
		_, err := s.Store.Upsert(context.TODO(),
			fmt.Sprintf("barcode-%d", ix),
			modelstesting.FakeProductInfo(),
			modelstesting.FakeRatings(func(r *models.Ratings) { r.HolisticRating = rating }),
			now.UnixMilli(),
		)
		s.Require().NoError(err)
	}

	tests := map[string]struct {
		limit        int
		wantBarcodes []string
	}{
		"less than stored": {
			limit:        3,
			wantBarcodes: []string{"barcode-1", "barcode-4", "barcode-3"},
		},
		"default limit": {
			limit:        0,
			wantBarcodes: []string{"barcode-1", "barcode-4", "barcode-3", "barcode-0"},
		},
		"more than stored": {
			limit:        10,
			wantBarcodes: []string{"barcode-1", "barcode-4", "barcode-3", "barcode-0", "barcode-5", "barcode-2"},
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			top, err := s.Store.TopRated(context.TODO(), tt.limit)
			s.Require().NoError(err)

			s.Equal(tt.wantBarcodes, lo.Map(top, func(p models.ProductSummary, _ int) string { return p.Barcode }))
			s.True(sort.SliceIsSorted(top, func(i, j int) bool {
				return top[i].MostRecentHolisticRating > top[j].MostRecentHolisticRating
			}))
		})
	}
}

func (s *StoreTestSuite) TestIntegrationFindByBrand() {
	s.Cleanup()
	brands := []string{"Acme", "ACME Foods", "Zeta", "100% Natural", "Unknown"}
	for ix, brand := range brands {
		_, err := s.Store.Upsert(context.TODO(),
			fmt.Sprintf("barcode-%d", ix),
			modelstesting.FakeProductInfo(func(i *models.ProductInfo) {
				i.Brand = brand
				i.Title = "product " + brand
			}),
			modelstesting.FakeRatings(),
			now.UnixMilli(),
		)
		s.Require().NoError(err)
	}

	tests := map[string]struct {
		brand string
		want  []models.BrandProduct
	}{
		"case insensitive substring": {
			brand: "acme",
			want: []models.BrandProduct{
				{Name: "product Acme", Barcode: "barcode-0"},
				{Name: "product ACME Foods", Barcode: "barcode-1"},
			},
		},
		"metacharacters are literal": {
			brand: "0%",
			want:  []models.BrandProduct{{Name: "product 100% Natural", Barcode: "barcode-3"}},
		},
		"no match": {
			brand: "omega",
			want:  []models.BrandProduct{},
		},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			found, err := s.Store.FindByBrand(context.TODO(), tt.brand)
			s.Require().NoError(err)
			s.ElementsMatch(tt.want, found)
		})
	}
}

func (s *StoreTestSuite) TestIntegrationFindByBarcodeNotFound() {
	s.Cleanup()

	_, err := s.Store.FindByBarcode(context.TODO(), faker.UUIDDigit())

	s.Require().ErrorIs(err, platform.ErrNotFound)
}

func (s *StoreTestSuite) TestIntegrationListBrands() {
	s.Cleanup()
	for ix, brand := range []string{"Zeta", "Acme", "acme", "", "Zeta"} {
		_, err := s.Store.Upsert(context.TODO(),
			fmt.Sprintf("barcode-%d", ix),
			modelstesting.FakeProductInfo(func(i *models.ProductInfo) { i.Brand = brand }),
			modelstesting.FakeRatings(),
			now.UnixMilli(),
		)
		s.Require().NoError(err)
	}

	brands, err := s.Store.ListBrands(context.TODO())

	s.Require().NoError(err)
	s.Equal([]string{"Acme", "Zeta"}, brands)
}
