package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductsCollection is name of collection with products.
const ProductsCollection = "products"

// mongoProduct is product document with embedded rating history.
type mongoProduct struct {
	ID                            primitive.ObjectID      `bson:"_id,omitempty"`
	Barcode                       string                  `bson:"barcode"`
	Name                          string                  `bson:"name"`
	Brand                         *string                 `bson:"brand"`
	Image                         string                  `bson:"image"`
	RawPrice                      *float64                `bson:"rawPrice"`
	NutritionGrade                *string                 `bson:"nutritionGrade,omitempty"`
	NovaGroup                     *string                 `bson:"novaGroup,omitempty"`
	MostRecentPriceValue          int                     `bson:"mostRecentPriceValue"`
	MostRecentSustainabilityScore int                     `bson:"mostRecentSustainabilityScore"`
	MostRecentNutritionalValue    int                     `bson:"mostRecentNutritionalValue"`
	MostRecentHolisticRating      int                     `bson:"mostRecentHolisticRating"`
	MostRecentDescription         string                  `bson:"mostRecentDescription"`
	RatingList                    []models.RatingInstance `bson:"ratingList"`
	CreatedAt                     time.Time               `bson:"createdAt"`
	UpdatedAt                     time.Time               `bson:"updatedAt"`
}

func (p *mongoProduct) toProduct() *models.Product {
	ratingList := p.RatingList
	if ratingList == nil {
		ratingList = []models.RatingInstance{}
	}

	return &models.Product{
		Barcode:                       p.Barcode,
		Name:                          p.Name,
		Brand:                         lo.FromPtr(p.Brand),
		Image:                         p.Image,
		RawPrice:                      p.RawPrice,
		NutritionGrade:                p.NutritionGrade,
		NovaGroup:                     p.NovaGroup,
		MostRecentPriceValue:          p.MostRecentPriceValue,
		MostRecentSustainabilityScore: p.MostRecentSustainabilityScore,
		MostRecentNutritionalValue:    p.MostRecentNutritionalValue,
		MostRecentHolisticRating:      p.MostRecentHolisticRating,
		MostRecentDescription:         p.MostRecentDescription,
		RatingList:                    ratingList,
		CreatedAt:                     p.CreatedAt,
		UpdatedAt:                     p.UpdatedAt,
	}
}

// Mongo is document storage for products. Every product is a single document
// with embedded rating history, so upsert is a single atomic document update.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongo returns new Mongo using products collection of provided database.
func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{
		client:     client,
		collection: client.Database(database).Collection(ProductsCollection),
	}
}

// OpenMongo connects to MongoDB under uri and checks if it is reachable.
// Returned Mongo owns the client, it's released with Close.
func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("can't connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't ping mongodb: %w", err)
	}

	return NewMongo(client, database), nil
}

// EnsureSchema creates unique barcode index and top rated index.
func (m *Mongo) EnsureSchema(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "barcode", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("barcode_unique"),
		},
		{
			Keys:    bson.D{{Key: "mostRecentHolisticRating", Value: -1}, {Key: "barcode", Value: 1}},
			Options: options.Index().SetName("top_rated"),
		},
	})
	if err != nil {
		return fmt.Errorf("can't create indexes: %w", err)
	}

	return nil
}

// Close disconnects from MongoDB.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return m.client.Disconnect(ctx)
}

// Upsert creates product with first rating or overwrites most recent ratings of existing product
// and appends new rating to its history in single document update.
// Returns product after the change.
func (m *Mongo) Upsert(
	ctx context.Context,
	barcode string,
	info models.ProductInfo,
	ratings models.Ratings,
	timestamp int64,
) (*models.Product, error) {
	now := time.UnixMilli(timestamp).UTC()

	set := bson.M{
		"rawPrice":                      ratings.RawPrice,
		"mostRecentPriceValue":          ratings.PriceValue,
		"mostRecentSustainabilityScore": ratings.SustainabilityScore,
		"mostRecentNutritionalValue":    ratings.NutritionalValue,
		"mostRecentHolisticRating":      ratings.HolisticRating,
		"mostRecentDescription":         ratings.Description,
		"updatedAt":                     now,
	}
	if grade := info.MetadataString("nutrition_grades"); grade != nil {
		set["nutritionGrade"] = *grade
	}
	if group := info.MetadataString("nova_group"); group != nil {
		set["novaGroup"] = *group
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"name":      info.Title,
			"brand":     nullableString(info.Brand),
			"image":     firstImage(info.Images),
			"createdAt": now,
		},
		"$push": bson.M{
			"ratingList": models.RatingInstance{Timestamp: timestamp, Rating: ratings},
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc mongoProduct
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"barcode": barcode}, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		// concurrent upsert inserted the document first, now it's an update
		err = m.collection.FindOneAndUpdate(ctx, bson.M{"barcode": barcode}, update, opts).Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("can't upsert product: %w", err)
	}

	return doc.toProduct(), nil
}

// TopRated returns at most limit products ordered by most recent holistic rating.
// Ties are ordered by barcode. Non-positive limit means DefaultTopLimit.
func (m *Mongo) TopRated(ctx context.Context, limit int) ([]models.ProductSummary, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "mostRecentHolisticRating", Value: -1}, {Key: "barcode", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"ratingList": 0})

	docs, err := m.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("can't get top rated products: %w", err)
	}

	return lo.Map(docs, func(doc mongoProduct, _ int) models.ProductSummary {
		return doc.toProduct().Summary()
	}), nil
}

// FindByBrand returns name and barcode of products which brand contains provided phrase, ignoring case.
func (m *Mongo) FindByBrand(ctx context.Context, brand string) ([]models.BrandProduct, error) {
	filter := bson.M{"brand": primitive.Regex{Pattern: regexp.QuoteMeta(brand), Options: "i"}}
	opts := options.Find().SetProjection(bson.M{"name": 1, "barcode": 1})

	docs, err := m.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("can't find products by brand: %w", err)
	}

	return lo.Map(docs, func(doc mongoProduct, _ int) models.BrandProduct {
		return models.BrandProduct{
			Name:    doc.Name,
			Barcode: doc.Barcode,
		}
	}), nil
}

// FindByBarcode returns product with full rating history, oldest rating first.
// Returns platform.ErrNotFound when there is no product with provided barcode.
func (m *Mongo) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var doc mongoProduct
	err := m.collection.FindOne(ctx, bson.M{"barcode": barcode}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: barcode %s", platform.ErrNotFound, barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get product: %w", err)
	}

	return doc.toProduct(), nil
}

// ListBrands returns distinct brands sorted alphabetically.
func (m *Mongo) ListBrands(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"brand": 1})

	docs, err := m.find(ctx, bson.M{"brand": bson.M{"$type": "string"}}, opts)
	if err != nil {
		return nil, fmt.Errorf("can't list brands: %w", err)
	}

	return dedupBrands(lo.FilterMap(docs, func(doc mongoProduct, _ int) (string, bool) {
		return lo.FromPtr(doc.Brand), doc.Brand != nil
	})), nil
}

func (m *Mongo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]mongoProduct, error) {
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	docs := []mongoProduct{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}
