package storagetesting

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	pgmodels "github.com/MichalMitros/product-rater/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/product-rater/internal/platform/storage/gen/postgres/public/table"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	_ "github.com/lib/pq"
)

// Open opens connection to DB. Test is skipped when DATABASE_URL environment variable is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("please provide database URL via DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// OpenMongo connects to MongoDB. Test is skipped when MONGODB_URI environment variable is not set.
func OpenMongo(t *testing.T) *mongo.Client {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("please provide mongodb URI via MONGODB_URI environment variable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("can't connect to %q: %s", uri, err)
	}

	return client
}

// GetRatings is a helper test function to get rating history of product.
func GetRatings(t *testing.T, queryable qrm.Queryable, barcode string) []pgmodels.Rating {
	t.Helper()

	ratings := []pgmodels.Rating{}
	err := pg.SELECT(table.Rating.AllColumns).
		FROM(table.Rating.INNER_JOIN(table.Product, table.Product.ID.EQ(table.Rating.ProductID))).
		WHERE(table.Product.Barcode.EQ(pg.String(barcode))).
		ORDER_BY(table.Rating.ID.ASC()).
		Query(queryable, &ratings)
	if err != nil {
		t.Fatal("can't get ratings", err)
	}

	return ratings
}

// GetProducts is a helper test function to get all products.
func GetProducts(t *testing.T, queryable qrm.Queryable) []pgmodels.Product {
	t.Helper()

	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.ID.IS_NOT_NULL()).
		Query(queryable, &products)
	if err != nil {
		t.Fatal("can't get products", err)
	}

	return products
}

// CleanupData is a helper test function to delete all products and ratings.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.Rating.DELETE().WHERE(table.Rating.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete ratings data", err)
	}

	_, err = table.Product.DELETE().WHERE(table.Product.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete products data", err)
	}
}

// CleanupCollection is a helper test function to delete all documents of collection.
func CleanupCollection(t *testing.T, collection *mongo.Collection) {
	t.Helper()

	if _, err := collection.DeleteMany(context.Background(), bson.M{}); err != nil {
		t.Fatal("can't delete documents", err)
	}
}
