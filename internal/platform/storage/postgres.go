package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/MichalMitros/product-rater/internal/platform/storage/gen/postgres/public/table"
	"github.com/samber/lo"

	pgmodels "github.com/MichalMitros/product-rater/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Postgres is storage for products and their rating history.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{
		db: db,
	}
}

// OpenPostgres opens connection pool to database under url and checks if it is reachable.
// Returned Postgres owns the pool, it's released with Close.
func OpenPostgres(ctx context.Context, url string, maxOpenConns int) (*Postgres, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("can't open database connection: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return NewPostgres(db), nil
}

// EnsureSchema creates product and rating tables if they don't exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create database schema: %w", err)
	}

	return nil
}

// Close closes database connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Upsert creates product with first rating or overwrites most recent ratings of existing product
// and appends new rating to its history. Both changes are applied in single transaction.
// Returns product after the change.
func (p *Postgres) Upsert(
	ctx context.Context,
	barcode string,
	info models.ProductInfo,
	ratings models.Ratings,
	timestamp int64,
) (*models.Product, error) {
	var product *models.Product

	err := runInTransaction(ctx, p.db, nil, func(tx *sql.Tx) error {
		dbProduct := ToDBProduct(barcode, &info, &ratings, time.UnixMilli(timestamp).UTC())

		err := table.Product.INSERT(table.Product.MutableColumns).
			MODEL(dbProduct).
			ON_CONFLICT(table.Product.Barcode).
			DO_UPDATE(
				pg.SET(
					table.Product.RawPrice.SET(table.Product.EXCLUDED.RawPrice),
					table.Product.NutritionGrade.SET(
						pg.StringExp(pg.COALESCE(table.Product.EXCLUDED.NutritionGrade, table.Product.NutritionGrade)),
					),
					table.Product.NovaGroup.SET(
						pg.StringExp(pg.COALESCE(table.Product.EXCLUDED.NovaGroup, table.Product.NovaGroup)),
					),
					table.Product.MostRecentPriceValue.SET(table.Product.EXCLUDED.MostRecentPriceValue),
					table.Product.MostRecentSustainabilityScore.SET(table.Product.EXCLUDED.MostRecentSustainabilityScore),
					table.Product.MostRecentNutritionalValue.SET(table.Product.EXCLUDED.MostRecentNutritionalValue),
					table.Product.MostRecentHolisticRating.SET(table.Product.EXCLUDED.MostRecentHolisticRating),
					table.Product.MostRecentDescription.SET(table.Product.EXCLUDED.MostRecentDescription),
					table.Product.UpdatedAt.SET(table.Product.EXCLUDED.UpdatedAt),
				),
			).
			RETURNING(table.Product.ID).
			QueryContext(ctx, tx, dbProduct)
		if err != nil {
			return fmt.Errorf("can't upsert product into database: %w", err)
		}

		_, err = table.Rating.INSERT(table.Rating.MutableColumns).
			MODEL(ToDBRating(dbProduct.ID, timestamp, &ratings)).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert rating into database: %w", err)
		}

		if product, err = getProduct(ctx, tx, barcode); err != nil {
			return fmt.Errorf("can't get upserted product: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// TopRated returns at most limit products ordered by most recent holistic rating.
// Ties are ordered by barcode. Non-positive limit means DefaultTopLimit.
func (p *Postgres) TopRated(ctx context.Context, limit int) ([]models.ProductSummary, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.AllColumns).
		ORDER_BY(
			table.Product.MostRecentHolisticRating.DESC(),
			table.Product.Barcode.ASC(),
		).
		LIMIT(int64(limit)).
		QueryContext(ctx, p.db, &products)
	if err != nil {
		return nil, fmt.Errorf("can't get top rated products: %w", err)
	}

	return lo.Map(products, func(product pgmodels.Product, _ int) models.ProductSummary {
		return toProduct(&product, nil).Summary()
	}), nil
}

// FindByBrand returns name and barcode of products which brand contains provided phrase, ignoring case.
func (p *Postgres) FindByBrand(ctx context.Context, brand string) ([]models.BrandProduct, error) {
	pattern := "%" + escapeLike(strings.ToLower(brand)) + "%"

	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.ID, table.Product.Name, table.Product.Barcode).
		WHERE(pg.LOWER(table.Product.Brand).LIKE(pg.String(pattern))).
		ORDER_BY(table.Product.ID.ASC()).
		QueryContext(ctx, p.db, &products)
	if err != nil {
		return nil, fmt.Errorf("can't find products by brand: %w", err)
	}

	return lo.Map(products, func(product pgmodels.Product, _ int) models.BrandProduct {
		return models.BrandProduct{
			Name:    product.Name,
			Barcode: product.Barcode,
		}
	}), nil
}

// FindByBarcode returns product with full rating history, oldest rating first.
// Returns platform.ErrNotFound when there is no product with provided barcode.
func (p *Postgres) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product *models.Product

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := runInTransaction(ctx, p.db, opts, func(tx *sql.Tx) error {
		var err error
		product, err = getProduct(ctx, tx, barcode)
		return err
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// ListBrands returns distinct brands sorted alphabetically.
func (p *Postgres) ListBrands(ctx context.Context) ([]string, error) {
	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.ID, table.Product.Brand).
		WHERE(table.Product.Brand.IS_NOT_NULL()).
		ORDER_BY(table.Product.ID.ASC()).
		QueryContext(ctx, p.db, &products)
	if err != nil {
		return nil, fmt.Errorf("can't list brands: %w", err)
	}

	return dedupBrands(lo.FilterMap(products, func(product pgmodels.Product, _ int) (string, bool) {
		return lo.FromPtr(product.Brand), product.Brand != nil
	})), nil
}

func getProduct(ctx context.Context, db qrm.Queryable, barcode string) (*models.Product, error) {
	var dest struct {
		pgmodels.Product

		Ratings []pgmodels.Rating
	}

	err := pg.SELECT(table.Product.AllColumns, table.Rating.AllColumns).
		FROM(
			table.Product.LEFT_JOIN(table.Rating, table.Rating.ProductID.EQ(table.Product.ID)),
		).
		WHERE(table.Product.Barcode.EQ(pg.String(barcode))).
		ORDER_BY(table.Rating.ID.ASC()).
		QueryContext(ctx, db, &dest)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("%w: barcode %s", platform.ErrNotFound, barcode)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get product: %w", err)
	}

	return toProduct(&dest.Product, dest.Ratings), nil
}

func runInTransaction(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, opts); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}
