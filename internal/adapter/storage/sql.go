// Package storage provides the SQL-backed catalog source.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
	"github.com/sunfresh/catalog/pkg/retry"
)

var _ port.CatalogSource = (*SQLSource)(nil)

type sqldb interface {
	PingContext(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// SQLSource reads the product and stock tables as one consistent
// feed. It is an alternative to the file source for deployments that
// stage the catalog in Postgres.
type SQLSource struct {
	sqldb sqldb
}

func NewSQLSource(ctx context.Context, dsn string) (SQLSource, error) {
	const op = "NewSQLSource"

	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return SQLSource{}, fmt.Errorf("%s: %w", op, err)
	}
	connStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return SQLSource{}, fmt.Errorf("%s: %w", op, err)
	}

	s := SQLSource{db}
	if err := s.ping(ctx); err != nil {
		return SQLSource{}, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (s SQLSource) ping(ctx context.Context) error {
	const op = "SQLSource.ping"

	retryCfg := retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LineareBackoff(200 * time.Millisecond),
	}
	err := retry.Do(ctx, retryCfg, func() error {
		return s.sqldb.PingContext(ctx)
	})
	if err != nil {
		return fmt.Errorf("%s: database unavailable: %w", op, err)
	}
	slog.Info("database is available", "op", op)
	return nil
}

func (s SQLSource) Close() error {
	return s.sqldb.Close()
}

func (s SQLSource) Load(
	ctx context.Context,
) ([]domain.Product, []domain.StockRecord, error) {
	const op = "SQLSource.Load"

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	stock, err := s.loadStock(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, stock, nil
}

func (s SQLSource) loadProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT
			sku, display_name, description, web_description,
			web_sub_description, brand, category, web_category,
			web_sub_category, category_description, account_set,
			units, vendor, vendor_name, image_url,
			price, discounted_price, rating_avg, rating_count,
			order_last_month, is_sf_preferred, is_active, is_deleted,
			availability, keywords, allergens
		FROM products;`

	rows, err := s.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			p            domain.Product
			price        sql.NullFloat64
			discounted   sql.NullFloat64
			ratingAvg    sql.NullFloat64
			ratingCount  sql.NullInt64
			availability string
			keywordsS    string
			allergensS   string
		)
		err := rows.Scan(
			&p.SKU, &p.DisplayName, &p.Description, &p.WebDescription,
			&p.WebSubDescription, &p.Brand, &p.Category, &p.WebCategory,
			&p.WebSubCategory, &p.CategoryDescription, &p.AccountSet,
			&p.Units, &p.Vendor, &p.VendorName, &p.ImageURL,
			&price, &discounted, &ratingAvg, &ratingCount,
			&p.OrderLastMonth, &p.IsSFPreferred, &p.IsActive, &p.IsDeleted,
			&availability, &keywordsS, &allergensS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.Price = price.Float64
		p.DiscountedPrice = discounted.Float64
		if p.DiscountedPrice > p.Price {
			slog.Warn("discounted price exceeds price, clamping",
				"sku", p.SKU)
			p.DiscountedPrice = p.Price
		}
		p.Rating = scanRating(ratingAvg, ratingCount)
		p.Availability = domain.Availability(availability)
		p.Keywords = splitArray(keywordsS)
		p.Allergens = splitArray(allergensS)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

// splitArray unpacks the text form of a Postgres array column.
func splitArray(s string) []string {
	s = strings.Trim(s, "{}")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(p, `"`)
	}
	return parts
}

func scanRating(avg sql.NullFloat64, count sql.NullInt64) domain.Rating {
	switch {
	case !avg.Valid:
		return domain.NoRating()
	case count.Valid:
		return domain.DetailedRating(avg.Float64, int(count.Int64))
	default:
		return domain.ScalarRating(avg.Float64)
	}
}

func (s SQLSource) loadStock(ctx context.Context) ([]domain.StockRecord, error) {
	query := `
		SELECT product_code, warehouse, available_quantity,
			unit_cost, total_cost
		FROM stock_records;`

	rows, err := s.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock: %w", err)
	}
	defer rows.Close()

	var stock []domain.StockRecord
	for rows.Next() {
		var r domain.StockRecord
		err := rows.Scan(
			&r.ProductCode, &r.Warehouse, &r.AvailableQuantity,
			&r.UnitCost, &r.TotalCost,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		stock = append(stock, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}
	return stock, nil
}
