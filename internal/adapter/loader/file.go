// Package loader reads raw product and stock feeds and produces the
// normalized record shapes the catalog store consumes.
package loader

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
)

var _ port.CatalogSource = (*FileSource)(nil)

// FileSource loads products from a JSON array file and stock rows
// from a CSV file.
type FileSource struct {
	productsPath string
	stockPath    string
}

func NewFileSource(productsPath, stockPath string) FileSource {
	return FileSource{productsPath, stockPath}
}

func (s FileSource) Load(
	ctx context.Context,
) ([]domain.Product, []domain.StockRecord, error) {
	const op = "FileSource.Load"

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	products, err := s.loadProducts()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var stock []domain.StockRecord
	if s.stockPath != "" {
		stock, err = s.loadStock()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return products, stock, nil
}

// productRecord is the flat feed shape. Rating arrives either as a
// bare number or as an {average, count} object, so it stays raw until
// parseRating.
type productRecord struct {
	SKU                 string          `json:"sku"`
	DisplayName         string          `json:"displayName"`
	Description         string          `json:"description"`
	WebDescription      string          `json:"webDescription"`
	WebSubDescription   string          `json:"webSubDescription"`
	Brand               string          `json:"brand"`
	Category            string          `json:"category"`
	WebCategory         string          `json:"webCategory"`
	WebSubCategory      string          `json:"webSubCategory"`
	CategoryDescription string          `json:"categoryDescription"`
	AccountSet          string          `json:"accountSet"`
	Units               string          `json:"units"`
	Vendor              string          `json:"vendor"`
	VendorName          string          `json:"vendorName"`
	ImageURL            string          `json:"imageUrl"`
	Price               float64         `json:"price"`
	DiscountedPrice     float64         `json:"discountedPrice"`
	Rating              json.RawMessage `json:"rating"`
	ReviewCount         int             `json:"reviewCount"`
	OrderLastMonth      int             `json:"orderLastMonth"`
	IsSFPreferred       bool            `json:"isSFPreferred"`
	IsActive            bool            `json:"isActive"`
	IsDeleted           bool            `json:"isDeleted"`
	Availability        string          `json:"availability"`
	Keywords            []string        `json:"keywords"`
	Allergens           []string        `json:"allergens"`
}

func (s FileSource) loadProducts() ([]domain.Product, error) {
	const op = "FileSource.loadProducts"
	log := slog.With("op", op)

	f, err := os.Open(s.productsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []productRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		sku := strings.TrimSpace(r.SKU)
		if sku == "" {
			continue
		}
		// A discount never exceeds the list price.
		if r.DiscountedPrice > r.Price {
			log.Warn("discounted price exceeds price, clamping",
				"sku", sku, "price", r.Price,
				"discountedPrice", r.DiscountedPrice)
			r.DiscountedPrice = r.Price
		}
		products = append(products, domain.Product{
			SKU:                 sku,
			DisplayName:         strings.TrimSpace(r.DisplayName),
			Description:         r.Description,
			WebDescription:      r.WebDescription,
			WebSubDescription:   r.WebSubDescription,
			Brand:               strings.TrimSpace(r.Brand),
			Category:            strings.TrimSpace(r.Category),
			WebCategory:         strings.TrimSpace(r.WebCategory),
			WebSubCategory:      strings.TrimSpace(r.WebSubCategory),
			CategoryDescription: r.CategoryDescription,
			AccountSet:          strings.TrimSpace(r.AccountSet),
			Units:               r.Units,
			Vendor:              r.Vendor,
			VendorName:          r.VendorName,
			ImageURL:            r.ImageURL,
			Price:               r.Price,
			DiscountedPrice:     r.DiscountedPrice,
			Rating:              parseRating(r.Rating, r.ReviewCount),
			OrderLastMonth:      r.OrderLastMonth,
			IsSFPreferred:       r.IsSFPreferred,
			IsActive:            r.IsActive,
			IsDeleted:           r.IsDeleted,
			Availability:        parseAvailability(r.Availability),
			Keywords:            normalizeTags(r.Keywords),
			Allergens:           normalizeTags(r.Allergens),
		})
	}
	return products, nil
}

// parseRating accepts the three feed shapes: absent, bare number, or
// {"average": x, "count": n}.
func parseRating(raw json.RawMessage, reviewCount int) domain.Rating {
	if len(raw) == 0 || string(raw) == "null" {
		return domain.NoRating()
	}

	var scalar float64
	if err := json.Unmarshal(raw, &scalar); err == nil {
		if reviewCount > 0 {
			return domain.DetailedRating(scalar, reviewCount)
		}
		return domain.ScalarRating(scalar)
	}

	var detailed struct {
		Average float64 `json:"average"`
		Count   int     `json:"count"`
	}
	if err := json.Unmarshal(raw, &detailed); err == nil {
		return domain.DetailedRating(detailed.Average, detailed.Count)
	}

	return domain.NoRating()
}

func parseAvailability(raw string) domain.Availability {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "AVAILABLE", "IN_STOCK":
		return domain.AvailabilityInStock
	case "LOW_STOCK":
		return domain.AvailabilityLowStock
	case "NOTAVAILABLE", "NOT_AVAILABLE", "OUT_OF_STOCK":
		return domain.AvailabilityOutOfStock
	default:
		return domain.AvailabilityUnknown
	}
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Stock CSV columns.
const (
	colProductCode = iota
	colWarehouse
	colAvailableQty
	colUnitCost
	colTotalCost
	stockColumns
)

func (s FileSource) loadStock() ([]domain.StockRecord, error) {
	const op = "FileSource.loadStock"
	log := slog.With("op", op)

	f, err := os.Open(s.stockPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = stockColumns

	var (
		rows []domain.StockRecord
		line int
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn("skipping malformed stock row", "line", line, "err", err)
			continue
		}
		if line == 1 && strings.EqualFold(rec[colProductCode], "productCode") {
			continue // header
		}

		code := strings.TrimSpace(rec[colProductCode])
		if code == "" {
			continue
		}

		rows = append(rows, domain.StockRecord{
			ProductCode:       code,
			Warehouse:         strings.TrimSpace(rec[colWarehouse]),
			AvailableQuantity: parsePositiveFloat(rec[colAvailableQty]),
			UnitCost:          parsePositiveFloat(rec[colUnitCost]),
			TotalCost:         parsePositiveFloat(rec[colTotalCost]),
		})
	}
	return rows, nil
}

func parsePositiveFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
