package domain

import "strings"

type Availability string

const (
	AvailabilityInStock    Availability = "IN_STOCK"
	AvailabilityLowStock   Availability = "LOW_STOCK"
	AvailabilityOutOfStock Availability = "OUT_OF_STOCK"
	AvailabilityUnknown    Availability = ""
)

// Rank orders availability states for sorting, higher is better.
func (a Availability) Rank() int {
	switch a {
	case AvailabilityInStock:
		return 3
	case AvailabilityLowStock:
		return 2
	case AvailabilityOutOfStock:
		return 1
	default:
		return 0
	}
}

type (
	Product struct {
		SKU                 string
		DisplayName         string
		Description         string
		WebDescription      string
		WebSubDescription   string
		Brand               string
		Category            string
		WebCategory         string
		WebSubCategory      string
		CategoryDescription string
		AccountSet          string
		Units               string
		Vendor              string
		VendorName          string
		ImageURL            string

		Price           float64
		DiscountedPrice float64
		Rating          Rating
		OrderLastMonth  int

		IsSFPreferred bool
		IsActive      bool
		IsDeleted     bool
		Availability  Availability

		Keywords  []string
		Allergens []string

		// Populated by the stock join at load time.
		AvailableQuantity   float64
		TotalStock          float64
		StockWarehouseCount int
	}

	// StockRecord is one warehouse-level stock row. Multiple rows may
	// reference the same product; rows are never search results on
	// their own.
	StockRecord struct {
		ProductCode       string
		Warehouse         string
		AvailableQuantity float64
		UnitCost          float64
		TotalCost         float64
	}
)

// Searchable reports whether the product may appear in any search view.
func (p Product) Searchable() bool {
	return p.IsActive && !p.IsDeleted && p.SKU != ""
}

// SearchText returns the lower-cased haystack used for term matching.
func (p Product) SearchText() string {
	parts := []string{
		p.DisplayName,
		p.Description,
		p.Brand,
		p.Category,
		p.WebCategory,
		p.WebSubCategory,
		p.SKU,
		p.WebDescription,
		p.WebSubDescription,
	}
	parts = append(parts, p.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

// HasAnyAllergen reports whether the product carries at least one of
// the given allergen tags. Matching is case-insensitive.
func (p Product) HasAnyAllergen(allergens []string) bool {
	for _, want := range allergens {
		for _, have := range p.Allergens {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
