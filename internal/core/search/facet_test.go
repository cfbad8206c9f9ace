package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunfresh/catalog/internal/core/domain"
)

func TestFacets(t *testing.T) {
	products := []domain.Product{
		active(domain.Product{
			SKU: "F1", Brand: "DairyCo", Category: "DAIRY",
			Availability: domain.AvailabilityInStock,
			Allergens:    []string{"dairy"},
		}),
		active(domain.Product{
			SKU: "F2", Brand: "DairyCo", Category: "DAIRY",
			WebCategory:  "MILK_DRINKS",
			Availability: domain.AvailabilityInStock,
			Allergens:    []string{"dairy", "nuts"},
		}),
		active(domain.Product{
			SKU: "F3", Brand: "BakeCo", Category: "BAKERY",
			Availability: domain.AvailabilityOutOfStock,
		}),
		active(domain.Product{SKU: "F4", Brand: "BakeCo"}),
	}
	stock := []domain.StockRecord{
		{ProductCode: "F1", Warehouse: "NORTH", AvailableQuantity: 1},
		{ProductCode: "F1", Warehouse: "NORTH", AvailableQuantity: 2},
		{ProductCode: "F2", Warehouse: "NORTH", AvailableQuantity: 5},
		{ProductCode: "F3", Warehouse: "SOUTH", AvailableQuantity: 9},
	}

	t.Run("BrandCounts", func(t *testing.T) {
		e := newEngine(t, products, stock)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		// Equal counts order by value ascending.
		assert.Equal(t, []domain.FacetCount{
			{Value: "BakeCo", Count: 2},
			{Value: "DairyCo", Count: 2},
		}, res.Facets.Brands)
	})

	t.Run("AvailabilityCountsSumToNonEmptyValues", func(t *testing.T) {
		e := newEngine(t, products, stock)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		var sum int
		for _, f := range res.Facets.Availability {
			sum += f.Count
		}
		// F4 has no availability value and is not counted.
		assert.Equal(t, 3, sum)
	})

	t.Run("CategoryFacetMergesWebCategory", func(t *testing.T) {
		e := newEngine(t, products, stock)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Equal(t, []domain.FacetCount{
			{Value: "DAIRY", Count: 2},
			{Value: "BAKERY", Count: 1},
			{Value: "MILK_DRINKS", Count: 1},
		}, res.Facets.Categories)
	})

	t.Run("WarehouseFacetCountsDistinctProducts", func(t *testing.T) {
		e := newEngine(t, products, stock)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		// F1 has two NORTH rows but counts once.
		assert.Equal(t, []domain.FacetCount{
			{Value: "NORTH", Count: 2},
			{Value: "SOUTH", Count: 1},
		}, res.Facets.Warehouses)
	})

	t.Run("FacetsReflectCurrentFilterContext", func(t *testing.T) {
		e := newEngine(t, products, stock)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{
			Categories: []string{"DAIRY"},
		}, 0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Equal(t, []domain.FacetCount{
			{Value: "DairyCo", Count: 2},
		}, res.Facets.Brands)
		assert.Equal(t, []domain.FacetCount{
			{Value: "dairy", Count: 2},
			{Value: "nuts", Count: 1},
		}, res.Facets.Allergens)
	})
}
