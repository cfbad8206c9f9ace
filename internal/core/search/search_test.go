package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunfresh/catalog/internal/core/catalog"
	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/search"
)

type fixtureSource struct {
	products []domain.Product
	stock    []domain.StockRecord
}

func (s fixtureSource) Load(
	context.Context,
) ([]domain.Product, []domain.StockRecord, error) {
	return s.products, s.stock, nil
}

func newEngine(
	t *testing.T,
	products []domain.Product,
	stock []domain.StockRecord,
) search.Engine {
	t.Helper()
	store := catalog.NewStore(fixtureSource{products, stock})
	require.NoError(t, store.Initialize(t.Context()))
	return search.NewEngine(store)
}

func skus(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.SKU
	}
	return out
}

func active(p domain.Product) domain.Product {
	p.IsActive = true
	return p
}

func TestSearchVisibility(t *testing.T) {

	t.Run("ExcludesInactiveAndDeleted", func(t *testing.T) {
		e := newEngine(t, []domain.Product{
			{SKU: "A1", IsActive: true},
			{SKU: "A2", IsActive: false},
			{SKU: "A3", IsActive: true, IsDeleted: true},
		}, nil)

		res, err := e.Search(t.Context(), domain.MatchAllQuery,
			domain.SearchFilters{}, 0, 10, domain.SortRelevance)
		require.NoError(t, err)

		assert.Equal(t, []string{"A1"}, skus(res.Products))
		assert.Equal(t, 1, res.Total)
	})
}

func TestSearchTextMatching(t *testing.T) {
	products := []domain.Product{
		active(domain.Product{SKU: "W1", DisplayName: "Whole Milk 2L"}),
		active(domain.Product{SKU: "W2", DisplayName: "Skim Milk 1L"}),
		active(domain.Product{SKU: "H1", DisplayName: "Hamilton Blend Coffee"}),
	}

	t.Run("ConjunctiveSubstringRequiresEveryTerm", func(t *testing.T) {
		e := newEngine(t, products, nil)

		res, err := e.Search(t.Context(), "whole milk",
			domain.SearchFilters{}, 0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Equal(t, []string{"W1"}, skus(res.Products))
	})

	t.Run("ShortSingleTermUsesWordPrefix", func(t *testing.T) {
		e := newEngine(t, products, nil)

		// "hamilton" contains "mil" but no word starts with it.
		res, err := e.Search(t.Context(), "mil",
			domain.SearchFilters{}, 0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"W1", "W2"}, skus(res.Products))
	})

	t.Run("LongerTermFallsBackToSubstring", func(t *testing.T) {
		e := newEngine(t, products, nil)

		res, err := e.Search(t.Context(), "amilt",
			domain.SearchFilters{}, 0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Equal(t, []string{"H1"}, skus(res.Products))
	})

	t.Run("MatchAllSentinelSkipsTextFilter", func(t *testing.T) {
		e := newEngine(t, products, nil)

		res, err := e.Search(t.Context(), domain.MatchAllQuery,
			domain.SearchFilters{}, 0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Equal(t, 3, res.Total)
	})

	t.Run("KeywordsAreSearchable", func(t *testing.T) {
		e := newEngine(t, []domain.Product{
			active(domain.Product{
				SKU: "K1", DisplayName: "Morning Drink",
				Keywords: []string{"oatmilk", "vegan"},
			}),
		}, nil)

		res, err := e.Search(t.Context(), "vegan",
			domain.SearchFilters{}, 0, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Equal(t, []string{"K1"}, skus(res.Products))
	})
}

func TestSearchFilters(t *testing.T) {
	products := []domain.Product{
		active(domain.Product{
			SKU: "C1", Brand: "DairyCo", Category: "DAIRY",
			AccountSet: "RETAIL", Price: 4.5,
			Availability: domain.AvailabilityInStock,
			Allergens:    []string{"nuts", "dairy"},
		}),
		active(domain.Product{
			SKU: "D1", Brand: "DairyCo", WebCategory: "DAIRY",
			AccountSet: "WHOLESALE", Price: 12,
			Availability: domain.AvailabilityOutOfStock,
			Allergens:    []string{"dairy"},
		}),
		active(domain.Product{
			SKU: "B1", Brand: "BakeCo", Category: "BAKERY",
			Price: 2, IsSFPreferred: true,
		}),
	}
	stock := []domain.StockRecord{
		{ProductCode: "C1", Warehouse: "NORTH", AvailableQuantity: 10},
		{ProductCode: "B1", Warehouse: "SOUTH", AvailableQuantity: 4},
	}

	searchWith := func(t *testing.T, f domain.SearchFilters) []string {
		t.Helper()
		e := newEngine(t, products, stock)
		res, err := e.Search(t.Context(), "", f, 0, 10, domain.SortNameAsc)
		require.NoError(t, err)
		return skus(res.Products)
	}

	t.Run("CategoryMatchesCategoryOrWebCategory", func(t *testing.T) {
		got := searchWith(t, domain.SearchFilters{Categories: []string{"DAIRY"}})
		assert.ElementsMatch(t, []string{"C1", "D1"}, got)
	})

	t.Run("AllergenSelectsProductsContainingOne", func(t *testing.T) {
		got := searchWith(t, domain.SearchFilters{Allergens: []string{"nuts"}})
		assert.Equal(t, []string{"C1"}, got)
	})

	t.Run("FieldsCombineWithAnd", func(t *testing.T) {
		got := searchWith(t, domain.SearchFilters{
			Categories: []string{"DAIRY"},
			Brands:     []string{"DairyCo"},
			AccountSets: []string{
				"WHOLESALE",
			},
		})
		assert.Equal(t, []string{"D1"}, got)
	})

	t.Run("WarehouseFilterJoinsStockRows", func(t *testing.T) {
		got := searchWith(t, domain.SearchFilters{Warehouses: []string{"NORTH"}})
		assert.Equal(t, []string{"C1"}, got)
	})

	t.Run("PriceRange", func(t *testing.T) {
		lo, hi := 3.0, 10.0
		got := searchWith(t, domain.SearchFilters{
			Price: domain.PriceRange{Min: &lo, Max: &hi},
		})
		assert.Equal(t, []string{"C1"}, got)
	})

	t.Run("SFPreferredExactBoolean", func(t *testing.T) {
		preferred := true
		got := searchWith(t, domain.SearchFilters{SFPreferred: &preferred})
		assert.Equal(t, []string{"B1"}, got)
	})

	t.Run("AvailabilityList", func(t *testing.T) {
		got := searchWith(t, domain.SearchFilters{
			Availability: []domain.Availability{domain.AvailabilityOutOfStock},
		})
		assert.Equal(t, []string{"D1"}, got)
	})
}

func TestSearchRelevance(t *testing.T) {

	t.Run("ExactSKUMatchRanksFirst", func(t *testing.T) {
		e := newEngine(t, []domain.Product{
			active(domain.Product{
				SKU: "A9", DisplayName: "Milk Premium",
				IsSFPreferred: true,
			}),
			active(domain.Product{SKU: "MILK", DisplayName: "Crate"}),
		}, nil)

		res, err := e.Search(t.Context(), "milk",
			domain.SearchFilters{}, 0, 10, domain.SortRelevance)
		require.NoError(t, err)

		require.NotEmpty(t, res.Products)
		assert.Equal(t, "MILK", res.Products[0].SKU)
	})

	t.Run("NoQueryPrefersSFThenName", func(t *testing.T) {
		e := newEngine(t, []domain.Product{
			active(domain.Product{SKU: "P1", DisplayName: "Zucchini"}),
			active(domain.Product{
				SKU: "P2", DisplayName: "Yogurt", IsSFPreferred: true,
			}),
			active(domain.Product{SKU: "P3", DisplayName: "Apples"}),
		}, nil)

		res, err := e.Search(t.Context(), "",
			domain.SearchFilters{}, 0, 10, domain.SortRelevance)
		require.NoError(t, err)

		assert.Equal(t, []string{"P2", "P3", "P1"}, skus(res.Products))
	})
}

func TestSearchParameters(t *testing.T) {
	products := []domain.Product{
		active(domain.Product{SKU: "A1", DisplayName: "Alpha"}),
		active(domain.Product{SKU: "A2", DisplayName: "Beta"}),
		active(domain.Product{SKU: "A3", DisplayName: "Gamma"}),
	}

	t.Run("UnknownSortFallsBackToRelevance", func(t *testing.T) {
		e := newEngine(t, products, nil)

		got, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortBy("bogus"))
		require.NoError(t, err)
		want, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortRelevance)
		require.NoError(t, err)

		assert.Equal(t, skus(want.Products), skus(got.Products))
	})

	t.Run("OutOfRangeOffsetYieldsEmptyPageWithTotal", func(t *testing.T) {
		e := newEngine(t, products, nil)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{},
			100, 10, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Empty(t, res.Products)
		assert.Equal(t, 3, res.Total)
	})

	t.Run("NonPositiveLimitUsesDefault", func(t *testing.T) {
		e := newEngine(t, products, nil)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, -5, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Len(t, res.Products, 3)
	})

	t.Run("PaginationSlicesSortedSet", func(t *testing.T) {
		e := newEngine(t, products, nil)

		res, err := e.Search(t.Context(), "", domain.SearchFilters{},
			1, 1, domain.SortNameAsc)
		require.NoError(t, err)

		assert.Equal(t, []string{"A2"}, skus(res.Products))
		assert.Equal(t, 3, res.Total)
	})

	t.Run("DeterministicOrdering", func(t *testing.T) {
		e := newEngine(t, products, nil)

		first, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortRelevance)
		require.NoError(t, err)
		second, err := e.Search(t.Context(), "", domain.SearchFilters{},
			0, 10, domain.SortRelevance)
		require.NoError(t, err)

		assert.Equal(t, skus(first.Products), skus(second.Products))
	})
}
