package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunfresh/catalog/internal/core/domain"
)

func sortOrder(
	t *testing.T,
	products []domain.Product,
	query string,
	sortBy domain.SortBy,
) []string {
	t.Helper()
	e := newEngine(t, products, nil)
	res, err := e.Search(t.Context(), query, domain.SearchFilters{},
		0, 100, sortBy)
	require.NoError(t, err)
	return skus(res.Products)
}

func TestSortStrategies(t *testing.T) {

	t.Run("NameAscDesc", func(t *testing.T) {
		products := []domain.Product{
			active(domain.Product{SKU: "S1", DisplayName: "Cheddar"}),
			active(domain.Product{SKU: "S2", DisplayName: "Apricot"}),
			active(domain.Product{SKU: "S3", DisplayName: "Brioche"}),
		}

		assert.Equal(t, []string{"S2", "S3", "S1"},
			sortOrder(t, products, "", domain.SortNameAsc))
		assert.Equal(t, []string{"S1", "S3", "S2"},
			sortOrder(t, products, "", domain.SortNameDesc))
	})

	t.Run("PriceTreatsMissingAsZero", func(t *testing.T) {
		products := []domain.Product{
			active(domain.Product{SKU: "S1", Price: 9}),
			active(domain.Product{SKU: "S2"}),
			active(domain.Product{SKU: "S3", Price: 3}),
		}

		assert.Equal(t, []string{"S2", "S3", "S1"},
			sortOrder(t, products, "", domain.SortPriceAsc))
		assert.Equal(t, []string{"S1", "S3", "S2"},
			sortOrder(t, products, "", domain.SortPriceDesc))
	})

	t.Run("AvailabilityRankDescending", func(t *testing.T) {
		products := []domain.Product{
			active(domain.Product{SKU: "S1", Availability: domain.AvailabilityOutOfStock}),
			active(domain.Product{SKU: "S2", Availability: domain.AvailabilityInStock}),
			active(domain.Product{SKU: "S3"}),
			active(domain.Product{SKU: "S4", Availability: domain.AvailabilityLowStock}),
		}

		assert.Equal(t, []string{"S2", "S4", "S1", "S3"},
			sortOrder(t, products, "", domain.SortAvailability))
	})

	t.Run("TextMatchScoreOrdering", func(t *testing.T) {
		products := []domain.Product{
			// name starts with query: 50+25
			active(domain.Product{SKU: "S1", DisplayName: "Cocoa Nibs"}),
			// brand contains query: 30
			active(domain.Product{SKU: "S2", DisplayName: "Dark Bar", Brand: "CocoaWorks"}),
			// exact SKU: 100
			active(domain.Product{SKU: "COCOA", DisplayName: "Bulk Tin"}),
			// description contains query: 10
			active(domain.Product{SKU: "S4", DisplayName: "Baking Mix",
				Description: "with cocoa powder"}),
		}

		assert.Equal(t, []string{"COCOA", "S1", "S2", "S4"},
			sortOrder(t, products, "cocoa", domain.SortTextMatchDesc))
	})

	t.Run("RecentlyPurchasedTieBreaks", func(t *testing.T) {
		products := []domain.Product{
			active(domain.Product{SKU: "S1", DisplayName: "B", OrderLastMonth: 10}),
			active(domain.Product{SKU: "S2", DisplayName: "A", OrderLastMonth: 10}),
			active(domain.Product{SKU: "S3", DisplayName: "C", OrderLastMonth: 99}),
			active(domain.Product{
				SKU: "S4", DisplayName: "D", IsSFPreferred: true,
			}),
		}

		// Preferred first, then order count descending, then name.
		assert.Equal(t, []string{"S4", "S3", "S2", "S1"},
			sortOrder(t, products, "", domain.SortRecentlyPurchased))
	})

	t.Run("RatingTiesBrokenByReviewCountDesc", func(t *testing.T) {
		products := []domain.Product{
			active(domain.Product{
				SKU: "S1", Rating: domain.DetailedRating(4.5, 10),
			}),
			active(domain.Product{
				SKU: "S2", Rating: domain.DetailedRating(4.5, 200),
			}),
			active(domain.Product{SKU: "S3"}),
		}

		assert.Equal(t, []string{"S2", "S1", "S3"},
			sortOrder(t, products, "", domain.SortRatingDesc))
		// Ascending still prefers more reviews within a tie.
		assert.Equal(t, []string{"S3", "S2", "S1"},
			sortOrder(t, products, "", domain.SortRatingAsc))
	})

	t.Run("RelevanceSignalPrecedence", func(t *testing.T) {
		products := []domain.Product{
			// name contains query only
			active(domain.Product{SKU: "S1", DisplayName: "Oat Cookies"}),
			// exact brand beats name-contains
			active(domain.Product{SKU: "S2", DisplayName: "Granola", Brand: "Oat"}),
			// preferred beats exact brand
			active(domain.Product{
				SKU: "S3", DisplayName: "Muesli Oat Mix", IsSFPreferred: true,
			}),
			// name contains query, later SKU
			active(domain.Product{SKU: "S4", DisplayName: "Oatmeal"}),
		}

		// Every product has a word starting with "oat", so the
		// prefix signal ties and preference, exact brand and
		// name-contains decide in that order.
		assert.Equal(t, []string{"S3", "S2", "S1", "S4"},
			sortOrder(t, products, "oat", domain.SortRelevance))
	})
}
