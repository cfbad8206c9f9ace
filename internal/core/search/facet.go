package search

import (
	"sort"

	"github.com/sunfresh/catalog/internal/core/domain"
)

// aggregateFacets computes value/count breakdowns over the filtered,
// pre-pagination set. Facets always reflect the current filter
// context so that narrowing a filter shows shrinking counts.
func aggregateFacets(
	ps []domain.Product, stockFor stockLookup,
) domain.Facets {
	categories := newFacetCounter()
	brands := newFacetCounter()
	accountSets := newFacetCounter()
	availability := newFacetCounter()
	allergens := newFacetCounter()
	warehouses := newFacetCounter()

	for _, p := range ps {
		categories.addDistinct(p.Category, p.WebCategory)
		brands.add(p.Brand)
		accountSets.add(p.AccountSet)
		availability.add(string(p.Availability))
		allergens.addDistinct(p.Allergens...)

		seen := map[string]struct{}{}
		for _, row := range stockFor(p.SKU) {
			if _, dup := seen[row.Warehouse]; dup {
				continue
			}
			seen[row.Warehouse] = struct{}{}
			warehouses.add(row.Warehouse)
		}
	}

	return domain.Facets{
		Categories:   categories.sorted(),
		Brands:       brands.sorted(),
		AccountSets:  accountSets.sorted(),
		Availability: availability.sorted(),
		Allergens:    allergens.sorted(),
		Warehouses:   warehouses.sorted(),
	}
}

type facetCounter struct {
	counts map[string]int
}

func newFacetCounter() facetCounter {
	return facetCounter{counts: map[string]int{}}
}

func (c facetCounter) add(value string) {
	if value == "" {
		return
	}
	c.counts[value]++
}

// addDistinct counts the product once per distinct non-empty value,
// so a product whose category and web category coincide is not
// double-counted.
func (c facetCounter) addDistinct(values ...string) {
	seen := map[string]struct{}{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		c.counts[v]++
	}
}

// sorted returns the counts descending; equal counts order by value
// ascending to keep the output deterministic.
func (c facetCounter) sorted() []domain.FacetCount {
	out := make([]domain.FacetCount, 0, len(c.counts))
	for v, n := range c.counts {
		out = append(out, domain.FacetCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
