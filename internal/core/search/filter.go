package search

import (
	"strings"

	"github.com/sunfresh/catalog/internal/core/domain"
)

// shortTermLen is the single-term length up to which prefix matching
// applies, so that partial queries like "mil" still hit "milk".
const shortTermLen = 3

type textMatcher struct {
	terms    []string
	prefix   bool
	matchAll bool
}

func newTextMatcher(query string) textMatcher {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || q == domain.MatchAllQuery {
		return textMatcher{matchAll: true}
	}
	terms := strings.Fields(q)
	prefix := len(terms) == 1 && len(terms[0]) <= shortTermLen
	return textMatcher{terms: terms, prefix: prefix}
}

func (m textMatcher) matches(p domain.Product) bool {
	if m.matchAll {
		return true
	}
	text := p.SearchText()
	if m.prefix {
		return anyWordHasPrefix(text, m.terms[0])
	}
	// Conjunctive: every term must appear somewhere in the text.
	for _, term := range m.terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func anyWordHasPrefix(text, prefix string) bool {
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, prefix) {
			return true
		}
	}
	return false
}

type stockLookup func(sku string) []domain.StockRecord

// matchesFilters applies the attribute filter chain: AND across
// fields, OR within each field's value list.
func matchesFilters(
	p domain.Product, f domain.SearchFilters, stockFor stockLookup,
) bool {
	if len(f.Categories) > 0 &&
		!containsFold(f.Categories, p.Category) &&
		!containsFold(f.Categories, p.WebCategory) {
		return false
	}

	if len(f.Brands) > 0 && !containsFold(f.Brands, p.Brand) {
		return false
	}

	if len(f.AccountSets) > 0 && !containsFold(f.AccountSets, p.AccountSet) {
		return false
	}

	if f.SFPreferred != nil && p.IsSFPreferred != *f.SFPreferred {
		return false
	}

	if len(f.Availability) > 0 && !containsAvailability(f.Availability, p.Availability) {
		return false
	}

	if len(f.Warehouses) > 0 && !inAnyWarehouse(p, f.Warehouses, stockFor) {
		return false
	}

	// Permissive semantics on purpose: selects products that contain
	// at least one of the requested allergens. This is a "find
	// products with allergen X" filter, not an avoidance filter.
	if len(f.Allergens) > 0 && !p.HasAnyAllergen(f.Allergens) {
		return false
	}

	if f.Price.Min != nil && p.Price < *f.Price.Min {
		return false
	}
	if f.Price.Max != nil && p.Price > *f.Price.Max {
		return false
	}

	return true
}

func inAnyWarehouse(
	p domain.Product, warehouses []string, stockFor stockLookup,
) bool {
	for _, row := range stockFor(p.SKU) {
		if containsFold(warehouses, row.Warehouse) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func containsAvailability(
	list []domain.Availability, v domain.Availability,
) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
