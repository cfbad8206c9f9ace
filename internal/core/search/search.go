// Package search executes catalog search requests: text filtering,
// attribute filtering, faceting, sorting and pagination over the
// current catalog snapshot. All operations are pure reads.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
)

const DefaultLimit = 20

var _ port.ProductSearcher = (*Engine)(nil)

type Engine struct {
	catalog port.CatalogProvider
}

func NewEngine(catalog port.CatalogProvider) Engine {
	return Engine{catalog}
}

// Search runs the full query pipeline. Malformed user input never
// fails the request: an unknown sort falls back to relevance, a
// non-positive limit falls back to DefaultLimit, a negative offset to
// 0, and an out-of-range page yields an empty slice with the correct
// Total.
func (e Engine) Search(
	ctx context.Context,
	query string,
	filters domain.SearchFilters,
	offset, limit int,
	sortBy domain.SortBy,
) (domain.SearchResult, error) {
	const op = "Engine.Search"

	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()

	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	sortBy = domain.ParseSortBy(string(sortBy))

	matched := e.filter(query, filters)
	facets := aggregateFacets(matched, e.catalog.StockFor)
	sortProducts(matched, sortBy, query)

	return domain.SearchResult{
		Products:    paginate(matched, offset, limit),
		Facets:      facets,
		Total:       len(matched),
		QueryTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

func (e Engine) filter(
	query string, filters domain.SearchFilters,
) []domain.Product {
	matcher := newTextMatcher(query)

	var matched []domain.Product
	for _, p := range e.catalog.Products() {
		if !p.Searchable() {
			continue
		}
		if !matcher.matches(p) {
			continue
		}
		if !matchesFilters(p, filters, e.catalog.StockFor) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func paginate(ps []domain.Product, offset, limit int) []domain.Product {
	if offset >= len(ps) {
		return []domain.Product{}
	}
	end := offset + limit
	if end > len(ps) {
		end = len(ps)
	}
	return ps[offset:end]
}
