package port

import (
	"context"

	"github.com/sunfresh/catalog/internal/core/domain"
)

// CatalogSource is the loader boundary: it turns raw tabular or JSON
// sources into the normalized record shapes the engine consumes.
type CatalogSource interface {
	Load(context.Context) ([]domain.Product, []domain.StockRecord, error)
}

// CatalogProvider is the read side of the catalog store.
type CatalogProvider interface {
	Initialize(context.Context) error
	BySKU(sku string) (domain.Product, bool)
	Products() []domain.Product
	StockFor(sku string) []domain.StockRecord
	Generation() uint64
}

type ProductSearcher interface {
	Search(
		ctx context.Context,
		query string,
		filters domain.SearchFilters,
		offset, limit int,
		sortBy domain.SortBy,
	) (domain.SearchResult, error)
}

type Recommender interface {
	Recommend(
		context.Context, domain.RecommendationRequest,
	) ([]domain.RecommendationResult, error)
}

// EventReporter forwards client events to the managed search backend.
type EventReporter interface {
	ReportEvents(context.Context, []domain.ClientEvent) error
}
