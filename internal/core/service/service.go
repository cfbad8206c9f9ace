package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
)

var _ port.ProductSearcher = (*Service)(nil)
var _ port.Recommender = (*Service)(nil)
var _ port.EventReporter = (*Service)(nil)

// Service fronts the catalog store, query engine and recommendation
// engine for the inbound adapters, and forwards client events to the
// reporting backend.
type Service struct {
	catalog    port.CatalogProvider
	searcher   port.ProductSearcher
	recommends port.Recommender
	reporter   port.EventReporter
}

func New(
	catalog port.CatalogProvider,
	searcher port.ProductSearcher,
	recommends port.Recommender,
	reporter port.EventReporter,
) Service {
	return Service{catalog, searcher, recommends, reporter}
}

// Initialize triggers the one-time catalog load. A load failure is
// degraded service, not downtime: it is logged and the engine keeps
// answering with an empty catalog.
func (s Service) Initialize(ctx context.Context) error {
	const op = "Service.Initialize"

	if err := s.catalog.Initialize(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) Search(
	ctx context.Context,
	query string,
	filters domain.SearchFilters,
	offset, limit int,
	sortBy domain.SortBy,
) (domain.SearchResult, error) {
	const op = "Service.Search"

	res, err := s.searcher.Search(ctx, query, filters, offset, limit, sortBy)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (s Service) Recommend(
	ctx context.Context, req domain.RecommendationRequest,
) ([]domain.RecommendationResult, error) {
	const op = "Service.Recommend"

	rs, err := s.recommends.Recommend(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}

// ReportEvents forwards client events to the managed search backend.
// Delivery failures are logged, never surfaced to the caller: the
// events feed an external learning loop and losing one must not fail
// a search flow.
func (s Service) ReportEvents(
	ctx context.Context, evts []domain.ClientEvent,
) error {
	const op = "Service.ReportEvents"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.reporter == nil || len(evts) == 0 {
		return nil
	}

	if err := s.reporter.ReportEvents(ctx, evts); err != nil {
		log.Error("failed to report client events", "err", err,
			"nEvents", len(evts))
		return nil
	}
	return nil
}
