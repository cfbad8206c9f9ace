package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sunfresh/catalog/internal/core/catalog"
	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
	"github.com/sunfresh/catalog/internal/core/recommend"
	"github.com/sunfresh/catalog/internal/core/search"
	"github.com/sunfresh/catalog/internal/core/service"
)

type fixtureSource struct{}

func (fixtureSource) Load(
	context.Context,
) ([]domain.Product, []domain.StockRecord, error) {
	return []domain.Product{
		{SKU: "A1", DisplayName: "Whole Milk", IsActive: true},
	}, nil, nil
}

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) ReportEvents(
	ctx context.Context, evts []domain.ClientEvent,
) error {
	args := m.Called(ctx, evts)
	return args.Error(0)
}

func newService(t *testing.T, reporter *MockReporter) service.Service {
	t.Helper()
	store := catalog.NewStore(fixtureSource{})
	var rep port.EventReporter
	if reporter != nil {
		rep = reporter
	}
	s := service.New(
		store,
		search.NewEngine(store),
		recommend.NewEngine(store, recommend.Config{}),
		rep,
	)
	require.NoError(t, s.Initialize(t.Context()))
	return s
}

func TestServiceSearch(t *testing.T) {
	s := newService(t, nil)

	res, err := s.Search(t.Context(), "milk", domain.SearchFilters{},
		0, 10, domain.SortRelevance)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
}

func TestServiceReportEvents(t *testing.T) {
	evts := []domain.ClientEvent{{Type: domain.EventSearch, VisitorID: "v1"}}

	t.Run("AbsorbsDeliveryFailure", func(t *testing.T) {
		reporter := &MockReporter{}
		reporter.On("ReportEvents", mock.Anything, evts).
			Return(errors.New("broker down"))

		s := newService(t, reporter)
		assert.NoError(t, s.ReportEvents(t.Context(), evts))
		reporter.AssertExpectations(t)
	})

	t.Run("NilReporterIsNoOp", func(t *testing.T) {
		s := newService(t, nil)
		assert.NoError(t, s.ReportEvents(t.Context(), evts))
	})

	t.Run("EmptyBatchSkipsDelivery", func(t *testing.T) {
		reporter := &MockReporter{}
		s := newService(t, reporter)
		assert.NoError(t, s.ReportEvents(t.Context(), nil))
		reporter.AssertNotCalled(t, "ReportEvents")
	})
}
