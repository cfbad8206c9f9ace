// Package catalog holds the in-memory product and stock collections
// for one load generation. Readers always observe a complete snapshot;
// reloading swaps the whole snapshot atomically.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
)

var _ port.CatalogProvider = (*Store)(nil)

type snapshot struct {
	gen      uint64
	products []domain.Product
	bySKU    map[string]int
	stock    map[string][]domain.StockRecord
}

type Store struct {
	source   port.CatalogSource
	loadOnce sync.Once
	reloadMu sync.Mutex
	gen      atomic.Uint64
	snap     atomic.Pointer[snapshot]
}

func NewStore(source port.CatalogSource) *Store {
	return &Store{source: source}
}

// Initialize performs the catalog load exactly once. Concurrent callers
// block on the same in-flight load and observe the completed result.
// On failure the store degrades to an empty catalog; the triggering
// error is returned to the caller that performed the load and logged
// once, later callers get nil.
func (s *Store) Initialize(ctx context.Context) error {
	const op = "Store.Initialize"

	var (
		performed bool
		loadErr   error
	)
	s.loadOnce.Do(func() {
		performed = true
		loadErr = s.load(ctx)
	})

	if !performed {
		return nil
	}
	if loadErr != nil {
		slog.Error("catalog load failed, serving empty catalog",
			"op", op, "err", loadErr)
		return fmt.Errorf("%s: %w", op, loadErr)
	}
	return nil
}

// Reload replaces the catalog with a freshly loaded one. Unlike
// Initialize, a failed reload keeps the previous snapshot.
func (s *Store) Reload(ctx context.Context) error {
	const op = "Store.Reload"

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	products, stock, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.install(products, stock)
	return nil
}

func (s *Store) load(ctx context.Context) error {
	products, stock, err := s.source.Load(ctx)
	if err != nil {
		s.install(nil, nil)
		return err
	}
	s.install(products, stock)
	slog.Info("catalog loaded",
		"products", len(products), "stockRows", len(stock))
	return nil
}

func (s *Store) install(products []domain.Product, stock []domain.StockRecord) {
	snap := buildSnapshot(products, stock)
	snap.gen = s.gen.Add(1)
	s.snap.Store(snap)
}

func buildSnapshot(
	products []domain.Product, stock []domain.StockRecord,
) *snapshot {
	snap := &snapshot{
		bySKU: make(map[string]int, len(products)),
		stock: make(map[string][]domain.StockRecord, len(products)),
	}

	for _, r := range stock {
		if r.ProductCode == "" {
			continue
		}
		snap.stock[r.ProductCode] = append(snap.stock[r.ProductCode], r)
	}

	snap.products = make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.SKU == "" {
			continue
		}
		if _, dup := snap.bySKU[p.SKU]; dup {
			continue
		}
		joinStock(&p, snap.stock[p.SKU])
		snap.bySKU[p.SKU] = len(snap.products)
		snap.products = append(snap.products, p)
	}

	// Fixed base order keeps every downstream sort deterministic.
	sort.Slice(snap.products, func(i, j int) bool {
		return snap.products[i].SKU < snap.products[j].SKU
	})
	for i, p := range snap.products {
		snap.bySKU[p.SKU] = i
	}

	return snap
}

func joinStock(p *domain.Product, rows []domain.StockRecord) {
	if len(rows) == 0 {
		return
	}
	warehouses := make(map[string]struct{}, len(rows))
	var total float64
	for _, r := range rows {
		total += r.AvailableQuantity
		if r.Warehouse != "" {
			warehouses[r.Warehouse] = struct{}{}
		}
	}
	p.AvailableQuantity = total
	p.TotalStock = total
	p.StockWarehouseCount = len(warehouses)
}

func (s *Store) BySKU(sku string) (domain.Product, bool) {
	snap := s.snap.Load()
	if snap == nil {
		return domain.Product{}, false
	}
	i, ok := snap.bySKU[sku]
	if !ok {
		return domain.Product{}, false
	}
	return snap.products[i], true
}

// Products returns the current generation's product slice. Callers
// must treat it as read-only.
func (s *Store) Products() []domain.Product {
	snap := s.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.products
}

func (s *Store) StockFor(sku string) []domain.StockRecord {
	snap := s.snap.Load()
	if snap == nil {
		return nil
	}
	return snap.stock[sku]
}

// Generation identifies the currently installed snapshot; it changes
// on every successful install. Derived caches key on it.
func (s *Store) Generation() uint64 {
	snap := s.snap.Load()
	if snap == nil {
		return 0
	}
	return snap.gen
}
