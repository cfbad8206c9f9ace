package recommend

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sunfresh/catalog/internal/core/domain"
)

// Trending returns active SF-preferred products ranked by the cached
// category and brand popularity scores, optionally restricted to the
// given categories (matched against category or web category).
func (e *Engine) Trending(
	ctx context.Context, categories []string, limit int,
) (domain.RecommendationResult, error) {
	const op = "Engine.Trending"

	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	pop := e.popularity()

	var candidates []scored
	for _, p := range e.catalog.Products() {
		if !p.Searchable() || !p.IsSFPreferred {
			continue
		}
		if len(categories) > 0 && !inCategories(p, categories) {
			continue
		}
		candidates = append(candidates, scored{p, e.trendScore(p, pop)})
	}

	top := takeTop(candidates, normalizeLimit(limit))

	reason := "Trending products"
	if len(categories) > 0 {
		reason = "Trending in " + strings.Join(categories, ", ")
	}

	return domain.RecommendationResult{
		Kind:     domain.RecommendationTrending,
		Products: products(top),
		Score:    capScore(topScore(top)),
		Reason:   reason,
	}, nil
}

// CategoryTrending ranks every active product of one category with
// the trending formula, preferred or not.
func (e *Engine) CategoryTrending(
	ctx context.Context, category string, limit int,
) (domain.RecommendationResult, error) {
	const op = "Engine.CategoryTrending"

	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	pop := e.popularity()

	var candidates []scored
	for _, p := range e.catalog.Products() {
		if !p.Searchable() {
			continue
		}
		if !sameFold(category, p.Category) && !sameFold(category, p.WebCategory) {
			continue
		}
		candidates = append(candidates, scored{p, e.trendScore(p, pop)})
	}

	top := takeTop(candidates, normalizeLimit(limit))

	return domain.RecommendationResult{
		Kind:     domain.RecommendationCategoryTrending,
		Products: products(top),
		Score:    capScore(topScore(top)),
		Reason:   "Popular in " + category,
	}, nil
}

func (e *Engine) trendScore(p domain.Product, pop popularity) float64 {
	w := e.cfg.Weights
	var s float64
	if p.IsSFPreferred {
		s += w.TrendPreferred
	}
	s += w.TrendCategory * pop.category(p.Category) / w.PopularityDivisor
	s += w.TrendBrand * pop.brand(p.Brand) / w.PopularityDivisor
	return s
}

func inCategories(p domain.Product, categories []string) bool {
	for _, c := range categories {
		if sameFold(c, p.Category) || sameFold(c, p.WebCategory) {
			return true
		}
	}
	return false
}

// popularity maps category/brand to 2*sfPreferredCount + itemCount,
// derived once per catalog generation.
type popularity struct {
	byCategory map[string]float64
	byBrand    map[string]float64
}

func (p popularity) category(name string) float64 {
	return p.byCategory[strings.ToLower(name)]
}

func (p popularity) brand(name string) float64 {
	return p.byBrand[strings.ToLower(name)]
}

type popularityCache struct {
	mu  sync.Mutex
	gen uint64
	pop popularity
}

func newPopularityCache() *popularityCache {
	return &popularityCache{}
}

func (e *Engine) popularity() popularity {
	gen := e.catalog.Generation()

	e.pop.mu.Lock()
	defer e.pop.mu.Unlock()

	if e.pop.gen == gen && e.pop.pop.byCategory != nil {
		return e.pop.pop
	}

	pop := popularity{
		byCategory: map[string]float64{},
		byBrand:    map[string]float64{},
	}
	for _, p := range e.catalog.Products() {
		if !p.Searchable() {
			continue
		}
		addPopularity(pop.byCategory, p.Category, p.IsSFPreferred)
		addPopularity(pop.byBrand, p.Brand, p.IsSFPreferred)
	}

	e.pop.gen = gen
	e.pop.pop = pop
	return pop
}

func addPopularity(m map[string]float64, name string, preferred bool) {
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	m[key]++
	if preferred {
		m[key] += 2
	}
}
