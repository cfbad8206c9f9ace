// Package recommend computes product-adjacent suggestions from the
// catalog alone: pairwise similarity, popularity-driven trending and
// table-driven complementary sets. It performs no I/O and never fails
// for "nothing matched"; empty results carry an explanatory reason.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
)

const DefaultLimit = 5

var _ port.Recommender = (*Engine)(nil)

type Engine struct {
	catalog port.CatalogProvider
	cfg     Config
	pop     *popularityCache
}

func NewEngine(catalog port.CatalogProvider, cfg Config) *Engine {
	cfg.normalize()
	return &Engine{
		catalog: catalog,
		cfg:     cfg,
		pop:     newPopularityCache(),
	}
}

// Similar scores every other product against the target and returns
// the best matches. A missing SKU yields an empty result with a
// reason, not an error.
func (e *Engine) Similar(
	ctx context.Context, sku string, limit int,
) (domain.RecommendationResult, error) {
	const op = "Engine.Similar"

	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	target, ok := e.catalog.BySKU(sku)
	if !ok {
		return domain.RecommendationResult{
			Kind:     domain.RecommendationSimilar,
			Products: []domain.Product{},
			Reason:   "Product not found",
		}, nil
	}

	scored := e.scoreCandidates(target, e.similarityScore)
	top := takeTop(scored, normalizeLimit(limit))

	return domain.RecommendationResult{
		Kind:     domain.RecommendationSimilar,
		Products: products(top),
		Score:    topScore(top),
		Reason:   "Similar to " + target.DisplayName,
	}, nil
}

// Complementary suggests products that go with the target: same
// category but a different web subcategory, or a category pair from
// the injected adjacency table.
func (e *Engine) Complementary(
	ctx context.Context, sku string, limit int,
) (domain.RecommendationResult, error) {
	const op = "Engine.Complementary"

	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("%s: %w", op, err)
	}

	target, ok := e.catalog.BySKU(sku)
	if !ok {
		return domain.RecommendationResult{
			Kind:     domain.RecommendationComplementary,
			Products: []domain.Product{},
			Reason:   "Product not found",
		}, nil
	}

	scored := e.scoreCandidates(target, e.complementaryScore)
	top := takeTop(scored, normalizeLimit(limit))

	return domain.RecommendationResult{
		Kind:     domain.RecommendationComplementary,
		Products: products(top),
		Score:    topScore(top),
		Reason:   "Goes well with " + target.DisplayName,
	}, nil
}

// Recommend composes the individual strategies for one request:
// similar and complementary when a target SKU is given, category
// trending for up to the first two category filters, and always a
// general trending pass. A preference on SF-preferred filters every
// result's products; results left empty by that filter are dropped.
func (e *Engine) Recommend(
	ctx context.Context, req domain.RecommendationRequest,
) ([]domain.RecommendationResult, error) {
	const op = "Engine.Recommend"

	limit := normalizeLimit(req.Limit)
	var out []domain.RecommendationResult

	if req.TargetSKU != "" {
		similar, err := e.Similar(ctx, req.TargetSKU, limit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, similar)

		compl, err := e.Complementary(ctx, req.TargetSKU, limit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, compl)
	}

	for i, category := range req.Categories {
		if i == 2 {
			break
		}
		ct, err := e.CategoryTrending(ctx, category, limit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, ct)
	}

	trending, err := e.Trending(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out = append(out, trending)

	if req.Preferences != nil && req.Preferences.SFPreferred != nil {
		out = filterPreferred(out, *req.Preferences.SFPreferred)
	}

	return out, nil
}

func filterPreferred(
	rs []domain.RecommendationResult, preferred bool,
) []domain.RecommendationResult {
	var out []domain.RecommendationResult
	for _, r := range rs {
		var kept []domain.Product
		for _, p := range r.Products {
			if p.IsSFPreferred == preferred {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			continue
		}
		r.Products = kept
		out = append(out, r)
	}
	return out
}

type scored struct {
	product domain.Product
	score   float64
}

type scoreFn func(target, candidate domain.Product) float64

func (e *Engine) scoreCandidates(
	target domain.Product, score scoreFn,
) []scored {
	var out []scored
	for _, p := range e.catalog.Products() {
		if !p.Searchable() || p.SKU == target.SKU {
			continue
		}
		if s := score(target, p); s > 0 {
			out = append(out, scored{p, capScore(s)})
		}
	}
	return out
}

func (e *Engine) similarityScore(target, candidate domain.Product) float64 {
	w := e.cfg.Weights
	var s float64

	if sameFold(target.Category, candidate.Category) {
		s += w.SameCategory
	}
	if sameFold(target.Brand, candidate.Brand) {
		s += w.SameBrand
	}
	if sameFold(target.WebCategory, candidate.WebCategory) {
		s += w.SameWebCategory
	}
	if sameFold(target.WebSubCategory, candidate.WebSubCategory) {
		s += w.SameWebSubCategory
	}
	if candidate.IsSFPreferred {
		s += w.Preferred
	}
	s += w.KeywordOverlap * keywordOverlap(target.Keywords, candidate.Keywords)

	return s
}

func (e *Engine) complementaryScore(target, candidate domain.Product) float64 {
	w := e.cfg.Weights
	var s float64

	// The cross-subcategory bonus needs subcategory data on both
	// sides; products without it are not "a different subcategory".
	if sameFold(target.Category, candidate.Category) &&
		target.WebSubCategory != "" && candidate.WebSubCategory != "" &&
		!sameFold(target.WebSubCategory, candidate.WebSubCategory) {
		s += w.ComplementCrossSub
	}
	if e.complements(target.Category, candidate.Category) {
		s += w.ComplementPair
	}
	if candidate.IsSFPreferred {
		s += w.Preferred
	}

	return s
}

func (e *Engine) complements(category, candidate string) bool {
	for key, list := range e.cfg.Complements {
		if !strings.EqualFold(key, category) {
			continue
		}
		for _, c := range list {
			if strings.EqualFold(c, candidate) {
				return true
			}
		}
	}
	return false
}

// keywordOverlap is |intersection| / max(|A|, |B|) over lower-cased
// keyword sets, 0 when either set is empty.
func keywordOverlap(a, b []string) float64 {
	setA := keywordSet(a)
	setB := keywordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var common int
	for k := range setA {
		if _, ok := setB[k]; ok {
			common++
		}
	}

	denom := len(setA)
	if len(setB) > denom {
		denom = len(setB)
	}
	return float64(common) / float64(denom)
}

func keywordSet(ks []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ks))
	for _, k := range ks {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// takeTop sorts descending by score with SKU as the final tie-break
// and keeps at most limit entries.
func takeTop(scored []scored, limit int) []scored {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].product.SKU < scored[j].product.SKU
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func products(scored []scored) []domain.Product {
	out := make([]domain.Product, len(scored))
	for i, s := range scored {
		out[i] = s.product
	}
	return out
}

func topScore(scored []scored) float64 {
	if len(scored) == 0 {
		return 0
	}
	return scored[0].score
}

func capScore(s float64) float64 {
	if s > 1 {
		return 1
	}
	return s
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func sameFold(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
