package search

import (
	"sort"
	"strings"

	"github.com/sunfresh/catalog/internal/core/domain"
)

// sortProducts orders the filtered set in place. The input arrives in
// SKU order from the snapshot, and every strategy sorts stably, so
// ordering is deterministic for a given catalog generation and inputs.
func sortProducts(ps []domain.Product, sortBy domain.SortBy, query string) {
	switch sortBy {
	case domain.SortNameAsc:
		stableSort(ps, func(a, b domain.Product) int {
			return strings.Compare(a.DisplayName, b.DisplayName)
		})
	case domain.SortNameDesc:
		stableSort(ps, func(a, b domain.Product) int {
			return strings.Compare(b.DisplayName, a.DisplayName)
		})
	case domain.SortPriceAsc:
		stableSort(ps, func(a, b domain.Product) int {
			return compareFloat(a.Price, b.Price)
		})
	case domain.SortPriceDesc:
		stableSort(ps, func(a, b domain.Product) int {
			return compareFloat(b.Price, a.Price)
		})
	case domain.SortAvailability:
		stableSort(ps, func(a, b domain.Product) int {
			return b.Availability.Rank() - a.Availability.Rank()
		})
	case domain.SortTextMatchDesc:
		sortByTextMatch(ps, query)
	case domain.SortRecentlyPurchased:
		stableSort(ps, func(a, b domain.Product) int {
			if c := compareBool(b.IsSFPreferred, a.IsSFPreferred); c != 0 {
				return c
			}
			if c := b.OrderLastMonth - a.OrderLastMonth; c != 0 {
				return c
			}
			return strings.Compare(a.DisplayName, b.DisplayName)
		})
	case domain.SortRatingDesc:
		stableSort(ps, func(a, b domain.Product) int {
			if c := compareFloat(b.Rating.Average(), a.Rating.Average()); c != 0 {
				return c
			}
			return b.Rating.Count() - a.Rating.Count()
		})
	case domain.SortRatingAsc:
		stableSort(ps, func(a, b domain.Product) int {
			if c := compareFloat(a.Rating.Average(), b.Rating.Average()); c != 0 {
				return c
			}
			return b.Rating.Count() - a.Rating.Count()
		})
	default:
		sortByRelevance(ps, query)
	}
}

// textMatchScore is the explainable relevance score used by the
// text_match_desc strategy.
func textMatchScore(p domain.Product, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	var score int
	if strings.ToLower(p.SKU) == q {
		score += 100
	}
	name := strings.ToLower(p.DisplayName)
	if strings.Contains(name, q) {
		score += 50
		if strings.HasPrefix(name, q) {
			score += 25
		}
	}
	if strings.Contains(strings.ToLower(p.Brand), q) {
		score += 30
	}
	if strings.Contains(strings.ToLower(p.Category), q) {
		score += 20
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		score += 10
	}
	return score
}

func sortByTextMatch(ps []domain.Product, query string) {
	scores := make(map[string]int, len(ps))
	for _, p := range ps {
		scores[p.SKU] = textMatchScore(p, query)
	}
	stableSort(ps, func(a, b domain.Product) int {
		return scores[b.SKU] - scores[a.SKU]
	})
}

// relevanceKey ranks the default strategy's signals in precedence
// order: exact SKU, prefix-word hit for short queries, SF-preferred,
// exact brand, name-contains.
type relevanceKey struct {
	exactSKU    bool
	prefixWord  bool
	preferred   bool
	exactBrand  bool
	nameContain bool
}

func sortByRelevance(ps []domain.Product, query string) {
	q := strings.ToLower(strings.TrimSpace(query))

	if q == "" || q == domain.MatchAllQuery {
		stableSort(ps, func(a, b domain.Product) int {
			if c := compareBool(b.IsSFPreferred, a.IsSFPreferred); c != 0 {
				return c
			}
			return strings.Compare(a.DisplayName, b.DisplayName)
		})
		return
	}

	shortQuery := len(q) <= shortTermLen
	keys := make(map[string]relevanceKey, len(ps))
	for _, p := range ps {
		keys[p.SKU] = relevanceKey{
			exactSKU:    strings.ToLower(p.SKU) == q,
			prefixWord:  shortQuery && anyWordHasPrefix(p.SearchText(), q),
			preferred:   p.IsSFPreferred,
			exactBrand:  strings.EqualFold(p.Brand, q),
			nameContain: strings.Contains(strings.ToLower(p.DisplayName), q),
		}
	}

	stableSort(ps, func(a, b domain.Product) int {
		ka, kb := keys[a.SKU], keys[b.SKU]
		if c := compareBool(kb.exactSKU, ka.exactSKU); c != 0 {
			return c
		}
		if c := compareBool(kb.prefixWord, ka.prefixWord); c != 0 {
			return c
		}
		if c := compareBool(kb.preferred, ka.preferred); c != 0 {
			return c
		}
		if c := compareBool(kb.exactBrand, ka.exactBrand); c != 0 {
			return c
		}
		return compareBool(kb.nameContain, ka.nameContain)
	})
}

func stableSort(ps []domain.Product, cmp func(a, b domain.Product) int) {
	sort.SliceStable(ps, func(i, j int) bool {
		return cmp(ps[i], ps[j]) < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
