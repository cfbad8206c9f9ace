package domain

// MatchAllQuery is the sentinel that skips text filtering entirely.
const MatchAllQuery = "*"

type SortBy string

const (
	SortRelevance         SortBy = "relevance"
	SortNameAsc           SortBy = "name_asc"
	SortNameDesc          SortBy = "name_desc"
	SortPriceAsc          SortBy = "price_asc"
	SortPriceDesc         SortBy = "price_desc"
	SortAvailability      SortBy = "availability"
	SortTextMatchDesc     SortBy = "text_match_desc"
	SortRecentlyPurchased SortBy = "recently_purchased"
	SortRatingDesc        SortBy = "rating_desc"
	SortRatingAsc         SortBy = "rating_asc"
)

// ParseSortBy maps a raw sort name to a strategy, falling back to
// relevance for anything unknown.
func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortNameAsc, SortNameDesc,
		SortPriceAsc, SortPriceDesc,
		SortAvailability, SortTextMatchDesc,
		SortRecentlyPurchased,
		SortRatingDesc, SortRatingAsc,
		SortRelevance:
		return SortBy(s)
	default:
		return SortRelevance
	}
}

type PriceRange struct {
	Min *float64
	Max *float64
}

// SearchFilters is a request-scoped value object. Lists are OR within
// the field; distinct fields combine with AND.
type SearchFilters struct {
	Categories   []string
	Brands       []string
	AccountSets  []string
	Allergens    []string
	Availability []Availability
	Warehouses   []string
	SFPreferred  *bool
	Price        PriceRange
}

type FacetCount struct {
	Value string
	Count int
}

type Facets struct {
	Categories   []FacetCount
	Brands       []FacetCount
	AccountSets  []FacetCount
	Availability []FacetCount
	Allergens    []FacetCount
	Warehouses   []FacetCount
}

type SearchResult struct {
	Products    []Product
	Facets      Facets
	Total       int
	QueryTimeMs int64
}
