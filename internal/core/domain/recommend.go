package domain

type RecommendationKind string

const (
	RecommendationSimilar          RecommendationKind = "similar"
	RecommendationTrending         RecommendationKind = "trending"
	RecommendationComplementary    RecommendationKind = "complementary"
	RecommendationCategoryTrending RecommendationKind = "category_trending"
)

type RecommendationResult struct {
	Kind     RecommendationKind
	Products []Product
	Score    float64
	Reason   string
}

type UserPreferences struct {
	SFPreferred *bool
}

type RecommendationRequest struct {
	TargetSKU   string
	Categories  []string
	Brands      []string
	Preferences *UserPreferences
	Limit       int
}
