package recommend

// Weights holds every scoring constant so the engine stays
// catalog-domain-agnostic; deployments tune them through config.
type Weights struct {
	SameCategory       float64 `mapstructure:"same_category"`
	SameBrand          float64 `mapstructure:"same_brand"`
	SameWebCategory    float64 `mapstructure:"same_web_category"`
	SameWebSubCategory float64 `mapstructure:"same_web_sub_category"`
	Preferred          float64 `mapstructure:"preferred"`
	KeywordOverlap     float64 `mapstructure:"keyword_overlap"`

	TrendPreferred    float64 `mapstructure:"trend_preferred"`
	TrendCategory     float64 `mapstructure:"trend_category"`
	TrendBrand        float64 `mapstructure:"trend_brand"`
	PopularityDivisor float64 `mapstructure:"popularity_divisor"`

	ComplementCrossSub float64 `mapstructure:"complement_cross_sub"`
	ComplementPair     float64 `mapstructure:"complement_pair"`
}

func DefaultWeights() Weights {
	return Weights{
		SameCategory:       0.4,
		SameBrand:          0.3,
		SameWebCategory:    0.2,
		SameWebSubCategory: 0.1,
		Preferred:          0.1,
		KeywordOverlap:     0.2,

		TrendPreferred:    0.5,
		TrendCategory:     0.3,
		TrendBrand:        0.2,
		PopularityDivisor: 1000,

		ComplementCrossSub: 0.4,
		ComplementPair:     0.3,
	}
}

// Config carries the scoring weights and the category-adjacency table
// (category -> complementary categories), both supplied as data.
type Config struct {
	Weights     Weights             `mapstructure:"weights"`
	Complements map[string][]string `mapstructure:"complements"`
}

func (c *Config) normalize() {
	zero := Weights{}
	if c.Weights == zero {
		c.Weights = DefaultWeights()
	}
	if c.Weights.PopularityDivisor <= 0 {
		c.Weights.PopularityDivisor = DefaultWeights().PopularityDivisor
	}
}
