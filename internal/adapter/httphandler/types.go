package httphandler

import (
	"time"

	"github.com/sunfresh/catalog/internal/core/domain"
)

type (
	Product struct {
		SKU             string   `json:"sku"`
		DisplayName     string   `json:"display_name"`
		Description     string   `json:"description"`
		Brand           string   `json:"brand"`
		Category        string   `json:"category"`
		WebCategory     string   `json:"web_category"`
		WebSubCategory  string   `json:"web_sub_category"`
		Units           string   `json:"units"`
		ImageURL        string   `json:"image_url"`
		Price           float64  `json:"price"`
		DiscountedPrice float64  `json:"discounted_price,omitempty"`
		Rating          float64  `json:"rating,omitempty"`
		ReviewCount     int      `json:"review_count,omitempty"`
		IsSFPreferred   bool     `json:"is_sf_preferred"`
		Availability    string   `json:"availability"`
		Keywords        []string `json:"keywords,omitempty"`
		Allergens       []string `json:"allergens,omitempty"`
		TotalStock      float64  `json:"total_stock"`
	}

	FacetCount struct {
		Value string `json:"value"`
		Count int    `json:"count"`
	}

	Facets struct {
		Categories   []FacetCount `json:"categories"`
		Brands       []FacetCount `json:"brands"`
		AccountSets  []FacetCount `json:"account_sets"`
		Availability []FacetCount `json:"availability"`
		Allergens    []FacetCount `json:"allergens"`
		Warehouses   []FacetCount `json:"warehouses"`
	}

	SearchResponse struct {
		Products    []Product `json:"products"`
		Facets      Facets    `json:"facets"`
		Total       int       `json:"total"`
		QueryTimeMs int64     `json:"query_time_ms"`
	}

	Recommendation struct {
		Kind     string    `json:"kind"`
		Products []Product `json:"products"`
		Score    float64   `json:"score"`
		Reason   string    `json:"reason"`
	}

	ClientEvent struct {
		Type       string `json:"type"`
		VisitorID  string `json:"visitor_id"`
		Query      string `json:"query,omitempty"`
		SKU        string `json:"sku,omitempty"`
		OccurredAt int64  `json:"occurred_at,omitempty"`
	}
)

func toProduct(p domain.Product) Product {
	return Product{
		SKU:             p.SKU,
		DisplayName:     p.DisplayName,
		Description:     p.Description,
		Brand:           p.Brand,
		Category:        p.Category,
		WebCategory:     p.WebCategory,
		WebSubCategory:  p.WebSubCategory,
		Units:           p.Units,
		ImageURL:        p.ImageURL,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
		Rating:          p.Rating.Average(),
		ReviewCount:     p.Rating.Count(),
		IsSFPreferred:   p.IsSFPreferred,
		Availability:    string(p.Availability),
		Keywords:        p.Keywords,
		Allergens:       p.Allergens,
		TotalStock:      p.TotalStock,
	}
}

func toProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProduct(p)
	}
	return out
}

func toFacetCounts(fs []domain.FacetCount) []FacetCount {
	out := make([]FacetCount, len(fs))
	for i, f := range fs {
		out[i] = FacetCount{Value: f.Value, Count: f.Count}
	}
	return out
}

func toSearchResponse(r domain.SearchResult) SearchResponse {
	return SearchResponse{
		Products: toProducts(r.Products),
		Facets: Facets{
			Categories:   toFacetCounts(r.Facets.Categories),
			Brands:       toFacetCounts(r.Facets.Brands),
			AccountSets:  toFacetCounts(r.Facets.AccountSets),
			Availability: toFacetCounts(r.Facets.Availability),
			Allergens:    toFacetCounts(r.Facets.Allergens),
			Warehouses:   toFacetCounts(r.Facets.Warehouses),
		},
		Total:       r.Total,
		QueryTimeMs: r.QueryTimeMs,
	}
}

func toRecommendations(rs []domain.RecommendationResult) []Recommendation {
	out := make([]Recommendation, len(rs))
	for i, r := range rs {
		out[i] = Recommendation{
			Kind:     string(r.Kind),
			Products: toProducts(r.Products),
			Score:    r.Score,
			Reason:   r.Reason,
		}
	}
	return out
}

func (e ClientEvent) toDomain() domain.ClientEvent {
	occurred := time.Now()
	if e.OccurredAt > 0 {
		occurred = time.UnixMilli(e.OccurredAt)
	}
	return domain.ClientEvent{
		Type:       domain.ClientEventType(e.Type),
		VisitorID:  e.VisitorID,
		Query:      e.Query,
		SKU:        e.SKU,
		OccurredAt: occurred,
	}
}
