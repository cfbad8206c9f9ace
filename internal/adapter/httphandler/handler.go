package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sunfresh/catalog/internal/core/domain"
	"github.com/sunfresh/catalog/internal/core/port"
)

// GET /v1/search?q=milk&category=DAIRY,BAKERY&sort=price_asc&offset=0&limit=20
// GET /v1/recommendations?sku=A1&category=DAIRY&limit=5
// POST /v1/events JSON array (response 202 Accepted, 400 Bad request)

type SearchHandler struct {
	searcher port.ProductSearcher
}

func RegisterSearch(mux *http.ServeMux, searcher port.ProductSearcher) {
	h := SearchHandler{searcher}
	mux.HandleFunc("GET /v1/search", h.GetSearch)
}

func (h SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	const op = "SearchHandler.GetSearch"
	log := slog.With("op", op)

	params := r.URL.Query()

	res, err := h.searcher.Search(
		r.Context(),
		params.Get("q"),
		parseFilters(params),
		intParam(params, "offset", 0),
		intParam(params, "limit", 0),
		domain.ParseSortBy(params.Get("sort")),
	)
	if err != nil {
		// Availability over strict signaling: the caller still gets a
		// valid, empty result envelope.
		log.Error("search failed", "err", err)
		res = domain.SearchResult{Products: []domain.Product{}}
	}

	writeJSON(w, log, toSearchResponse(res))
}

func parseFilters(params url.Values) domain.SearchFilters {
	f := domain.SearchFilters{
		Categories:  listParam(params, "category"),
		Brands:      listParam(params, "brand"),
		AccountSets: listParam(params, "account_set"),
		Allergens:   listParam(params, "allergen"),
		Warehouses:  listParam(params, "warehouse"),
	}

	for _, a := range listParam(params, "availability") {
		f.Availability = append(f.Availability, domain.Availability(a))
	}

	if v := params.Get("sf_preferred"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.SFPreferred = &b
		}
	}
	if v := params.Get("price_min"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.Price.Min = &n
		}
	}
	if v := params.Get("price_max"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.Price.Max = &n
		}
	}

	return f
}

type RecommendationsHandler struct {
	recommender port.Recommender
}

func RegisterRecommendations(mux *http.ServeMux, rec port.Recommender) {
	h := RecommendationsHandler{rec}
	mux.HandleFunc("GET /v1/recommendations", h.GetRecommendations)
}

func (h RecommendationsHandler) GetRecommendations(
	w http.ResponseWriter, r *http.Request,
) {
	const op = "RecommendationsHandler.GetRecommendations"
	log := slog.With("op", op)

	params := r.URL.Query()

	req := domain.RecommendationRequest{
		TargetSKU:  params.Get("sku"),
		Categories: listParam(params, "category"),
		Brands:     listParam(params, "brand"),
		Limit:      intParam(params, "limit", 0),
	}
	if v := params.Get("sf_preferred"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			req.Preferences = &domain.UserPreferences{SFPreferred: &b}
		}
	}

	rs, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		log.Error("recommendation failed", "err", err)
		rs = []domain.RecommendationResult{}
	}

	writeJSON(w, log, toRecommendations(rs))
}

type EventsHandler struct {
	reporter port.EventReporter
}

func RegisterEvents(mux *http.ServeMux, reporter port.EventReporter) {
	h := EventsHandler{reporter}
	mux.HandleFunc("POST /v1/events", h.PostEvents)
}

func (h EventsHandler) PostEvents(w http.ResponseWriter, r *http.Request) {
	const op = "EventsHandler.PostEvents"
	log := slog.With("op", op)

	var dtos []ClientEvent
	err := json.NewDecoder(r.Body).Decode(&dtos)
	if err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	evts := make([]domain.ClientEvent, len(dtos))
	for i, dto := range dtos {
		evts[i] = dto.toDomain()
	}

	if err := h.reporter.ReportEvents(r.Context(), evts); err != nil {
		log.Error("failed to report events", "err", err)
	}

	w.WriteHeader(http.StatusAccepted)
	log.Info("accepted", "nEvents", len(evts))
}

func listParam(params url.Values, name string) []string {
	var out []string
	for _, raw := range params[name] {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func intParam(params url.Values, name string, fallback int) int {
	v := params.Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
