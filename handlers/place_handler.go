package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"primePlacesAPI/internal/filter"
	"primePlacesAPI/internal/types/place"
	"primePlacesAPI/services"
	"primePlacesAPI/utils"
)

type PlaceStore interface {
	GetAllPlaces(ctx context.Context) ([]place.Place, error)
	GetPlaceBySlug(ctx context.Context, slug string) (*place.Place, error)
}

type Enricher interface {
	EnrichAll(ctx context.Context, places []place.Place) []place.EnrichedPlace
}

type DetailImageResolver interface {
	ResolveDetailImage(ctx context.Context, name, category string) string
}

type FavoritesReader interface {
	IsFavorite(id string) bool
}

type PlaceHandler struct {
	places    PlaceStore
	enricher  Enricher
	images    DetailImageResolver
	favorites FavoritesReader
	filters   filter.Config
}

func NewPlaceHandler(places PlaceStore, enricher Enricher, images DetailImageResolver, favorites FavoritesReader) *PlaceHandler {
	return &PlaceHandler{
		places:    places,
		enricher:  enricher,
		images:    images,
		favorites: favorites,
		filters:   filter.DefaultConfig(),
	}
}

// GET /api/v1/places - full listing, enriched and filtered in memory
func (h *PlaceHandler) GetPlaces(w http.ResponseWriter, r *http.Request) {
	// Enrichment awaits the whole image fan-out, so this budget covers the
	// slowest batch, not a single query.
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	criteria := criteriaFromQuery(r)

	allPlaces, err := h.places.GetAllPlaces(ctx)
	if err != nil {
		// The listing degrades to an empty page; the cause stays in the log.
		slog.Error("failed to fetch places", "err", err)
		respondWithJSON(w, http.StatusOK, place.ListingResponse{Places: []place.ListingPlace{}})
		return
	}

	enriched := h.enricher.EnrichAll(ctx, allPlaces)
	visible := filter.Apply(enriched, criteria)

	listing := make([]place.ListingPlace, 0, len(visible))
	for _, p := range visible {
		listing = append(listing, place.ListingPlace{
			EnrichedPlace: p,
			IsFavorite:    h.favorites.IsFavorite(p.ID.String()),
		})
	}

	respondWithJSON(w, http.StatusOK, place.ListingResponse{Places: listing, Total: len(listing)})
}

// GET /api/v1/places/{slug} - single place with detail image and directions
func (h *PlaceHandler) GetPlaceBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	slug := mux.Vars(r)["slug"]

	p, err := h.places.GetPlaceBySlug(ctx, slug)
	if err != nil {
		// A broken fetch and a missing row both end on the not-found page;
		// only the log tells them apart.
		if !errors.Is(err, services.ErrPlaceNotFound) {
			slog.Error("failed to fetch place", "slug", slug, "err", err)
		}
		respondWithError(w, http.StatusNotFound, "Place not found")
		return
	}

	enriched := place.EnrichedPlace{Place: *p}
	if imageURL := h.images.ResolveDetailImage(ctx, p.Name, p.Category); imageURL != "" {
		enriched.ImageURL = &imageURL
	}

	respondWithJSON(w, http.StatusOK, place.DetailResponse{
		EnrichedPlace: enriched,
		IsFavorite:    h.favorites.IsFavorite(p.ID.String()),
		DirectionsURL: utils.DirectionsURL(p.Address, p.Name),
	})
}

// GET /api/v1/filters - the category/cuisine/rating values the UI may offer
func (h *PlaceHandler) GetFilterConfig(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.filters)
}

func criteriaFromQuery(r *http.Request) filter.Criteria {
	criteria := filter.DefaultCriteria()
	params := r.URL.Query()

	criteria.Query = params.Get("query")
	if v := params.Get("category"); v != "" {
		criteria.Category = v
	}
	if v := params.Get("cuisine"); v != "" {
		criteria.Cuisine = v
	}
	if v := params.Get("min_rating"); v != "" {
		if minRating, err := strconv.ParseFloat(v, 64); err == nil && minRating > 0 {
			criteria.MinRating = minRating
		}
	}
	return criteria
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
