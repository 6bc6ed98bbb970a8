package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type FavoritesStore interface {
	IsFavorite(id string) bool
	ToggleFavorite(id string) (bool, error)
	ListFavorites() []string
	CountFavorites() int
}

type FavoritesHandler struct {
	favorites FavoritesStore
}

func NewFavoritesHandler(favorites FavoritesStore) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
	}
}

// GET /api/v1/favorites - all saved place ids
func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	ids := h.favorites.ListFavorites()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"favorites": ids,
		"count":     len(ids),
	})
}

// GET /api/v1/favorites/count
func (h *FavoritesHandler) GetFavoritesCount(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]int{"count": h.favorites.CountFavorites()})
}

// GET /api/v1/favorites/{placeId} - membership check
func (h *FavoritesHandler) GetFavoriteStatus(w http.ResponseWriter, r *http.Request) {
	placeID, ok := placeIDFromRequest(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"place_id": placeID,
		"favorite": h.favorites.IsFavorite(placeID),
	})
}

// POST /api/v1/favorites/{placeId}/toggle - flip membership, return new state
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	placeID, ok := placeIDFromRequest(w, r)
	if !ok {
		return
	}

	state, err := h.favorites.ToggleFavorite(placeID)
	if err != nil {
		slog.Error("failed to persist favorites", "place_id", placeID, "err", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to save favorite")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"place_id": placeID,
		"favorite": state,
	})
}

func placeIDFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	placeID := mux.Vars(r)["placeId"]
	if _, err := uuid.Parse(placeID); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid place id")
		return "", false
	}
	return placeID, true
}
