package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"primePlacesAPI/internal/kvstore"
	"primePlacesAPI/services"
)

func newFavoritesHandler() *FavoritesHandler {
	return NewFavoritesHandler(services.NewFavoritesService(kvstore.NewMemoryStore()))
}

func toggleRequest(placeID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/favorites/"+placeID+"/toggle", nil)
	return mux.SetURLVars(req, map[string]string{"placeId": placeID})
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	h := newFavoritesHandler()
	placeID := uuid.NewString()

	w := httptest.NewRecorder()
	h.ToggleFavorite(w, toggleRequest(placeID))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		PlaceID  string `json:"place_id"`
		Favorite bool   `json:"favorite"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.PlaceID != placeID || !body.Favorite {
		t.Errorf("got %+v, want favorite=true", body)
	}

	// Second toggle removes it again.
	w = httptest.NewRecorder()
	h.ToggleFavorite(w, toggleRequest(placeID))
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Favorite {
		t.Error("second toggle must report favorite=false")
	}
}

func TestToggleFavoriteRejectsBadID(t *testing.T) {
	h := newFavoritesHandler()

	w := httptest.NewRecorder()
	h.ToggleFavorite(w, toggleRequest("not-a-uuid"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetFavoriteStatus(t *testing.T) {
	h := newFavoritesHandler()
	placeID := uuid.NewString()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites/"+placeID, nil)
	req = mux.SetURLVars(req, map[string]string{"placeId": placeID})
	h.GetFavoriteStatus(w, req)

	var body struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Favorite {
		t.Error("unknown id must not be a favorite")
	}
}

func TestGetFavoritesListAndCount(t *testing.T) {
	h := newFavoritesHandler()

	first := uuid.NewString()
	second := uuid.NewString()
	for _, id := range []string{first, second} {
		w := httptest.NewRecorder()
		h.ToggleFavorite(w, toggleRequest(id))
		if w.Code != http.StatusOK {
			t.Fatalf("toggle status = %d", w.Code)
		}
	}

	w := httptest.NewRecorder()
	h.GetFavorites(w, httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil))

	var body struct {
		Favorites []string `json:"favorites"`
		Count     int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Count != 2 || len(body.Favorites) != 2 {
		t.Errorf("got %+v, want both ids", body)
	}

	w = httptest.NewRecorder()
	h.GetFavoritesCount(w, httptest.NewRequest(http.MethodGet, "/api/v1/favorites/count", nil))

	var countBody struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &countBody); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if countBody.Count != 2 {
		t.Errorf("count = %d, want 2", countBody.Count)
	}
}

func TestGetFavoritesEmptySetIsAnEmptyList(t *testing.T) {
	h := newFavoritesHandler()

	w := httptest.NewRecorder()
	h.GetFavorites(w, httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil))

	// The JSON must carry [] rather than null so clients can iterate blindly.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if string(raw["favorites"]) != "[]" {
		t.Errorf("favorites = %s, want []", raw["favorites"])
	}
}
