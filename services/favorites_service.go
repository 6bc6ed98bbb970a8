package services

import (
	"encoding/json"
	"log/slog"
	"slices"

	"primePlacesAPI/internal/kvstore"
)

// favoritesKey is the single storage entry holding the serialized id list.
// The key name is kept from the first release, stored files stay readable.
const favoritesKey = "budapest-favorites"

// FavoritesService keeps the visitor's saved places as a set of place ids
// under one key of an injected Store. Every mutation is a full
// read-modify-write of the serialized set; membership is the only signal of
// favorite status. With no store configured all operations degrade to the
// empty set instead of failing requests.
type FavoritesService struct {
	store kvstore.Store
}

func NewFavoritesService(store kvstore.Store) *FavoritesService {
	return &FavoritesService{store: store}
}

func (s *FavoritesService) IsFavorite(id string) bool {
	return slices.Contains(s.readSet(), id)
}

// ToggleFavorite flips membership for id and reports the new state: true
// when the id was just added, false when it was removed. Without a store
// the call is a no-op.
func (s *FavoritesService) ToggleFavorite(id string) (bool, error) {
	if s.store == nil {
		return false, nil
	}

	ids := s.readSet()
	if slices.Contains(ids, id) {
		ids = slices.DeleteFunc(ids, func(existing string) bool { return existing == id })
		return false, s.writeSet(ids)
	}

	ids = append(ids, id)
	return true, s.writeSet(ids)
}

// ListFavorites returns the favorited ids. Order carries no meaning.
func (s *FavoritesService) ListFavorites() []string {
	ids := s.readSet()
	if ids == nil {
		return []string{}
	}
	return ids
}

func (s *FavoritesService) CountFavorites() int {
	return len(s.readSet())
}

func (s *FavoritesService) readSet() []string {
	if s.store == nil {
		return nil
	}

	raw, ok := s.store.Get(favoritesKey)
	if !ok {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Warn("favorites entry is not a valid id list, treating as empty", "err", err)
		return nil
	}
	return ids
}

func (s *FavoritesService) writeSet(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.store.Set(favoritesKey, string(raw))
}
