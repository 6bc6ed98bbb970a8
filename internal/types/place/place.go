package place

import (
	"time"

	"github.com/google/uuid"
)

// Place is a single point-of-interest row from the places table. All
// writes happen out of band (curation scripts); the API is read-only.
type Place struct {
	ID           uuid.UUID `db:"id"            json:"id"`
	Name         string    `db:"name"          json:"name"`
	Category     string    `db:"category"      json:"category"`
	Cuisine      *string   `db:"cuisine"       json:"cuisine"`
	Address      *string   `db:"address"       json:"address"`
	GoogleRating *float64  `db:"google_rating" json:"google_rating"`
	Description  *string   `db:"description"   json:"description"`
	Slug         string    `db:"slug"          json:"slug"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

// EnrichedPlace pairs a place with its resolved Unsplash image. ImageURL
// stays nil when every lookup stage came back empty or failed; the place
// still renders with a client-side placeholder.
type EnrichedPlace struct {
	Place
	ImageURL *string `json:"image_url"`
}

type ListingPlace struct {
	EnrichedPlace
	IsFavorite bool `json:"is_favorite"`
}

type ListingResponse struct {
	Places []ListingPlace `json:"places"`
	Total  int            `json:"total"`
}

type DetailResponse struct {
	EnrichedPlace
	IsFavorite    bool   `json:"is_favorite"`
	DirectionsURL string `json:"directions_url"`
}
