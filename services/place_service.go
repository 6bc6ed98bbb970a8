package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"primePlacesAPI/internal/types/place"
)

// ErrPlaceNotFound is returned when a slug matches no row.
var ErrPlaceNotFound = errors.New("place not found")

type PlaceService struct {
	db *pgxpool.Pool
}

func NewPlaceService(db *pgxpool.Pool) *PlaceService {
	return &PlaceService{db: db}
}

const placeColumns = `
	id,
	name,
	category,
	cuisine,
	address,
	google_rating,
	description,
	slug,
	created_at
`

// GetAllPlaces returns every place, best rated first. Unrated places sort
// after rated ones so the top of the listing stays meaningful.
func (s *PlaceService) GetAllPlaces(ctx context.Context) ([]place.Place, error) {
	query := `
		SELECT ` + placeColumns + `
		FROM places
		ORDER BY google_rating DESC NULLS LAST
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	var places []place.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read places: %w", err)
	}

	return places, nil
}

// GetPlaceBySlug returns the single place identified by slug, or
// ErrPlaceNotFound.
func (s *PlaceService) GetPlaceBySlug(ctx context.Context, slug string) (*place.Place, error) {
	query := `
		SELECT ` + placeColumns + `
		FROM places
		WHERE slug = $1
	`

	p, err := scanPlace(s.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query place %q: %w", slug, err)
	}

	return &p, nil
}

func scanPlace(row pgx.Row) (place.Place, error) {
	var p place.Place
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Cuisine,
		&p.Address,
		&p.GoogleRating,
		&p.Description,
		&p.Slug,
		&p.CreatedAt,
	)
	return p, err
}
