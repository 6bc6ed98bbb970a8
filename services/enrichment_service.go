package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"primePlacesAPI/internal/types/place"
)

type listingImageResolver interface {
	ResolveListingImage(ctx context.Context, name, category string) string
}

// EnrichmentService attaches listing images to a fetched place list. The
// fan-out is bounded and every item carries its own timeout; a slow or
// failing lookup settles to "no image" instead of stalling the batch
// forever.
type EnrichmentService struct {
	images         listingImageResolver
	maxInFlight    int
	perItemTimeout time.Duration
}

func NewEnrichmentService(images listingImageResolver) *EnrichmentService {
	return &EnrichmentService{
		images:         images,
		maxInFlight:    8,
		perItemTimeout: 5 * time.Second,
	}
}

// EnrichAll resolves a listing image for every place concurrently and
// returns once all resolutions have settled. Output order matches input
// order.
func (s *EnrichmentService) EnrichAll(ctx context.Context, places []place.Place) []place.EnrichedPlace {
	enriched := make([]place.EnrichedPlace, len(places))

	var g errgroup.Group
	g.SetLimit(s.maxInFlight)

	for i, p := range places {
		i, p := i, p
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(ctx, s.perItemTimeout)
			defer cancel()

			enriched[i] = place.EnrichedPlace{Place: p}
			if imageURL := s.images.ResolveListingImage(itemCtx, p.Name, p.Category); imageURL != "" {
				enriched[i].ImageURL = &imageURL
			}
			return nil
		})
	}
	g.Wait()

	return enriched
}
