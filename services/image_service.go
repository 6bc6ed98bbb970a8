package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"primePlacesAPI/middleware"
)

// ImageService resolves a representative Unsplash photo for a place. Every
// failure mode (missing key, transport error, bad status, empty index)
// degrades to "no image"; a broken photo search must never take the listing
// down with it. Results are not cached: two places sharing a name and
// category query independently.
type ImageService struct {
	accessKey string
	baseURL   string
	client    *http.Client
}

func NewImageService(accessKey string) *ImageService {
	return &ImageService{
		accessKey: accessKey,
		baseURL:   "https://api.unsplash.com",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveListingImage finds the photo shown on a listing card: first hit
// for "budapest <category> <name>", falling back to a category-only query,
// empty string when both stages come back dry.
func (s *ImageService) ResolveListingImage(ctx context.Context, name, category string) string {
	return s.resolve(ctx, "listing", name, category, 1, func(candidates []string) string {
		return candidates[0]
	})
}

// ResolveDetailImage picks the second candidate when the index offers at
// least two, so the detail page does not repeat the exact photo the visitor
// just clicked on the listing grid.
func (s *ImageService) ResolveDetailImage(ctx context.Context, name, category string) string {
	return s.resolve(ctx, "detail", name, category, 3, func(candidates []string) string {
		if len(candidates) >= 2 {
			return candidates[1]
		}
		return candidates[0]
	})
}

func (s *ImageService) resolve(ctx context.Context, kind, name, category string, perPage int, pick func([]string) string) string {
	if s.accessKey == "" {
		middleware.RecordImageLookup(kind, "no_credential")
		return ""
	}

	primary := fmt.Sprintf("budapest %s %s", strings.ToLower(category), strings.ToLower(name))
	candidates, err := s.searchPhotos(ctx, primary, perPage)
	if err != nil {
		slog.Warn("image lookup failed", "query", primary, "err", err)
		middleware.RecordImageLookup(kind, "error")
		return ""
	}
	if len(candidates) > 0 {
		middleware.RecordImageLookup(kind, "hit")
		return pick(candidates)
	}

	fallback := strings.ToLower(category) + " interior"
	candidates, err = s.searchPhotos(ctx, fallback, perPage)
	if err != nil {
		slog.Warn("image lookup failed", "query", fallback, "err", err)
		middleware.RecordImageLookup(kind, "error")
		return ""
	}
	if len(candidates) > 0 {
		middleware.RecordImageLookup(kind, "fallback")
		return pick(candidates)
	}

	middleware.RecordImageLookup(kind, "miss")
	return ""
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (s *ImageService) searchPhotos(ctx context.Context, query string, perPage int) ([]string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+s.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call image search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	var payload unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode image search response: %w", err)
	}

	candidates := make([]string, 0, len(payload.Results))
	for _, result := range payload.Results {
		if result.URLs.Regular != "" {
			candidates = append(candidates, result.URLs.Regular)
		}
	}
	return candidates, nil
}
