package filter

import (
	"strings"

	"primePlacesAPI/internal/types/place"
)

// All is the sentinel meaning "no restriction" for category and cuisine.
const All = "All"

// Criteria is the ephemeral filter state sent by the client on each listing
// request. It is never persisted.
type Criteria struct {
	Query     string
	Category  string
	Cuisine   string
	MinRating float64
}

func DefaultCriteria() Criteria {
	return Criteria{Category: All, Cuisine: All}
}

// Config enumerates the filter values the UI is allowed to offer. Keeping
// the lists here, instead of scattered over handlers, means the engine and
// the /filters endpoint can never drift apart.
type Config struct {
	Categories       []string  `json:"categories"`
	Cuisines         []string  `json:"cuisines"`
	RatingThresholds []float64 `json:"rating_thresholds"`
}

func DefaultConfig() Config {
	return Config{
		Categories: []string{
			All,
			"Cafe",
			"Restaurant",
			"Bar",
			"Spa",
			"Museum",
			"Bakery",
			"Market",
			"Memorial",
			"Attraction",
			"District",
			"Shopping Mall",
			"Fitness",
			"School",
		},
		Cuisines: []string{
			All,
			"Afghan",
			"Albanian",
			"American",
			"Arabic",
			"Argentinian",
			"Armenian",
			"Asian",
			"Japanese",
			"Fusion",
		},
		RatingThresholds: []float64{0, 4.0, 4.3, 4.5, 4.7},
	}
}

// Apply returns the places matching every criteria predicate, in their
// original order. It never reorders, never mutates its input and is
// deterministic for a given (places, criteria) pair.
func Apply(places []place.EnrichedPlace, c Criteria) []place.EnrichedPlace {
	query := strings.ToLower(c.Query)

	matched := make([]place.EnrichedPlace, 0, len(places))
	for _, p := range places {
		if !matchesSearch(p, query) {
			continue
		}
		if c.Category != All && p.Category != c.Category {
			continue
		}
		if c.Cuisine != All && (p.Cuisine == nil || *p.Cuisine != c.Cuisine) {
			continue
		}
		// A place with no rating is never dropped by the rating floor.
		if p.GoogleRating != nil && *p.GoogleRating < c.MinRating {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// matchesSearch is an OR across name, address and description; one field
// containing the query (case-insensitive) is enough.
func matchesSearch(p place.EnrichedPlace, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	if p.Address != nil && strings.Contains(strings.ToLower(*p.Address), query) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), query) {
		return true
	}
	return false
}
