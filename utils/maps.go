package utils

import "net/url"

// DirectionsURL builds the Google Maps "get directions" deep link for a
// place. The street address wins when present; otherwise the place name
// plus the city keeps the search unambiguous.
func DirectionsURL(address *string, name string) string {
	query := name + ", Budapest"
	if address != nil && *address != "" {
		query = *address
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}
