package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"primePlacesAPI/internal/types/place"
)

type stubResolver struct {
	mu          sync.Mutex
	urls        map[string]string
	delay       time.Duration
	waitForCtx  bool
	inFlight    int
	maxInFlight int
}

func (r *stubResolver) ResolveListingImage(ctx context.Context, name, category string) string {
	r.mu.Lock()
	r.inFlight++
	if r.inFlight > r.maxInFlight {
		r.maxInFlight = r.inFlight
	}
	r.mu.Unlock()

	if r.waitForCtx {
		<-ctx.Done()
	} else if r.delay > 0 {
		time.Sleep(r.delay)
	}

	r.mu.Lock()
	r.inFlight--
	r.mu.Unlock()

	if r.waitForCtx {
		return ""
	}
	return r.urls[name]
}

func listingPlaces(names ...string) []place.Place {
	places := make([]place.Place, 0, len(names))
	for _, name := range names {
		places = append(places, place.Place{ID: uuid.New(), Name: name, Category: "Cafe", Slug: name})
	}
	return places
}

func TestEnrichAllAttachesImagesInInputOrder(t *testing.T) {
	resolver := &stubResolver{urls: map[string]string{
		"First": "https://img/first",
		"Third": "https://img/third",
		// "Second" resolves to nothing.
	}}
	svc := NewEnrichmentService(resolver)

	enriched := svc.EnrichAll(context.Background(), listingPlaces("First", "Second", "Third"))

	if len(enriched) != 3 {
		t.Fatalf("len = %d, want 3", len(enriched))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if enriched[i].Name != want {
			t.Errorf("position %d holds %q, want %q", i, enriched[i].Name, want)
		}
	}
	if enriched[0].ImageURL == nil || *enriched[0].ImageURL != "https://img/first" {
		t.Error("first place lost its image")
	}
	if enriched[1].ImageURL != nil {
		t.Errorf("unresolved place must keep a nil image, got %q", *enriched[1].ImageURL)
	}
	if enriched[2].ImageURL == nil || *enriched[2].ImageURL != "https://img/third" {
		t.Error("third place lost its image")
	}
}

func TestEnrichAllBoundsConcurrency(t *testing.T) {
	resolver := &stubResolver{urls: map[string]string{}, delay: 5 * time.Millisecond}
	svc := NewEnrichmentService(resolver)

	names := make([]string, 40)
	for i := range names {
		names[i] = uuid.NewString()
	}
	svc.EnrichAll(context.Background(), listingPlaces(names...))

	if resolver.maxInFlight > svc.maxInFlight {
		t.Errorf("observed %d concurrent lookups, limit is %d", resolver.maxInFlight, svc.maxInFlight)
	}
}

func TestEnrichAllSettlesOnPerItemTimeout(t *testing.T) {
	resolver := &stubResolver{waitForCtx: true}
	svc := &EnrichmentService{images: resolver, maxInFlight: 8, perItemTimeout: 20 * time.Millisecond}

	done := make(chan []place.EnrichedPlace, 1)
	go func() {
		done <- svc.EnrichAll(context.Background(), listingPlaces("Slow One", "Slow Two"))
	}()

	select {
	case enriched := <-done:
		for _, p := range enriched {
			if p.ImageURL != nil {
				t.Errorf("timed-out lookup must yield no image, got %q", *p.ImageURL)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("EnrichAll did not settle after the per-item timeout")
	}
}

func TestEnrichAllEmptyList(t *testing.T) {
	svc := NewEnrichmentService(&stubResolver{})

	if enriched := svc.EnrichAll(context.Background(), nil); len(enriched) != 0 {
		t.Errorf("len = %d, want 0", len(enriched))
	}
}
