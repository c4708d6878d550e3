package tests

import (
	"context"
	"errors"
	"testing"

	internalRedis "github.com/sajithmohammed-livelocal/uber-taxi/internal/redis"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// ──────────────────────────────────────────────
// PLACE SEARCH
// ──────────────────────────────────────────────

func TestSeed_IndexesWholeCatalog(t *testing.T) {
	t.Parallel()

	store := NewMockPlaceStore()
	svc := service.NewPlaceService(store, service.DefaultPlaces())

	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	if store.IndexedCount() != len(service.DefaultPlaces()) {
		t.Errorf("expected %d indexed places, got %d", len(service.DefaultPlaces()), store.IndexedCount())
	}
	pos, ok := store.IndexedAt("1")
	if !ok {
		t.Fatal("expected the airport to be indexed")
	}
	if pos[0] != 0.4586 || pos[1] != 9.4128 {
		t.Errorf("airport indexed at %v", pos)
	}
}

func TestSearch_MatchesNameAndAddressSubstrings(t *testing.T) {
	t.Parallel()

	svc := service.NewPlaceService(nil, service.DefaultPlaces())

	// Case-insensitive name match.
	got, err := svc.Search(context.Background(), "aéroport")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected the airport only, got %+v", got)
	}

	// Address-only match: three catalog entries sit in Libreville.
	got, err = svc.Search(context.Background(), "LIBREVILLE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 Libreville places, got %d", len(got))
	}

	got, err = svc.Search(context.Background(), "no such place")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestSearch_EmptyQueryReturnsCatalog(t *testing.T) {
	t.Parallel()

	svc := service.NewPlaceService(nil, service.DefaultPlaces())

	got, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != len(service.DefaultPlaces()) {
		t.Errorf("expected the full catalog, got %d places", len(got))
	}
}

func TestNearby_MapsStoreHitsToCatalog(t *testing.T) {
	t.Parallel()

	store := NewMockPlaceStore()
	store.NearbyResults = []internalRedis.PlaceDistance{
		{PlaceID: "3", DistKm: 1.2},
		{PlaceID: "4", DistKm: 2.8},
		{PlaceID: "ghost", DistKm: 0.1},
	}
	svc := service.NewPlaceService(store, service.DefaultPlaces())

	got, err := svc.Nearby(context.Background(), 0.4162, 9.4673, 5)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, hits outside the catalog dropped, got %d", len(got))
	}
	if got[0].Place.ID != "3" || got[0].DistanceKm != 1.2 {
		t.Errorf("expected the university at 1.2km first, got %+v", got[0])
	}
	if got[1].Place.Name != "Marché du Mont-Bouët" {
		t.Errorf("expected the market second, got %+v", got[1])
	}
}

func TestNearby_RejectsInvalidCoordinates(t *testing.T) {
	t.Parallel()

	svc := service.NewPlaceService(NewMockPlaceStore(), service.DefaultPlaces())

	if _, err := svc.Nearby(context.Background(), 95, 9.4673, 5); !errors.Is(err, service.ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates for latitude, got %v", err)
	}
	if _, err := svc.Nearby(context.Background(), 0.4162, 181, 5); !errors.Is(err, service.ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates for longitude, got %v", err)
	}
}

func TestNearby_NoStoreReturnsNothing(t *testing.T) {
	t.Parallel()

	svc := service.NewPlaceService(nil, service.DefaultPlaces())

	got, err := svc.Nearby(context.Background(), 0.4162, 9.4673, 5)
	if err != nil {
		t.Fatalf("Nearby: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results without a geo index, got %+v", got)
	}
}
