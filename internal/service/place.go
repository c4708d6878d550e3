package service

import (
	"context"
	"strings"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	internalRedis "github.com/sajithmohammed-livelocal/uber-taxi/internal/redis"
)

// PlaceService answers place searches for the pickup/destination pickers.
// The catalog is a fixed in-process set; positions are indexed in Redis for
// radius queries.
type PlaceService struct {
	placeStore internalRedis.PlaceStoreInterface
	places     map[string]domain.Place
	ordered    []domain.Place
}

// NewPlaceService creates a PlaceService over the given catalog.
func NewPlaceService(placeStore internalRedis.PlaceStoreInterface, places []domain.Place) *PlaceService {
	byID := make(map[string]domain.Place, len(places))
	for _, p := range places {
		byID[p.ID] = p
	}
	return &PlaceService{
		placeStore: placeStore,
		places:     byID,
		ordered:    places,
	}
}

// DefaultPlaces returns the stock place catalog.
func DefaultPlaces() []domain.Place {
	return []domain.Place{
		{ID: "1", Name: "Aéroport International Léon-M'ba", Address: "Aéroport International, Libreville, Gabon", Lat: 0.4586, Lng: 9.4128, Category: "airport"},
		{ID: "2", Name: "Port-Gentil", Address: "Port-Gentil, Ogooué-Maritime, Gabon", Lat: -0.7193, Lng: 8.7815, Category: "city"},
		{ID: "3", Name: "Université Omar Bongo", Address: "Boulevard Triomphal Omar Bongo, Libreville", Lat: 0.4037, Lng: 9.4531, Category: "university"},
		{ID: "4", Name: "Marché du Mont-Bouët", Address: "Mont-Bouët, Libreville, Gabon", Lat: 0.3925, Lng: 9.4594, Category: "market"},
	}
}

// Seed writes the catalog positions into the geo index.
func (s *PlaceService) Seed(ctx context.Context) error {
	if s.placeStore == nil {
		return nil
	}
	for _, p := range s.ordered {
		if err := s.placeStore.Index(ctx, p.ID, p.Lat, p.Lng); err != nil {
			return err
		}
	}
	return nil
}

// Search returns places whose name or address contains the query,
// case-insensitively.
func (s *PlaceService) Search(ctx context.Context, query string) ([]domain.Place, error) {
	query = strings.ToLower(strings.TrimSpace(query))

	var matches []domain.Place
	for _, p := range s.ordered {
		if query == "" ||
			strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Address), query) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// NearbyPlace pairs a catalog place with its distance from the query point.
type NearbyPlace struct {
	Place      domain.Place
	DistanceKm float64
}

// Nearby returns catalog places within radiusKm of the point, nearest first.
func (s *PlaceService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyPlace, error) {
	if !isValidLatitude(lat) || !isValidLongitude(lng) {
		return nil, ErrInvalidCoordinates
	}
	if s.placeStore == nil {
		return nil, nil
	}

	hits, err := s.placeStore.Nearby(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyPlace, 0, len(hits))
	for _, hit := range hits {
		place, ok := s.places[hit.PlaceID]
		if !ok {
			continue
		}
		nearby = append(nearby, NearbyPlace{Place: place, DistanceKm: hit.DistKm})
	}
	return nearby, nil
}

// CurrentLocation returns the rider's mocked position.
func (s *PlaceService) CurrentLocation(ctx context.Context) domain.Location {
	return domain.Location{
		Address: "Centre-ville, Libreville, Gabon",
		Lat:     0.4162,
		Lng:     9.4673,
	}
}
