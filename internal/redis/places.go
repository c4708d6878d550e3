package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const placeGeoKey = "places:geo"

// PlaceDistance is a place ID paired with its distance from a query point.
type PlaceDistance struct {
	PlaceID string
	Lat     float64
	Lng     float64
	DistKm  float64
}

// PlaceStore indexes place positions in Redis for radius queries.
type PlaceStore struct {
	client *redis.Client
}

// NewPlaceStore creates a new PlaceStore.
func NewPlaceStore(client *redis.Client) *PlaceStore {
	return &PlaceStore{client: client}
}

// Index stores a place's position using GEOADD.
func (s *PlaceStore) Index(ctx context.Context, placeID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, placeGeoKey, &redis.GeoLocation{
		Name:      placeID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// Nearby returns place IDs within the given radius (in kilometers),
// nearest first.
func (s *PlaceStore) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]PlaceDistance, error) {
	results, err := s.client.GeoRadius(ctx, placeGeoKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	places := make([]PlaceDistance, 0, len(results))
	for _, r := range results {
		places = append(places, PlaceDistance{
			PlaceID: r.Name,
			Lat:     r.Latitude,
			Lng:     r.Longitude,
			DistKm:  r.Dist,
		})
	}

	return places, nil
}

// Remove drops a place from the geo index.
func (s *PlaceStore) Remove(ctx context.Context, placeID string) error {
	return s.client.ZRem(ctx, placeGeoKey, placeID).Err()
}
