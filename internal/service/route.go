package service

import (
	"math"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// RouteInfo describes the estimated route between two points.
type RouteInfo struct {
	DistanceKm  float64
	DurationMin float64
}

// RouteProvider estimates the route between two locations. The default
// implementation works from the great-circle distance; a real deployment
// would back this with a routing API.
type RouteProvider interface {
	DistanceAndDuration(a, b domain.Location) (RouteInfo, error)
}

// minutesPerKm is the fixed speed assumption used to derive duration.
const minutesPerKm = 3.0

// HaversineRouteProvider estimates routes from straight-line geometry.
type HaversineRouteProvider struct{}

// NewHaversineRouteProvider creates the default route provider.
func NewHaversineRouteProvider() *HaversineRouteProvider {
	return &HaversineRouteProvider{}
}

// DistanceAndDuration returns the great-circle distance between the two
// locations, rounded to two decimals, and a duration derived from it.
func (p *HaversineRouteProvider) DistanceAndDuration(a, b domain.Location) (RouteInfo, error) {
	distance := haversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
	distance = math.Round(distance*100) / 100

	return RouteInfo{
		DistanceKm:  distance,
		DurationMin: math.Round(distance * minutesPerKm),
	}, nil
}

// haversineKm returns the great-circle distance in kilometers.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371

	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

func validLocation(loc domain.Location) bool {
	return isValidLatitude(loc.Lat) && isValidLongitude(loc.Lng)
}
