package service

import (
	"errors"
	"math"
	"testing"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

func TestFare_StandardTrip(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(DefaultFareConfig())

	// 1500 + 9.4*350 + 28*50 = 6190
	fare, err := calc.Fare(9.4, 28, domain.TripTypeNow)
	if err != nil {
		t.Fatalf("Fare: %v", err)
	}
	if fare != 6190 {
		t.Errorf("expected 6190, got %v", fare)
	}
}

func TestFare_MinimumFloor(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(DefaultFareConfig())

	// 1500 + 0.5*350 + 2*50 = 1775, below the 2000 floor.
	fare, err := calc.Fare(0.5, 2, domain.TripTypeNow)
	if err != nil {
		t.Fatalf("Fare: %v", err)
	}
	if fare != 2000 {
		t.Errorf("expected minimum fare 2000, got %v", fare)
	}
}

func TestFare_CityMultiplierAppliedBeforeFloor(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(DefaultFareConfig())

	// (1500 + 0.5*350 + 2*50) * 1.5 = 2662.5, above the floor.
	fare, err := calc.Fare(0.5, 2, domain.TripTypeCity)
	if err != nil {
		t.Fatalf("Fare: %v", err)
	}
	if fare != 2662.5 {
		t.Errorf("expected 2662.5, got %v", fare)
	}
}

func TestFare_HourlyIgnoresRoute(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(DefaultFareConfig())

	short, err := calc.Fare(0.1, 1, domain.TripTypeHourly)
	if err != nil {
		t.Fatalf("Fare: %v", err)
	}
	long, err := calc.Fare(120, 360, domain.TripTypeHourly)
	if err != nil {
		t.Fatalf("Fare: %v", err)
	}

	if short != 5000 || long != 5000 {
		t.Errorf("expected flat 5000 for hourly trips, got %v and %v", short, long)
	}
}

func TestFare_RejectsNegativeInput(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(DefaultFareConfig())

	if _, err := calc.Fare(-1, 10, domain.TripTypeNow); !errors.Is(err, ErrInvalidFareInput) {
		t.Errorf("expected ErrInvalidFareInput for negative distance, got %v", err)
	}
	if _, err := calc.Fare(5, -10, domain.TripTypeNow); !errors.Is(err, ErrInvalidFareInput) {
		t.Errorf("expected ErrInvalidFareInput for negative duration, got %v", err)
	}
}

func TestFare_RejectsUnknownTripType(t *testing.T) {
	t.Parallel()

	calc := NewFareCalculator(DefaultFareConfig())

	if _, err := calc.Fare(5, 15, "teleport"); !errors.Is(err, ErrInvalidTripType) {
		t.Errorf("expected ErrInvalidTripType, got %v", err)
	}
}

func TestFareConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultFareConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}

	bad := DefaultFareConfig()
	bad.PerKmRate = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative per-km rate")
	}

	bad = DefaultFareConfig()
	bad.CityMultiplier = 0.5
	if err := bad.Validate(); err == nil {
		t.Error("expected error for sub-1 city multiplier")
	}

	bad = DefaultFareConfig()
	bad.HourlyRate = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero hourly rate")
	}
}

func TestRoute_HaversineDistanceAndDuration(t *testing.T) {
	t.Parallel()

	routes := NewHaversineRouteProvider()

	// Libreville centre to the airport, roughly 7.6 km apart.
	a := domain.Location{Lat: 0.4162, Lng: 9.4673}
	b := domain.Location{Lat: 0.4586, Lng: 9.4128}

	route, err := routes.DistanceAndDuration(a, b)
	if err != nil {
		t.Fatalf("DistanceAndDuration: %v", err)
	}

	if route.DistanceKm <= 0 {
		t.Fatalf("expected positive distance, got %v", route.DistanceKm)
	}
	// Distance is rounded to two decimals.
	if rounded := math.Round(route.DistanceKm*100) / 100; rounded != route.DistanceKm {
		t.Errorf("distance %v not rounded to two decimals", route.DistanceKm)
	}
	if want := math.Round(route.DistanceKm * 3); route.DurationMin != want {
		t.Errorf("expected duration %v (3 min/km), got %v", want, route.DurationMin)
	}
}

func TestRoute_ZeroDistanceForSamePoint(t *testing.T) {
	t.Parallel()

	routes := NewHaversineRouteProvider()
	loc := domain.Location{Lat: 0.4162, Lng: 9.4673}

	route, err := routes.DistanceAndDuration(loc, loc)
	if err != nil {
		t.Fatalf("DistanceAndDuration: %v", err)
	}
	if route.DistanceKm != 0 || route.DurationMin != 0 {
		t.Errorf("expected zero route, got %+v", route)
	}
}
