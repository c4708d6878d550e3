package service

import (
	"errors"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// FareConfig holds the tunable fare constants. Amounts are whole CFA units.
type FareConfig struct {
	BaseFare       float64
	PerKmRate      float64
	PerMinRate     float64
	MinFare        float64
	CityMultiplier float64
	HourlyRate     float64
}

// DefaultFareConfig returns the standard fare table.
func DefaultFareConfig() FareConfig {
	return FareConfig{
		BaseFare:       1500,
		PerKmRate:      350,
		PerMinRate:     50,
		MinFare:        2000,
		CityMultiplier: 1.5,
		HourlyRate:     5000,
	}
}

// Validate checks the config for unusable values.
func (c FareConfig) Validate() error {
	switch {
	case c.BaseFare < 0 || c.PerKmRate < 0 || c.PerMinRate < 0:
		return errors.New("fare rates must be non-negative")
	case c.MinFare < 0:
		return errors.New("minimum fare must be non-negative")
	case c.CityMultiplier < 1:
		return errors.New("city multiplier must be at least 1")
	case c.HourlyRate <= 0:
		return errors.New("hourly rate must be positive")
	}
	return nil
}

// FareCalculator maps route distance/duration and trip type to a fare.
type FareCalculator struct {
	cfg FareConfig
}

// NewFareCalculator creates a FareCalculator with the given config.
func NewFareCalculator(cfg FareConfig) *FareCalculator {
	return &FareCalculator{cfg: cfg}
}

// Config returns the fare table in use.
func (f *FareCalculator) Config() FareConfig {
	return f.cfg
}

// Multiplier returns the surge multiplier applied for a trip type.
func (f *FareCalculator) Multiplier(tripType domain.TripType) float64 {
	if tripType == domain.TripTypeCity {
		return f.cfg.CityMultiplier
	}
	return 1.0
}

// Fare computes the fare for a route. Distance is in kilometers, duration
// in minutes. Hourly trips ignore the route entirely. The result is floored
// at the configured minimum fare.
func (f *FareCalculator) Fare(distanceKm, durationMin float64, tripType domain.TripType) (float64, error) {
	if distanceKm < 0 || durationMin < 0 {
		return 0, ErrInvalidFareInput
	}

	switch tripType {
	case domain.TripTypeNow, domain.TripTypeSchedule, domain.TripTypeCity:
	case domain.TripTypeHourly:
		return f.cfg.HourlyRate, nil
	default:
		return 0, ErrInvalidTripType
	}

	fare := f.cfg.BaseFare + distanceKm*f.cfg.PerKmRate + durationMin*f.cfg.PerMinRate
	fare *= f.Multiplier(tripType)

	if fare < f.cfg.MinFare {
		return f.cfg.MinFare, nil
	}

	return fare, nil
}
