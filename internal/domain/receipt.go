package domain

import "time"

// Receipt is the fare breakdown document for a completed trip.
type Receipt struct {
	ID              string
	TripID          string
	Pickup          Location
	Destination     Location
	BaseFare        float64
	DistanceCharge  float64
	DurationCharge  float64
	SurgeMultiplier float64
	SurgeAmount     float64
	TotalFare       float64
	DistanceKm      float64
	DurationMin     float64
	PaymentKind     PaymentKind
	PaymentStatus   TransactionStatus
	CreatedAt       time.Time
}
