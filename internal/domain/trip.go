package domain

import "time"

// TripType represents the kind of ride being requested.
type TripType string

const (
	TripTypeNow      TripType = "now"
	TripTypeSchedule TripType = "schedule"
	TripTypeCity     TripType = "city"
	TripTypeHourly   TripType = "hourly"
)

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusRequested  TripStatus = "requested"
	TripStatusMatched    TripStatus = "matched"
	TripStatusInProgress TripStatus = "in_progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// Terminal reports whether the status ends the trip lifecycle.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// tripStatusRank orders statuses along the forward-only lifecycle.
var tripStatusRank = map[TripStatus]int{
	TripStatusRequested:  0,
	TripStatusMatched:    1,
	TripStatusInProgress: 2,
	TripStatusCompleted:  3,
	TripStatusCancelled:  3,
}

// CanTransition reports whether a trip may move from one status to another.
// Transitions are forward-only and terminal statuses accept no successor.
func CanTransition(from, to TripStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == TripStatusCancelled {
		// Cancellation is allowed from any non-terminal state,
		// including a ride already underway.
		return true
	}
	return tripStatusRank[to] == tripStatusRank[from]+1
}

// Location is a named point on the map.
type Location struct {
	Address string
	Lat     float64
	Lng     float64
}

// Driver represents the driver assigned to a trip.
type Driver struct {
	Name   string
	Rating float64
	Phone  string
}

// Trip represents one ride request and its lifecycle record.
type Trip struct {
	ID            string
	Pickup        Location
	Destination   Location
	Type          TripType
	Status        TripStatus
	Fare          float64 // quoted at creation, final once completed
	Driver        *Driver // nil until matched
	PaymentKind   PaymentKind
	CancelReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateTripType reports whether the given string is a known trip type.
func ValidateTripType(t string) (TripType, bool) {
	switch TripType(t) {
	case TripTypeNow, TripTypeSchedule, TripTypeCity, TripTypeHourly:
		return TripType(t), true
	case "":
		return TripTypeNow, true
	default:
		return "", false
	}
}
