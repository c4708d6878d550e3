package repository

import (
	"context"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// List retrieves trips sorted by creation time descending, optionally
	// filtered by exact status. An empty status means no filtering.
	List(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// UpdateIfStatus updates the trip only while its stored status still
	// equals from. Returns false when the trip is gone or another writer
	// already moved it past from.
	UpdateIfStatus(ctx context.Context, trip *domain.Trip, from domain.TripStatus) (bool, error)
}
