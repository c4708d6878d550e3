package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, pickup_address, pickup_lat, pickup_lng, destination_address, destination_lat, destination_lng, type, status, fare, driver_name, driver_rating, driver_phone, payment_kind, cancel_reason, created_at, updated_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	driverName, driverRating, driverPhone := driverFields(trip.Driver)

	var cancelReason sql.NullString
	if trip.CancelReason != "" {
		cancelReason = sql.NullString{String: trip.CancelReason, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.Pickup.Address,
		trip.Pickup.Lat,
		trip.Pickup.Lng,
		trip.Destination.Address,
		trip.Destination.Lat,
		trip.Destination.Lng,
		trip.Type,
		trip.Status,
		trip.Fare,
		driverName,
		driverRating,
		driverPhone,
		trip.PaymentKind,
		cancelReason,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// List retrieves trips newest first, optionally filtered by status.
func (r *TripRepository) List(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET status = $1, fare = $2, driver_name = $3, driver_rating = $4, driver_phone = $5, payment_kind = $6, cancel_reason = $7, updated_at = $8
		WHERE id = $9
	`

	driverName, driverRating, driverPhone := driverFields(trip.Driver)

	var cancelReason sql.NullString
	if trip.CancelReason != "" {
		cancelReason = sql.NullString{String: trip.CancelReason, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		trip.Status,
		trip.Fare,
		driverName,
		driverRating,
		driverPhone,
		trip.PaymentKind,
		cancelReason,
		trip.UpdatedAt,
		trip.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateIfStatus updates the trip only while its stored status equals
// from. The status guard in the WHERE clause makes the check-and-write
// atomic; zero affected rows means another writer got there first.
func (r *TripRepository) UpdateIfStatus(ctx context.Context, trip *domain.Trip, from domain.TripStatus) (bool, error) {
	query := `
		UPDATE trips
		SET status = $1, fare = $2, driver_name = $3, driver_rating = $4, driver_phone = $5, payment_kind = $6, cancel_reason = $7, updated_at = $8
		WHERE id = $9 AND status = $10
	`

	driverName, driverRating, driverPhone := driverFields(trip.Driver)

	var cancelReason sql.NullString
	if trip.CancelReason != "" {
		cancelReason = sql.NullString{String: trip.CancelReason, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		trip.Status,
		trip.Fare,
		driverName,
		driverRating,
		driverPhone,
		trip.PaymentKind,
		cancelReason,
		trip.UpdatedAt,
		trip.ID,
		from,
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var trip domain.Trip
	var driverName, driverPhone, cancelReason sql.NullString
	var driverRating sql.NullFloat64

	err := s.Scan(
		&trip.ID,
		&trip.Pickup.Address,
		&trip.Pickup.Lat,
		&trip.Pickup.Lng,
		&trip.Destination.Address,
		&trip.Destination.Lat,
		&trip.Destination.Lng,
		&trip.Type,
		&trip.Status,
		&trip.Fare,
		&driverName,
		&driverRating,
		&driverPhone,
		&trip.PaymentKind,
		&cancelReason,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverName.Valid {
		trip.Driver = &domain.Driver{
			Name:   driverName.String,
			Rating: driverRating.Float64,
			Phone:  driverPhone.String,
		}
	}
	if cancelReason.Valid {
		trip.CancelReason = cancelReason.String
	}

	return &trip, nil
}

func driverFields(d *domain.Driver) (sql.NullString, sql.NullFloat64, sql.NullString) {
	if d == nil {
		return sql.NullString{}, sql.NullFloat64{}, sql.NullString{}
	}
	return sql.NullString{String: d.Name, Valid: true},
		sql.NullFloat64{Float64: d.Rating, Valid: true},
		sql.NullString{String: d.Phone, Valid: true}
}
