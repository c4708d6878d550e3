package repository

import (
	"context"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// PaymentMethodRepository defines the persistence operations for stored
// payment methods.
type PaymentMethodRepository interface {
	// Create persists a new payment method. When the method is marked as
	// default, the previous default is cleared in the same operation.
	Create(ctx context.Context, method *domain.PaymentMethod) error

	// GetByID retrieves a payment method by ID.
	GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error)

	// GetAll retrieves all payment methods, default first.
	GetAll(ctx context.Context) ([]*domain.PaymentMethod, error)

	// Count returns the number of stored methods.
	Count(ctx context.Context) (int, error)
}
