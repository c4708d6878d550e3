package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
)

// PaymentMethodRepository is a PostgreSQL implementation of
// repository.PaymentMethodRepository.
type PaymentMethodRepository struct {
	db *sql.DB
	q  Querier
}

// NewPaymentMethodRepository creates a new PostgreSQL payment method repository.
func NewPaymentMethodRepository(db *sql.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db, q: db}
}

// Create persists a new payment method. A default method demotes the
// previous default inside one transaction.
func (r *PaymentMethodRepository) Create(ctx context.Context, method *domain.PaymentMethod) error {
	insert := `
		INSERT INTO payment_methods (id, kind, provider, alias, is_default)
		VALUES ($1, $2, $3, $4, $5)
	`

	if !method.IsDefault || r.db == nil {
		_, err := r.q.ExecContext(ctx, insert,
			method.ID, method.Kind, method.Provider, method.Alias, method.IsDefault)
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE payment_methods SET is_default = FALSE WHERE is_default`); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, insert,
		method.ID, method.Kind, method.Provider, method.Alias, true); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a payment method by ID.
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	var method domain.PaymentMethod
	err := r.q.QueryRowContext(ctx,
		`SELECT id, kind, provider, alias, is_default FROM payment_methods WHERE id = $1`, id,
	).Scan(&method.ID, &method.Kind, &method.Provider, &method.Alias, &method.IsDefault)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &method, nil
}

// GetAll retrieves all payment methods, default first.
func (r *PaymentMethodRepository) GetAll(ctx context.Context) ([]*domain.PaymentMethod, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, kind, provider, alias, is_default FROM payment_methods ORDER BY is_default DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []*domain.PaymentMethod
	for rows.Next() {
		var method domain.PaymentMethod
		if err := rows.Scan(&method.ID, &method.Kind, &method.Provider, &method.Alias, &method.IsDefault); err != nil {
			return nil, err
		}
		methods = append(methods, &method)
	}
	return methods, rows.Err()
}

// Count returns the number of stored methods.
func (r *PaymentMethodRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM payment_methods`).Scan(&count)
	return count, err
}
