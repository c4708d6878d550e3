package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// ErrInsufficientBalance is returned when a debit exceeds the wallet balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// WalletRepository defines the persistence operations for the wallet ledger.
//
// Credit and Debit mutate the balance and append the transaction atomically.
// A failed debit leaves both the balance and the ledger untouched.
type WalletRepository interface {
	// Balance returns the current wallet balance.
	Balance(ctx context.Context) (float64, error)

	// Transactions retrieves ledger entries sorted by date descending,
	// paginated by limit and offset.
	Transactions(ctx context.Context, limit, offset int) ([]*domain.Transaction, error)

	// TransactionsSince retrieves all ledger entries at or after the given
	// time, sorted by date descending.
	TransactionsSince(ctx context.Context, since time.Time) ([]*domain.Transaction, error)

	// Credit increments the balance and appends a completed credit entry.
	Credit(ctx context.Context, txn *domain.Transaction) error

	// Debit decrements the balance and appends a completed debit entry.
	// Returns ErrInsufficientBalance if the amount exceeds the balance.
	Debit(ctx context.Context, txn *domain.Transaction) error

	// Record appends a ledger entry without touching the balance. Used for
	// failed or pending transactions.
	Record(ctx context.Context, txn *domain.Transaction) error
}
