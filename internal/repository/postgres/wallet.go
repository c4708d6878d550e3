package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of
// repository.WalletRepository for a single wallet.
//
// When constructed with a *sql.DB, Credit and Debit wrap the balance update
// and the ledger insert in their own transaction. When constructed with an
// existing *sql.Tx, they run inside the caller's transaction.
type WalletRepository struct {
	db       *sql.DB // nil when transaction-scoped
	q        Querier
	walletID string
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB, walletID string) *WalletRepository {
	return &WalletRepository{db: db, q: db, walletID: walletID}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx, walletID string) *WalletRepository {
	return &WalletRepository{q: tx, walletID: walletID}
}

// Balance returns the current wallet balance.
func (r *WalletRepository) Balance(ctx context.Context) (float64, error) {
	var balance float64
	err := r.q.QueryRowContext(ctx,
		`SELECT balance FROM wallets WHERE id = $1`, r.walletID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

const transactionColumns = `id, wallet_id, kind, amount, description, reference, status, created_at`

// Transactions retrieves ledger entries newest first, paginated.
func (r *WalletRepository) Transactions(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, query, r.walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// TransactionsSince retrieves entries at or after the given time, newest first.
func (r *WalletRepository) TransactionsSince(ctx context.Context, since time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE wallet_id = $1 AND created_at >= $2 ORDER BY created_at DESC
	`
	rows, err := r.q.QueryContext(ctx, query, r.walletID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Credit increments the balance and appends the entry atomically.
func (r *WalletRepository) Credit(ctx context.Context, txn *domain.Transaction) error {
	return r.apply(ctx, txn, func(ctx context.Context, scoped *WalletRepository) error {
		result, err := scoped.q.ExecContext(ctx,
			`UPDATE wallets SET balance = balance + $1 WHERE id = $2`,
			txn.Amount, scoped.walletID,
		)
		if err != nil {
			return err
		}
		return checkWalletUpdated(result)
	})
}

// Debit decrements the balance and appends the entry atomically. The
// conditional update keeps the balance from going negative without a
// separate read.
func (r *WalletRepository) Debit(ctx context.Context, txn *domain.Transaction) error {
	return r.apply(ctx, txn, func(ctx context.Context, scoped *WalletRepository) error {
		result, err := scoped.q.ExecContext(ctx,
			`UPDATE wallets SET balance = balance - $1 WHERE id = $2 AND balance >= $1`,
			txn.Amount, scoped.walletID,
		)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			// Distinguish a missing wallet from insufficient funds.
			if _, err := scoped.Balance(ctx); err != nil {
				return err
			}
			return repository.ErrInsufficientBalance
		}
		return nil
	})
}

// Record appends a ledger entry without touching the balance.
func (r *WalletRepository) Record(ctx context.Context, txn *domain.Transaction) error {
	return r.insertTransaction(ctx, r.q, txn)
}

// apply runs the balance mutation and the ledger insert, wrapping them in a
// transaction when the repository owns the DB handle.
func (r *WalletRepository) apply(ctx context.Context, txn *domain.Transaction, mutate func(context.Context, *WalletRepository) error) error {
	if r.db == nil {
		if err := mutate(ctx, r); err != nil {
			return err
		}
		return r.insertTransaction(ctx, r.q, txn)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	scoped := &WalletRepository{q: tx, walletID: r.walletID}
	if err := mutate(ctx, scoped); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := r.insertTransaction(ctx, tx, txn); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *WalletRepository) insertTransaction(ctx context.Context, q Querier, txn *domain.Transaction) error {
	query := `
		INSERT INTO wallet_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var reference sql.NullString
	if txn.Reference != "" {
		reference = sql.NullString{String: txn.Reference, Valid: true}
	}

	_, err := q.ExecContext(ctx, query,
		txn.ID,
		r.walletID,
		txn.Kind,
		txn.Amount,
		txn.Description,
		reference,
		txn.Status,
		txn.CreatedAt,
	)
	return err
}

func collectTransactions(rows *sql.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var walletID string
		var reference sql.NullString
		if err := rows.Scan(
			&txn.ID,
			&walletID,
			&txn.Kind,
			&txn.Amount,
			&txn.Description,
			&reference,
			&txn.Status,
			&txn.CreatedAt,
		); err != nil {
			return nil, err
		}
		if reference.Valid {
			txn.Reference = reference.String
		}
		txns = append(txns, &txn)
	}
	return txns, rows.Err()
}

func checkWalletUpdated(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
