package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/redis"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
)

const (
	walletLockTTL      = 5 * time.Second
	defaultTxnPageSize = 20
	maxTxnPageSize     = 100
)

// WalletService owns the balance and transaction history for one wallet.
type WalletService struct {
	walletID            string
	walletRepo          repository.WalletRepository
	lockStore           redis.LockStoreInterface
	gateway             PaymentGateway
	notificationService *NotificationService
}

// NewWalletService creates a new WalletService.
func NewWalletService(
	walletID string,
	walletRepo repository.WalletRepository,
	lockStore redis.LockStoreInterface,
	gateway PaymentGateway,
	notificationService *NotificationService,
) *WalletService {
	return &WalletService{
		walletID:            walletID,
		walletRepo:          walletRepo,
		lockStore:           lockStore,
		gateway:             gateway,
		notificationService: notificationService,
	}
}

// Balance returns the current wallet balance.
func (s *WalletService) Balance(ctx context.Context) (float64, error) {
	return s.walletRepo.Balance(ctx)
}

// Transactions returns ledger entries newest first, paginated.
func (s *WalletService) Transactions(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultTxnPageSize
	}
	if limit > maxTxnPageSize {
		limit = maxTxnPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.walletRepo.Transactions(ctx, limit, offset)
}

// DebitRequest contains the parameters for a wallet debit.
type DebitRequest struct {
	Amount      float64
	Description string
	Reference   string
}

// Debit removes funds from the wallet. A debit that would drive the
// balance negative fails with ErrInsufficientBalance and leaves both the
// balance and the ledger unchanged.
func (s *WalletService) Debit(ctx context.Context, req DebitRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	txn := newTransaction(domain.TransactionDebit, req.Amount, req.Description, req.Reference)
	if err := s.walletRepo.Debit(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	return txn, nil
}

// CreditRequest contains the parameters for a wallet credit.
type CreditRequest struct {
	Amount      float64
	Description string
	Reference   string
}

// Credit adds funds to the wallet. No upper bound is enforced.
func (s *WalletService) Credit(ctx context.Context, req CreditRequest) (*domain.Transaction, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	txn := newTransaction(domain.TransactionCredit, req.Amount, req.Description, req.Reference)
	if err := s.walletRepo.Credit(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// TopUpRequest contains the parameters for a wallet top-up.
type TopUpRequest struct {
	Amount float64
	Kind   domain.PaymentKind
}

// TopUpResult is the outcome of a successful top-up.
type TopUpResult struct {
	Transaction *domain.Transaction
	GatewayRef  string
}

// TopUp charges the external payment method and credits the wallet.
// Failures surface as typed errors so callers can tell a gateway decline
// (ErrPaymentFailed) from a ledger problem; a declined top-up is recorded
// as a failed credit entry that never touches the balance.
func (s *WalletService) TopUp(ctx context.Context, req TopUpRequest) (*TopUpResult, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, ok := domain.ValidateMethodKind(string(req.Kind)); !ok {
		return nil, ErrInvalidPaymentMethod
	}

	description := fmt.Sprintf("Wallet Top-up (%s)", req.Kind)

	charge, err := s.gateway.TopUp(ctx, req.Amount, req.Kind)
	if err != nil {
		if errors.Is(err, ErrPaymentFailed) {
			failed := newTransaction(domain.TransactionCredit, req.Amount, description, "")
			failed.Status = domain.TransactionFailed
			_ = s.walletRepo.Record(ctx, failed)
			if s.notificationService != nil {
				_ = s.notificationService.NotifyTopUpFailed(ctx, req.Amount, req.Kind)
			}
		}
		return nil, err
	}

	txn, err := s.Credit(ctx, CreditRequest{
		Amount:      req.Amount,
		Description: description,
		Reference:   charge.TransactionID,
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTopUpCompleted(ctx, txn)
	}

	return &TopUpResult{
		Transaction: txn,
		GatewayRef:  charge.TransactionID,
	}, nil
}

// Summary aggregates ledger activity over a trailing period.
func (s *WalletService) Summary(ctx context.Context, period domain.SummaryPeriod) (*domain.WalletSummary, error) {
	switch period {
	case domain.PeriodWeek, domain.PeriodMonth, domain.PeriodYear:
	case "":
		period = domain.PeriodMonth
	default:
		return nil, ErrInvalidPeriod
	}

	balance, err := s.walletRepo.Balance(ctx)
	if err != nil {
		return nil, err
	}

	txns, err := s.walletRepo.TransactionsSince(ctx, period.PeriodStart(time.Now()))
	if err != nil {
		return nil, err
	}

	summary := &domain.WalletSummary{CurrentBalance: balance}
	for _, txn := range txns {
		summary.TransactionCount++
		if txn.Status != domain.TransactionCompleted {
			continue
		}
		switch txn.Kind {
		case domain.TransactionCredit:
			summary.PeriodCredits += txn.Amount
		case domain.TransactionDebit:
			summary.PeriodDebits += txn.Amount
		}
	}
	summary.NetChange = summary.PeriodCredits - summary.PeriodDebits

	return summary, nil
}

// lock serializes wallet mutations across processes. A nil lock store
// (tests, single instance deployments) is a no-op.
func (s *WalletService) lock(ctx context.Context) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireWalletLock(ctx, s.walletID, walletLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrWalletBusy
	}

	return func() {
		_ = s.lockStore.ReleaseWalletLock(context.Background(), s.walletID)
	}, nil
}

func newTransaction(kind domain.TransactionKind, amount float64, description, reference string) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.New().String(),
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Reference:   reference,
		Status:      domain.TransactionCompleted,
		CreatedAt:   time.Now(),
	}
}
