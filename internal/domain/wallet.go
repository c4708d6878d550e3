package domain

import "time"

// TransactionKind represents the direction of a wallet transaction.
type TransactionKind string

const (
	TransactionCredit TransactionKind = "credit"
	TransactionDebit  TransactionKind = "debit"
)

// TransactionStatus represents the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one immutable entry in the wallet ledger.
type Transaction struct {
	ID          string
	Kind        TransactionKind
	Amount      float64
	Description string
	Reference   string
	Status      TransactionStatus
	CreatedAt   time.Time
}

// SummaryPeriod selects the trailing window for a wallet summary.
type SummaryPeriod string

const (
	PeriodWeek  SummaryPeriod = "week"
	PeriodMonth SummaryPeriod = "month"
	PeriodYear  SummaryPeriod = "year"
)

// PeriodStart returns the start of the trailing window ending at now.
func (p SummaryPeriod) PeriodStart(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// WalletSummary aggregates ledger activity over a trailing period.
type WalletSummary struct {
	CurrentBalance   float64
	PeriodCredits    float64
	PeriodDebits     float64
	NetChange        float64
	TransactionCount int
}
