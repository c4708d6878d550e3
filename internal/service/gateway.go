package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
)

// GatewayOperation identifies a gateway call for outcome decisions.
type GatewayOperation string

const (
	OpCharge GatewayOperation = "charge"
	OpTopUp  GatewayOperation = "topup"
)

// Decider decides the outcome of a simulated gateway call. Tests supply a
// fixed decider to force either branch.
type Decider interface {
	Approve(op GatewayOperation) bool
}

// RandDecider approves calls with a fixed probability per operation.
type RandDecider struct {
	mu         sync.Mutex
	rnd        *rand.Rand
	chargeRate float64
	topUpRate  float64
}

// NewRandDecider creates a RandDecider with the given success rates.
func NewRandDecider(chargeRate, topUpRate float64, seed int64) *RandDecider {
	return &RandDecider{
		rnd:        rand.New(rand.NewSource(seed)),
		chargeRate: chargeRate,
		topUpRate:  topUpRate,
	}
}

// Approve implements Decider.
func (d *RandDecider) Approve(op GatewayOperation) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	rate := d.chargeRate
	if op == OpTopUp {
		rate = d.topUpRate
	}
	return d.rnd.Float64() < rate
}

// ApproveAll is a Decider that approves everything.
type ApproveAll struct{}

func (ApproveAll) Approve(GatewayOperation) bool { return true }

// ChargeResult is the outcome of a successful gateway charge or top-up.
type ChargeResult struct {
	TransactionID string
	Amount        float64
	Currency      string
	Status        domain.TransactionStatus
}

// MobileMoneyPrompt is the first phase of a mobile money charge: the
// provider asks the customer for their PIN.
type MobileMoneyPrompt struct {
	TransactionRef string
	Message        string
	RequiresPin    bool
	Amount         float64
}

// PaymentGateway is the narrow interface the core depends on. The stub and
// a real mobile-money/card integration both implement it.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, methodID, reference string) (*ChargeResult, error)
	TopUp(ctx context.Context, amount float64, kind domain.PaymentKind) (*ChargeResult, error)
	ChargeMobileMoney(ctx context.Context, provider, phone string, amount float64) (*MobileMoneyPrompt, error)
	ConfirmMobileMoney(ctx context.Context, transactionRef, pin string) (*ChargeResult, error)
}

// StubGateway simulates a payment gateway. Outcomes come from the injected
// Decider, never from the ledger.
type StubGateway struct {
	decider Decider

	mu      sync.Mutex
	pending map[string]float64 // mobile money ref -> amount
}

// NewStubGateway creates a StubGateway with the given decider.
func NewStubGateway(decider Decider) *StubGateway {
	return &StubGateway{
		decider: decider,
		pending: make(map[string]float64),
	}
}

// Charge simulates charging a stored payment method.
func (g *StubGateway) Charge(ctx context.Context, amount float64, methodID, reference string) (*ChargeResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if !g.decider.Approve(OpCharge) {
		return nil, ErrPaymentFailed
	}

	return &ChargeResult{
		TransactionID: "txn_" + uuid.New().String(),
		Amount:        amount,
		Currency:      "CFA",
		Status:        domain.TransactionCompleted,
	}, nil
}

// TopUp simulates funding the wallet from an external method.
func (g *StubGateway) TopUp(ctx context.Context, amount float64, kind domain.PaymentKind) (*ChargeResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if !g.decider.Approve(OpTopUp) {
		return nil, ErrPaymentFailed
	}

	return &ChargeResult{
		TransactionID: "topup_" + uuid.New().String(),
		Amount:        amount,
		Currency:      "CFA",
		Status:        domain.TransactionCompleted,
	}, nil
}

// pinPrompts maps mobile money providers to their PIN entry messages.
var pinPrompts = map[string]string{
	"mpesa":  "Enter your M-Pesa PIN",
	"mtn":    "Enter your MTN MoMo PIN",
	"airtel": "Enter your Airtel Money PIN",
}

// ChargeMobileMoney starts a two-phase mobile money charge and returns the
// PIN prompt.
func (g *StubGateway) ChargeMobileMoney(ctx context.Context, provider, phone string, amount float64) (*MobileMoneyPrompt, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	message, ok := pinPrompts[provider]
	if !ok {
		message = "Enter your PIN"
	}

	ref := fmt.Sprintf("mm_%s", uuid.New().String())

	g.mu.Lock()
	g.pending[ref] = amount
	g.mu.Unlock()

	return &MobileMoneyPrompt{
		TransactionRef: ref,
		Message:        message,
		RequiresPin:    true,
		Amount:         amount,
	}, nil
}

// ConfirmMobileMoney completes a two-phase charge. The stub accepts any PIN
// of at least four characters.
func (g *StubGateway) ConfirmMobileMoney(ctx context.Context, transactionRef, pin string) (*ChargeResult, error) {
	g.mu.Lock()
	amount, ok := g.pending[transactionRef]
	g.mu.Unlock()

	if !ok {
		return nil, ErrUnknownTransactionRef
	}

	if len(pin) < 4 {
		return nil, ErrInvalidCredential
	}

	g.mu.Lock()
	delete(g.pending, transactionRef)
	g.mu.Unlock()

	return &ChargeResult{
		TransactionID: transactionRef,
		Amount:        amount,
		Currency:      "CFA",
		Status:        domain.TransactionCompleted,
	}, nil
}

// Ensure StubGateway implements PaymentGateway.
var _ PaymentGateway = (*StubGateway)(nil)
