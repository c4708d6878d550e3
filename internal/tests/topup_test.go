package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// ──────────────────────────────────────────────
// TOP-UP AND GATEWAY
// ──────────────────────────────────────────────

func TestTopUp_ApprovedChargeCreditsWallet(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository(1000)
	gateway := service.NewStubGateway(FixedDecider{ApproveTopUp: true})
	svc := newWalletService(walletRepo, gateway)

	result, err := svc.TopUp(context.Background(), service.TopUpRequest{
		Amount: 5000,
		Kind:   domain.PaymentKindMobileMoney,
	})
	if err != nil {
		t.Fatalf("TopUp: %v", err)
	}

	if result.GatewayRef == "" {
		t.Error("expected a gateway reference")
	}
	if result.Transaction.Kind != domain.TransactionCredit {
		t.Errorf("expected credit entry, got %q", result.Transaction.Kind)
	}
	if result.Transaction.Reference != result.GatewayRef {
		t.Errorf("expected ledger entry to reference the gateway charge, got %q", result.Transaction.Reference)
	}

	balance, _ := walletRepo.Balance(context.Background())
	if balance != 6000 {
		t.Errorf("expected balance 6000, got %v", balance)
	}
}

func TestTopUp_DeclinedChargeRecordsFailedEntry(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository(1000)
	gateway := service.NewStubGateway(FixedDecider{ApproveTopUp: false})
	svc := newWalletService(walletRepo, gateway)

	_, err := svc.TopUp(context.Background(), service.TopUpRequest{
		Amount: 5000,
		Kind:   domain.PaymentKindCard,
	})
	if !errors.Is(err, service.ErrPaymentFailed) {
		t.Fatalf("expected ErrPaymentFailed, got %v", err)
	}

	balance, _ := walletRepo.Balance(context.Background())
	if balance != 1000 {
		t.Errorf("expected untouched balance 1000, got %v", balance)
	}

	entry := walletRepo.LastEntry()
	if entry == nil {
		t.Fatal("expected a failed credit entry in the ledger")
	}
	if entry.Status != domain.TransactionFailed || entry.Kind != domain.TransactionCredit {
		t.Errorf("expected failed credit, got %q %q", entry.Kind, entry.Status)
	}
}

func TestTopUp_RejectsUnknownPaymentKind(t *testing.T) {
	t.Parallel()

	svc := newWalletService(NewMockWalletRepository(0), service.NewStubGateway(service.ApproveAll{}))

	_, err := svc.TopUp(context.Background(), service.TopUpRequest{
		Amount: 5000,
		Kind:   "barter",
	})
	if !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}

	// Wallet cannot fund itself.
	_, err = svc.TopUp(context.Background(), service.TopUpRequest{
		Amount: 5000,
		Kind:   domain.PaymentKindWallet,
	})
	if !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod for wallet kind, got %v", err)
	}
}

func TestMobileMoney_TwoPhaseCharge(t *testing.T) {
	t.Parallel()

	gateway := service.NewStubGateway(service.ApproveAll{})
	ctx := context.Background()

	prompt, err := gateway.ChargeMobileMoney(ctx, "mtn", "+241 06 11 22 33", 8000)
	if err != nil {
		t.Fatalf("ChargeMobileMoney: %v", err)
	}
	if !prompt.RequiresPin {
		t.Error("expected PIN requirement")
	}
	if !strings.Contains(prompt.Message, "MTN") {
		t.Errorf("expected provider-specific prompt, got %q", prompt.Message)
	}

	result, err := gateway.ConfirmMobileMoney(ctx, prompt.TransactionRef, "1234")
	if err != nil {
		t.Fatalf("ConfirmMobileMoney: %v", err)
	}
	if result.Amount != 8000 {
		t.Errorf("expected amount 8000, got %v", result.Amount)
	}
	if result.Status != domain.TransactionCompleted {
		t.Errorf("expected completed charge, got %q", result.Status)
	}

	// The reference is consumed on confirmation.
	if _, err := gateway.ConfirmMobileMoney(ctx, prompt.TransactionRef, "1234"); !errors.Is(err, service.ErrUnknownTransactionRef) {
		t.Errorf("expected ErrUnknownTransactionRef on replay, got %v", err)
	}
}

func TestMobileMoney_RejectsShortPin(t *testing.T) {
	t.Parallel()

	gateway := service.NewStubGateway(service.ApproveAll{})
	ctx := context.Background()

	prompt, err := gateway.ChargeMobileMoney(ctx, "airtel", "+241 06 44 55 66", 3000)
	if err != nil {
		t.Fatalf("ChargeMobileMoney: %v", err)
	}

	if _, err := gateway.ConfirmMobileMoney(ctx, prompt.TransactionRef, "99"); !errors.Is(err, service.ErrInvalidCredential) {
		t.Errorf("expected ErrInvalidCredential, got %v", err)
	}

	// A rejected PIN leaves the charge pending for another attempt.
	if _, err := gateway.ConfirmMobileMoney(ctx, prompt.TransactionRef, "4321"); err != nil {
		t.Errorf("expected retry to succeed, got %v", err)
	}
}

func TestMobileMoney_UnknownReference(t *testing.T) {
	t.Parallel()

	gateway := service.NewStubGateway(service.ApproveAll{})

	_, err := gateway.ConfirmMobileMoney(context.Background(), "mm_missing", "1234")
	if !errors.Is(err, service.ErrUnknownTransactionRef) {
		t.Errorf("expected ErrUnknownTransactionRef, got %v", err)
	}
}

// ──────────────────────────────────────────────
// PAYMENT METHODS
// ──────────────────────────────────────────────

func TestPaymentMethods_FirstMethodBecomesDefault(t *testing.T) {
	t.Parallel()

	methodRepo := NewMockPaymentMethodRepository()
	svc := service.NewPaymentMethodService(methodRepo)
	ctx := context.Background()

	first, err := svc.AddMethod(ctx, service.AddMethodRequest{
		Kind:     string(domain.PaymentKindMobileMoney),
		Provider: "mtn",
		Alias:    "*****4567",
	})
	if err != nil {
		t.Fatalf("AddMethod: %v", err)
	}
	if !first.IsDefault {
		t.Error("expected the first method to become the default")
	}

	second, err := svc.AddMethod(ctx, service.AddMethodRequest{
		Kind:     string(domain.PaymentKindCard),
		Provider: "visa",
		Alias:    "*****1111",
		Default:  true,
	})
	if err != nil {
		t.Fatalf("AddMethod: %v", err)
	}
	if !second.IsDefault {
		t.Error("expected the second method to take over the default")
	}

	methods, err := svc.ListMethods(ctx)
	if err != nil {
		t.Fatalf("ListMethods: %v", err)
	}
	if len(methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(methods))
	}
	if !methods[0].IsDefault {
		t.Error("expected the default method listed first")
	}
	if methods[0].ID == methods[1].ID {
		t.Error("expected distinct methods")
	}
	if methods[1].IsDefault {
		t.Error("expected a single default method")
	}
}

func TestPaymentMethods_RejectsWalletKind(t *testing.T) {
	t.Parallel()

	svc := service.NewPaymentMethodService(NewMockPaymentMethodRepository())

	_, err := svc.AddMethod(context.Background(), service.AddMethodRequest{
		Kind:  string(domain.PaymentKindWallet),
		Alias: "wallet",
	})
	if !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}
