package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// ──────────────────────────────────────────────
// TRIP LIFECYCLE
// ──────────────────────────────────────────────

// newTripService builds a TripService over mocks with the driver match left
// to be triggered manually. The parameters are interface-typed so callers
// can pass a plain nil for the pieces a test does not need.
func newTripService(tripRepo repository.TripRepository, walletRepo repository.WalletRepository) *service.TripService {
	fares := service.NewFareCalculator(service.DefaultFareConfig())
	routes := service.NewHaversineRouteProvider()
	return service.NewTripService(service.TripServiceDeps{
		WalletID:       "wallet-1",
		TripRepo:       tripRepo,
		WalletRepo:     walletRepo,
		Fares:          fares,
		Routes:         routes,
		Drivers:        service.NewStaticDriverPool(1, service.DefaultDrivers()...),
		ReceiptService: service.NewReceiptService(routes, fares),
		MatchDelay:     time.Hour,
	})
}

func libreville() (pickup, destination domain.Location) {
	pickup = domain.Location{Address: "Centre-ville, Libreville", Lat: 0.4162, Lng: 9.4673}
	destination = domain.Location{Address: "Aéroport Léon-Mba", Lat: 0.4586, Lng: 9.4123}
	return
}

func TestCreateTrip_StartsRequestedWithoutDriver(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
		Type:        domain.TripTypeNow,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	if trip.Status != domain.TripStatusRequested {
		t.Errorf("expected status %q, got %q", domain.TripStatusRequested, trip.Status)
	}
	if trip.Driver != nil {
		t.Error("expected no driver before matching")
	}
	if trip.Fare <= 0 {
		t.Errorf("expected a quoted fare, got %v", trip.Fare)
	}
	if trip.PaymentKind != domain.PaymentKindWallet {
		t.Errorf("expected default payment kind wallet, got %q", trip.PaymentKind)
	}
	if tripRepo.CountTrips() != 1 {
		t.Errorf("expected 1 stored trip, got %d", tripRepo.CountTrips())
	}
}

func TestCreateTrip_RejectsMissingEndpoints(t *testing.T) {
	t.Parallel()

	svc := newTripService(NewMockTripRepository(), nil)
	defer svc.Close()

	pickup, destination := libreville()

	_, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{Destination: destination})
	if !errors.Is(err, service.ErrMissingPickup) {
		t.Errorf("expected ErrMissingPickup, got %v", err)
	}

	_, err = svc.CreateTrip(context.Background(), service.CreateTripRequest{Pickup: pickup})
	if !errors.Is(err, service.ErrMissingDestination) {
		t.Errorf("expected ErrMissingDestination, got %v", err)
	}

	pickup.Lat = 91
	_, err = svc.CreateTrip(context.Background(), service.CreateTripRequest{Pickup: pickup, Destination: destination})
	if !errors.Is(err, service.ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestMatch_AssignsDriverToRequestedTrip(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match: %v", err)
	}

	matched, err := svc.GetTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if matched.Status != domain.TripStatusMatched {
		t.Errorf("expected status %q, got %q", domain.TripStatusMatched, matched.Status)
	}
	if matched.Driver == nil {
		t.Fatal("expected a driver after matching")
	}
	if matched.Driver.Name == "" || matched.Driver.Rating == 0 {
		t.Errorf("expected a populated driver, got %+v", matched.Driver)
	}
	if matched.Fare != trip.Fare {
		t.Errorf("fare changed during matching: %v -> %v", trip.Fare, matched.Fare)
	}
}

func TestMatch_NoOpWhenTripCancelledFirst(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	cancelled, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: trip.ID,
		Reason: "changed my mind",
	})
	if err != nil {
		t.Fatalf("CancelTrip: %v", err)
	}
	if cancelled.Status != domain.TripStatusCancelled {
		t.Fatalf("expected status %q, got %q", domain.TripStatusCancelled, cancelled.Status)
	}
	if cancelled.CancelReason != "changed my mind" {
		t.Errorf("expected cancel reason to be stored, got %q", cancelled.CancelReason)
	}

	// A match firing after cancellation must not resurrect the trip.
	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match after cancel: %v", err)
	}

	got, err := svc.GetTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.Status != domain.TripStatusCancelled {
		t.Errorf("match overwrote a cancelled trip: status %q", got.Status)
	}
	if got.Driver != nil {
		t.Error("cancelled trip must not gain a driver")
	}
}

// hookedTripRepository fires onRead once after the first successful
// GetByID, letting a test commit a concurrent write between a service's
// read and the write that follows it.
type hookedTripRepository struct {
	*MockTripRepository
	fired  int32
	onRead func()
}

func (r *hookedTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := r.MockTripRepository.GetByID(ctx, id)
	if err == nil && r.onRead != nil && atomic.CompareAndSwapInt32(&r.fired, 0, 1) {
		r.onRead()
	}
	return trip, err
}

func TestMatch_CancelDuringMatchKeepsTripCancelled(t *testing.T) {
	t.Parallel()

	tripRepo := &hookedTripRepository{MockTripRepository: NewMockTripRepository()}
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	// The cancellation lands after Match has read the trip but before it
	// writes the driver assignment back.
	tripRepo.onRead = func() {
		if _, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{
			TripID: trip.ID,
			Reason: "rider cancelled",
		}); err != nil {
			t.Errorf("CancelTrip: %v", err)
		}
	}

	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match: %v", err)
	}

	got, err := svc.GetTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.Status != domain.TripStatusCancelled {
		t.Errorf("stale match overwrote the cancellation: status %q", got.Status)
	}
	if got.Driver != nil {
		t.Errorf("cancelled trip must not gain a driver, got %+v", got.Driver)
	}
	if got.CancelReason != "rider cancelled" {
		t.Errorf("expected cancel reason to survive, got %q", got.CancelReason)
	}
}

func TestMatch_NoOpWhenTripMissing(t *testing.T) {
	t.Parallel()

	svc := newTripService(NewMockTripRepository(), nil)
	defer svc.Close()

	if err := svc.Match(context.Background(), "no-such-trip"); err != nil {
		t.Errorf("expected nil for a vanished trip, got %v", err)
	}
}

func TestStartTrip_RequiresMatchedStatus(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	// Still requested: cannot start.
	if _, err := svc.StartTrip(context.Background(), trip.ID); !errors.Is(err, service.ErrTripNotMatched) {
		t.Errorf("expected ErrTripNotMatched, got %v", err)
	}

	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match: %v", err)
	}

	started, err := svc.StartTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("StartTrip: %v", err)
	}
	if started.Status != domain.TripStatusInProgress {
		t.Errorf("expected status %q, got %q", domain.TripStatusInProgress, started.Status)
	}
}

func TestCancelTrip_AllowedWhileInProgress(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if _, err := svc.StartTrip(context.Background(), trip.ID); err != nil {
		t.Fatalf("StartTrip: %v", err)
	}

	cancelled, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: trip.ID,
		Reason: "rider asked to stop",
	})
	if err != nil {
		t.Fatalf("CancelTrip while in progress: %v", err)
	}
	if cancelled.Status != domain.TripStatusCancelled {
		t.Errorf("expected status %q, got %q", domain.TripStatusCancelled, cancelled.Status)
	}
	if cancelled.CancelReason != "rider asked to stop" {
		t.Errorf("expected cancel reason to be stored, got %q", cancelled.CancelReason)
	}

	// Terminal afterwards: the ride cannot still complete.
	if _, err := svc.CompleteTrip(context.Background(), trip.ID); !errors.Is(err, service.ErrTripNotInProgress) {
		t.Errorf("expected ErrTripNotInProgress on a cancelled trip, got %v", err)
	}
}

func TestCompleteTrip_RequiresInProgressStatus(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
		PaymentKind: domain.PaymentKindCash,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	if _, err := svc.CompleteTrip(context.Background(), trip.ID); !errors.Is(err, service.ErrTripNotInProgress) {
		t.Errorf("expected ErrTripNotInProgress, got %v", err)
	}

	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if _, err := svc.StartTrip(context.Background(), trip.ID); err != nil {
		t.Fatalf("StartTrip: %v", err)
	}

	resp, err := svc.CompleteTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("CompleteTrip: %v", err)
	}
	if resp.Trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected status %q, got %q", domain.TripStatusCompleted, resp.Trip.Status)
	}

	// Terminal: no further transitions.
	if _, err := svc.StartTrip(context.Background(), trip.ID); !errors.Is(err, service.ErrTripNotMatched) {
		t.Errorf("expected ErrTripNotMatched on a completed trip, got %v", err)
	}
	if _, err := svc.CancelTrip(context.Background(), service.CancelTripRequest{TripID: trip.ID}); !errors.Is(err, service.ErrTripNotCancellable) {
		t.Errorf("expected ErrTripNotCancellable on a completed trip, got %v", err)
	}
}

func TestCompleteTrip_WalletSettlementDebitsQuotedFare(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	walletRepo := NewMockWalletRepository(50000)
	svc := newTripService(tripRepo, walletRepo)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if _, err := svc.StartTrip(context.Background(), trip.ID); err != nil {
		t.Fatalf("StartTrip: %v", err)
	}

	resp, err := svc.CompleteTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("CompleteTrip: %v", err)
	}

	if resp.Payment == nil {
		t.Fatal("expected a settlement transaction")
	}
	if resp.Payment.Status != domain.TransactionCompleted {
		t.Errorf("expected completed payment, got %q", resp.Payment.Status)
	}
	if resp.Payment.Amount != trip.Fare {
		t.Errorf("settled %v, quoted %v", resp.Payment.Amount, trip.Fare)
	}
	if resp.Payment.Reference != trip.ID {
		t.Errorf("expected payment reference %q, got %q", trip.ID, resp.Payment.Reference)
	}

	balance, _ := walletRepo.Balance(context.Background())
	if want := 50000 - trip.Fare; balance != want {
		t.Errorf("expected balance %v, got %v", want, balance)
	}
	if resp.Receipt == nil {
		t.Error("expected a receipt")
	}
}

func TestCompleteTrip_InsufficientFundsStillCompletes(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	walletRepo := NewMockWalletRepository(100)
	svc := newTripService(tripRepo, walletRepo)
	defer svc.Close()

	pickup, destination := libreville()
	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		Pickup:      pickup,
		Destination: destination,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if err := svc.Match(context.Background(), trip.ID); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if _, err := svc.StartTrip(context.Background(), trip.ID); err != nil {
		t.Fatalf("StartTrip: %v", err)
	}

	resp, err := svc.CompleteTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("CompleteTrip: %v", err)
	}

	if resp.Trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected trip to complete, got %q", resp.Trip.Status)
	}
	if resp.Payment == nil || resp.Payment.Status != domain.TransactionFailed {
		t.Fatalf("expected a failed debit entry, got %+v", resp.Payment)
	}

	// The failed debit never touches the balance.
	balance, _ := walletRepo.Balance(context.Background())
	if balance != 100 {
		t.Errorf("expected untouched balance 100, got %v", balance)
	}
	entry := walletRepo.LastEntry()
	if entry == nil || entry.Status != domain.TransactionFailed || entry.Kind != domain.TransactionDebit {
		t.Errorf("expected failed debit in ledger, got %+v", entry)
	}
}

func TestCompleteTrip_CardFareChargedThroughGateway(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, approve bool) *service.CompleteTripResponse {
		fares := service.NewFareCalculator(service.DefaultFareConfig())
		routes := service.NewHaversineRouteProvider()
		svc := service.NewTripService(service.TripServiceDeps{
			TripRepo:       NewMockTripRepository(),
			Fares:          fares,
			Routes:         routes,
			Drivers:        service.NewStaticDriverPool(1, service.DefaultDrivers()...),
			Gateway:        service.NewStubGateway(FixedDecider{ApproveCharge: approve}),
			ReceiptService: service.NewReceiptService(routes, fares),
			MatchDelay:     time.Hour,
		})
		defer svc.Close()

		pickup, destination := libreville()
		trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
			Pickup:      pickup,
			Destination: destination,
			PaymentKind: domain.PaymentKindCard,
		})
		if err != nil {
			t.Fatalf("CreateTrip: %v", err)
		}
		if err := svc.Match(context.Background(), trip.ID); err != nil {
			t.Fatalf("Match: %v", err)
		}
		if _, err := svc.StartTrip(context.Background(), trip.ID); err != nil {
			t.Fatalf("StartTrip: %v", err)
		}

		resp, err := svc.CompleteTrip(context.Background(), trip.ID)
		if err != nil {
			t.Fatalf("CompleteTrip: %v", err)
		}
		return resp
	}

	approved := run(t, true)
	if approved.Payment == nil || approved.Payment.Status != domain.TransactionCompleted {
		t.Errorf("expected completed gateway charge, got %+v", approved.Payment)
	}
	if approved.Receipt == nil || approved.Receipt.PaymentStatus != domain.TransactionCompleted {
		t.Error("expected receipt to show the settled charge")
	}

	declined := run(t, false)
	if declined.Trip.Status != domain.TripStatusCompleted {
		t.Errorf("declined charge must not block completion, got %q", declined.Trip.Status)
	}
	if declined.Payment == nil || declined.Payment.Status != domain.TransactionFailed {
		t.Errorf("expected failed gateway charge, got %+v", declined.Payment)
	}
}

func TestListTrips_FiltersByStatusNewestFirst(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	svc := newTripService(tripRepo, nil)
	defer svc.Close()

	now := time.Now()
	tripRepo.AddTrip(&domain.Trip{ID: "t1", Status: domain.TripStatusCompleted, CreatedAt: now.Add(-3 * time.Hour)})
	tripRepo.AddTrip(&domain.Trip{ID: "t2", Status: domain.TripStatusRequested, CreatedAt: now.Add(-2 * time.Hour)})
	tripRepo.AddTrip(&domain.Trip{ID: "t3", Status: domain.TripStatusCompleted, CreatedAt: now.Add(-1 * time.Hour)})

	all, err := svc.ListTrips(context.Background(), "all")
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(all))
	}
	if all[0].ID != "t3" || all[2].ID != "t1" {
		t.Errorf("expected newest-first order t3..t1, got %s..%s", all[0].ID, all[2].ID)
	}

	completed, err := svc.ListTrips(context.Background(), string(domain.TripStatusCompleted))
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("expected 2 completed trips, got %d", len(completed))
	}
	for _, trip := range completed {
		if trip.Status != domain.TripStatusCompleted {
			t.Errorf("filter leaked status %q", trip.Status)
		}
	}
}
