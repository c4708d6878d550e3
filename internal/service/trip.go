package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	internalRedis "github.com/sajithmohammed-livelocal/uber-taxi/internal/redis"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository/postgres"
)

// DriverPool selects a driver for a matched trip. Tests supply a fixed pool.
type DriverPool interface {
	Pick() domain.Driver
}

// StaticDriverPool picks pseudo-randomly from a fixed set of drivers.
type StaticDriverPool struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	drivers []domain.Driver
}

// NewStaticDriverPool creates a pool over the given drivers.
func NewStaticDriverPool(seed int64, drivers ...domain.Driver) *StaticDriverPool {
	return &StaticDriverPool{
		rnd:     rand.New(rand.NewSource(seed)),
		drivers: drivers,
	}
}

// DefaultDrivers returns the stock driver roster.
func DefaultDrivers() []domain.Driver {
	return []domain.Driver{
		{Name: "Jean Essono", Rating: 4.8, Phone: "+241 06 77 88 99"},
		{Name: "Sylvie Mbadinga", Rating: 4.9, Phone: "+241 06 12 34 56"},
		{Name: "Paul Nze", Rating: 4.6, Phone: "+241 06 98 76 54"},
	}
}

// Pick implements DriverPool.
func (p *StaticDriverPool) Pick() domain.Driver {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drivers[p.rnd.Intn(len(p.drivers))]
}

// TripService owns the trip collection and its lifecycle.
type TripService struct {
	db                  *sql.DB // nil in tests; settlement then skips the transaction
	walletID            string
	tripRepo            repository.TripRepository
	walletRepo          repository.WalletRepository
	fares               *FareCalculator
	routes              RouteProvider
	drivers             DriverPool
	gateway             PaymentGateway
	cacheStore          *internalRedis.CacheStore
	notificationService *NotificationService
	receiptService      *ReceiptService

	matchDelay  time.Duration
	mu          sync.Mutex
	matchTimers map[string]*time.Timer
	closed      bool
}

// TripServiceDeps bundles the TripService dependencies.
type TripServiceDeps struct {
	DB                  *sql.DB
	WalletID            string
	TripRepo            repository.TripRepository
	WalletRepo          repository.WalletRepository
	Fares               *FareCalculator
	Routes              RouteProvider
	Drivers             DriverPool
	Gateway             PaymentGateway
	CacheStore          *internalRedis.CacheStore
	NotificationService *NotificationService
	ReceiptService      *ReceiptService
	MatchDelay          time.Duration
}

// NewTripService creates a new TripService.
func NewTripService(deps TripServiceDeps) *TripService {
	return &TripService{
		db:                  deps.DB,
		walletID:            deps.WalletID,
		tripRepo:            deps.TripRepo,
		walletRepo:          deps.WalletRepo,
		fares:               deps.Fares,
		routes:              deps.Routes,
		drivers:             deps.Drivers,
		gateway:             deps.Gateway,
		cacheStore:          deps.CacheStore,
		notificationService: deps.NotificationService,
		receiptService:      deps.ReceiptService,
		matchDelay:          deps.MatchDelay,
		matchTimers:         make(map[string]*time.Timer),
	}
}

// Close cancels all pending match timers.
func (s *TripService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, timer := range s.matchTimers {
		timer.Stop()
		delete(s.matchTimers, id)
	}
}

// FareBreakdown itemizes an estimate.
type FareBreakdown struct {
	Base  float64
	PerKm float64
	Surge float64
}

// FareEstimate is a quoted, non-binding price for a route.
type FareEstimate struct {
	Total           float64
	BaseFare        float64
	DistanceKm      float64
	DurationMin     float64
	SurgeMultiplier float64
	Breakdown       FareBreakdown
}

// EstimateRequest contains the parameters for a fare estimate.
type EstimateRequest struct {
	Pickup      domain.Location
	Destination domain.Location
	Type        domain.TripType
}

// EstimateFare computes a quote for the route without creating anything.
// Recent estimates are served from cache.
func (s *TripService) EstimateFare(ctx context.Context, req EstimateRequest) (*FareEstimate, error) {
	if err := s.validateRoute(req.Pickup, req.Destination); err != nil {
		return nil, err
	}

	tripType, ok := domain.ValidateTripType(string(req.Type))
	if !ok {
		return nil, ErrInvalidTripType
	}

	cacheKey := internalRedis.EstimateKey(
		req.Pickup.Lat, req.Pickup.Lng, req.Destination.Lat, req.Destination.Lng, string(tripType))
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetEstimate(ctx, cacheKey); err == nil && cached != nil {
			return &FareEstimate{
				Total:           cached.Total,
				BaseFare:        cached.BaseFare,
				DistanceKm:      cached.Distance,
				DurationMin:     cached.Duration,
				SurgeMultiplier: cached.SurgeMultiplier,
				Breakdown: FareBreakdown{
					Base:  cached.BaseFare,
					PerKm: cached.PerKm,
					Surge: cached.Surge,
				},
			}, nil
		}
	}

	estimate, err := s.estimate(req.Pickup, req.Destination, tripType)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetEstimate(ctx, cacheKey, &internalRedis.CachedEstimate{
			Total:           estimate.Total,
			BaseFare:        estimate.BaseFare,
			Distance:        estimate.DistanceKm,
			Duration:        estimate.DurationMin,
			SurgeMultiplier: estimate.SurgeMultiplier,
			PerKm:           estimate.Breakdown.PerKm,
			Surge:           estimate.Breakdown.Surge,
		})
	}

	return estimate, nil
}

// estimate computes the quote from the route provider and fare calculator.
func (s *TripService) estimate(pickup, destination domain.Location, tripType domain.TripType) (*FareEstimate, error) {
	route, err := s.routes.DistanceAndDuration(pickup, destination)
	if err != nil {
		return nil, err
	}

	total, err := s.fares.Fare(route.DistanceKm, route.DurationMin, tripType)
	if err != nil {
		return nil, err
	}

	cfg := s.fares.Config()
	multiplier := s.fares.Multiplier(tripType)

	breakdown := FareBreakdown{Base: cfg.BaseFare}
	if tripType != domain.TripTypeHourly {
		if route.DistanceKm > 0 {
			breakdown.PerKm = math.Round((total - cfg.BaseFare) / route.DistanceKm)
		}
		preSurge := cfg.BaseFare + route.DistanceKm*cfg.PerKmRate + route.DurationMin*cfg.PerMinRate
		if total > preSurge {
			breakdown.Surge = total - preSurge
		}
	}

	return &FareEstimate{
		Total:           total,
		BaseFare:        cfg.BaseFare,
		DistanceKm:      route.DistanceKm,
		DurationMin:     route.DurationMin,
		SurgeMultiplier: multiplier,
		Breakdown:       breakdown,
	}, nil
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	Pickup      domain.Location
	Destination domain.Location
	Type        domain.TripType
	PaymentKind domain.PaymentKind // defaults to wallet
}

// CreateTrip quotes a fare, stores the trip in the requested state and
// schedules the asynchronous driver match. The trip is returned
// immediately, still unmatched.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if err := s.validateRoute(req.Pickup, req.Destination); err != nil {
		return nil, err
	}

	tripType, ok := domain.ValidateTripType(string(req.Type))
	if !ok {
		return nil, ErrInvalidTripType
	}

	paymentKind := req.PaymentKind
	if paymentKind == "" {
		paymentKind = domain.PaymentKindWallet
	}

	estimate, err := s.estimate(req.Pickup, req.Destination, tripType)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trip := &domain.Trip{
		ID:          uuid.New().String(),
		Pickup:      req.Pickup,
		Destination: req.Destination,
		Type:        tripType,
		Status:      domain.TripStatusRequested,
		Fare:        estimate.Total,
		PaymentKind: paymentKind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.scheduleMatch(trip.ID)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTripRequested(ctx, trip)
	}

	return trip, nil
}

// scheduleMatch arms a one-shot timer for the trip's driver match. The
// timer is keyed by trip id so cancellation can disarm it.
func (s *TripService) scheduleMatch(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.matchTimers[tripID] = time.AfterFunc(s.matchDelay, func() {
		_ = s.Match(context.Background(), tripID)
	})
}

// cancelMatch disarms a pending match timer, if any.
func (s *TripService) cancelMatch(tripID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.matchTimers[tripID]; ok {
		timer.Stop()
		delete(s.matchTimers, tripID)
	}
}

// Match assigns a driver to a requested trip. A trip that is gone or no
// longer in the requested state makes this a no-op.
func (s *TripService) Match(ctx context.Context, tripID string) error {
	s.mu.Lock()
	delete(s.matchTimers, tripID)
	s.mu.Unlock()

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if trip.Status != domain.TripStatusRequested {
		return nil
	}

	driver := s.drivers.Pick()
	trip.Status = domain.TripStatusMatched
	trip.Driver = &driver
	trip.UpdatedAt = time.Now()

	// The write is guarded on the trip still being requested, so a
	// cancellation landing between the read above and this write wins
	// and the match becomes a no-op.
	updated, err := s.tripRepo.UpdateIfStatus(ctx, trip, domain.TripStatusRequested)
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyDriverMatched(ctx, trip)
	}

	return nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	return s.tripRepo.GetByID(ctx, tripID)
}

// ListTrips returns trips newest first, optionally filtered by exact
// status. An empty filter or "all" returns everything.
func (s *TripService) ListTrips(ctx context.Context, statusFilter string) ([]*domain.Trip, error) {
	if statusFilter == "all" {
		statusFilter = ""
	}

	return s.tripRepo.List(ctx, domain.TripStatus(statusFilter))
}

// StartTrip moves a matched trip into progress.
func (s *TripService) StartTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusMatched {
		return nil, ErrTripNotMatched
	}

	trip.Status = domain.TripStatusInProgress
	trip.UpdatedAt = time.Now()

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTripStarted(ctx, trip)
	}

	return trip, nil
}

// CompleteTripResponse contains the result of completing a trip.
type CompleteTripResponse struct {
	Trip    *domain.Trip
	Payment *domain.Transaction
	Receipt *domain.Receipt
}

// CompleteTrip ends an in-progress trip and settles the quoted fare.
// Wallet-funded trips debit the ledger in the same transaction as the
// status change; if funds are short the trip still completes and a failed
// debit entry is recorded so the charge can be retried after a top-up.
func (s *TripService) CompleteTrip(ctx context.Context, tripID string) (*CompleteTripResponse, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if trip.Status != domain.TripStatusInProgress {
		return nil, ErrTripNotInProgress
	}

	trip.Status = domain.TripStatusCompleted
	trip.UpdatedAt = time.Now()

	var payment *domain.Transaction
	paymentStatus := domain.TransactionPending

	switch {
	case trip.PaymentKind == domain.PaymentKindWallet && s.walletRepo != nil:
		payment, err = s.settle(ctx, trip)
		if err != nil {
			return nil, err
		}
		paymentStatus = payment.Status
	case trip.PaymentKind == domain.PaymentKindCash:
		if err := s.tripRepo.Update(ctx, trip); err != nil {
			return nil, err
		}
		// Cash settles with the driver directly.
		paymentStatus = domain.TransactionCompleted
	default:
		if err := s.tripRepo.Update(ctx, trip); err != nil {
			return nil, err
		}
		payment = s.chargeExternal(ctx, trip)
		if payment != nil {
			paymentStatus = payment.Status
		}
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTripCompleted(ctx, trip)
		if payment != nil {
			if payment.Status == domain.TransactionCompleted {
				_ = s.notificationService.NotifyPaymentSuccess(ctx, payment)
			} else {
				_ = s.notificationService.NotifyPaymentFailed(ctx, payment.Amount, payment.Reference)
			}
		}
	}

	var receipt *domain.Receipt
	if s.receiptService != nil {
		receipt, _ = s.receiptService.GenerateReceipt(ctx, trip, paymentStatus)
	}

	return &CompleteTripResponse{
		Trip:    trip,
		Payment: payment,
		Receipt: receipt,
	}, nil
}

// chargeExternal runs a card or mobile money fare through the payment
// gateway. A decline still completes the trip; the failed charge is
// reported on the receipt.
func (s *TripService) chargeExternal(ctx context.Context, trip *domain.Trip) *domain.Transaction {
	if s.gateway == nil {
		return nil
	}

	description := fmt.Sprintf("Trip to %s", trip.Destination.Address)
	payment := newTransaction(domain.TransactionDebit, trip.Fare, description, trip.ID)

	result, err := s.gateway.Charge(ctx, trip.Fare, string(trip.PaymentKind), trip.ID)
	if err != nil {
		payment.Status = domain.TransactionFailed
		return payment
	}

	payment.Reference = result.TransactionID
	payment.Status = result.Status
	return payment
}

// settle persists the completed trip and debits the quoted fare. With a
// real database both writes share one transaction; insufficient funds fall
// back to completing the trip with a failed debit entry.
func (s *TripService) settle(ctx context.Context, trip *domain.Trip) (*domain.Transaction, error) {
	description := fmt.Sprintf("Trip to %s", trip.Destination.Address)
	payment := newTransaction(domain.TransactionDebit, trip.Fare, description, trip.ID)

	err := s.settleTx(ctx, trip, payment)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, repository.ErrInsufficientBalance) {
		return nil, err
	}

	// Not enough funds: the trip still completes, the debit is recorded as
	// failed and never touches the balance.
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}
	payment.Status = domain.TransactionFailed
	if err := s.walletRepo.Record(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// settleTx applies the trip update and the wallet debit, transactionally
// when a DB handle is present.
func (s *TripService) settleTx(ctx context.Context, trip *domain.Trip, payment *domain.Transaction) error {
	if s.db == nil {
		if err := s.walletRepo.Debit(ctx, payment); err != nil {
			return err
		}
		return s.tripRepo.Update(ctx, trip)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txWalletRepo := postgres.NewWalletRepositoryWithTx(tx, s.walletID)

	if err := txTripRepo.Update(ctx, trip); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := txWalletRepo.Debit(ctx, payment); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// CancelTripRequest contains the parameters for cancelling a trip.
type CancelTripRequest struct {
	TripID string
	Reason string
}

// CancelTrip cancels any trip that has not yet reached a terminal state.
// Any pending match timer is disarmed so the match cannot fire afterwards.
func (s *TripService) CancelTrip(ctx context.Context, req CancelTripRequest) (*domain.Trip, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(trip.Status, domain.TripStatusCancelled) {
		return nil, ErrTripNotCancellable
	}

	s.cancelMatch(trip.ID)

	trip.Status = domain.TripStatusCancelled
	trip.CancelReason = req.Reason
	trip.UpdatedAt = time.Now()

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyTripCancelled(ctx, trip)
	}

	return trip, nil
}

// validateRoute checks both endpoints of a trip request.
func (s *TripService) validateRoute(pickup, destination domain.Location) error {
	if pickup.Address == "" {
		return ErrMissingPickup
	}
	if destination.Address == "" {
		return ErrMissingDestination
	}
	if !validLocation(pickup) || !validLocation(destination) {
		return ErrInvalidCoordinates
	}
	return nil
}
