package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/domain"
	internalRedis "github.com/sajithmohammed-livelocal/uber-taxi/internal/redis"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip
	order []string

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	m.order = append(m.order, trip.ID)
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	m.order = append(m.order, trip.ID)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) List(ctx context.Context, status domain.TripStatus) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Trip
	for _, id := range m.order {
		trip := m.trips[id]
		if status != "" && trip.Status != status {
			continue
		}
		copy := *trip
		out = append(out, &copy)
	}
	// Newest first, matching the real repository's ordering.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) UpdateIfStatus(ctx context.Context, trip *domain.Trip, from domain.TripStatus) (bool, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.trips[trip.ID]
	if !ok || stored.Status != from {
		return false, nil
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return true, nil
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository backed
// by an in-memory ledger.
type MockWalletRepository struct {
	mu      sync.RWMutex
	balance float64
	ledger  []*domain.Transaction

	// Counters for verification
	CreditCallCount int32
	DebitCallCount  int32
	RecordCallCount int32

	// Error injection
	CreditError error
	DebitError  error
	RecordError error
}

// NewMockWalletRepository creates a mock wallet with the given opening
// balance.
func NewMockWalletRepository(balance float64) *MockWalletRepository {
	return &MockWalletRepository{balance: balance}
}

func (m *MockWalletRepository) Balance(ctx context.Context) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balance, nil
}

func (m *MockWalletRepository) Transactions(ctx context.Context, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sorted := m.sortedLedger()
	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], nil
}

func (m *MockWalletRepository) TransactionsSince(ctx context.Context, since time.Time) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, txn := range m.sortedLedger() {
		if txn.CreatedAt.Before(since) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *MockWalletRepository) Credit(ctx context.Context, txn *domain.Transaction) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance += txn.Amount
	copy := *txn
	m.ledger = append(m.ledger, &copy)
	return nil
}

func (m *MockWalletRepository) Debit(ctx context.Context, txn *domain.Transaction) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	if m.DebitError != nil {
		return m.DebitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn.Amount > m.balance {
		return repository.ErrInsufficientBalance
	}
	m.balance -= txn.Amount
	copy := *txn
	m.ledger = append(m.ledger, &copy)
	return nil
}

func (m *MockWalletRepository) Record(ctx context.Context, txn *domain.Transaction) error {
	atomic.AddInt32(&m.RecordCallCount, 1)
	if m.RecordError != nil {
		return m.RecordError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *txn
	m.ledger = append(m.ledger, &copy)
	return nil
}

// LedgerSize returns the number of ledger entries.
func (m *MockWalletRepository) LedgerSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ledger)
}

// LastEntry returns the most recently appended ledger entry, or nil.
func (m *MockWalletRepository) LastEntry() *domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.ledger) == 0 {
		return nil
	}
	copy := *m.ledger[len(m.ledger)-1]
	return &copy
}

func (m *MockWalletRepository) sortedLedger() []*domain.Transaction {
	out := make([]*domain.Transaction, 0, len(m.ledger))
	for _, txn := range m.ledger {
		copy := *txn
		out = append(out, &copy)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ──────────────────────────────────────────────
// MOCK PAYMENT METHOD REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentMethodRepository is a mock implementation of
// PaymentMethodRepository.
type MockPaymentMethodRepository struct {
	mu      sync.RWMutex
	methods []*domain.PaymentMethod

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentMethodRepository creates a new mock payment method
// repository.
func NewMockPaymentMethodRepository() *MockPaymentMethodRepository {
	return &MockPaymentMethodRepository{}
}

func (m *MockPaymentMethodRepository) Create(ctx context.Context, method *domain.PaymentMethod) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if method.IsDefault {
		for _, existing := range m.methods {
			existing.IsDefault = false
		}
	}
	copy := *method
	m.methods = append(m.methods, &copy)
	return nil
}

func (m *MockPaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, method := range m.methods {
		if method.ID == id {
			copy := *method
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentMethodRepository) GetAll(ctx context.Context) ([]*domain.PaymentMethod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.PaymentMethod, 0, len(m.methods))
	for _, method := range m.methods {
		copy := *method
		out = append(out, &copy)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsDefault && !out[j].IsDefault
	})
	return out, nil
}

func (m *MockPaymentMethodRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.methods), nil
}

// ──────────────────────────────────────────────
// FIXED DECIDER
// ──────────────────────────────────────────────

// FixedDecider approves or declines every gateway operation according to
// its fields.
type FixedDecider struct {
	ApproveCharge bool
	ApproveTopUp  bool
}

func (d FixedDecider) Approve(op service.GatewayOperation) bool {
	if op == service.OpTopUp {
		return d.ApproveTopUp
	}
	return d.ApproveCharge
}

// ──────────────────────────────────────────────
// MOCK PLACE STORE
// ──────────────────────────────────────────────

// MockPlaceStore is a mock implementation of PlaceStoreInterface. Nearby
// returns whatever NearbyResults holds.
type MockPlaceStore struct {
	mu      sync.RWMutex
	indexed map[string][2]float64

	NearbyResults []internalRedis.PlaceDistance

	// Error injection
	IndexError  error
	NearbyError error
}

// NewMockPlaceStore creates a new mock place store.
func NewMockPlaceStore() *MockPlaceStore {
	return &MockPlaceStore{
		indexed: make(map[string][2]float64),
	}
}

func (m *MockPlaceStore) Index(ctx context.Context, placeID string, lat, lng float64) error {
	if m.IndexError != nil {
		return m.IndexError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed[placeID] = [2]float64{lat, lng}
	return nil
}

func (m *MockPlaceStore) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]internalRedis.PlaceDistance, error) {
	if m.NearbyError != nil {
		return nil, m.NearbyError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]internalRedis.PlaceDistance, len(m.NearbyResults))
	copy(out, m.NearbyResults)
	return out, nil
}

func (m *MockPlaceStore) Remove(ctx context.Context, placeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.indexed, placeID)
	return nil
}

// IndexedCount returns how many places have been written to the geo index.
func (m *MockPlaceStore) IndexedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.indexed)
}

// IndexedAt returns the indexed position for a place, if any.
func (m *MockPlaceStore) IndexedAt(placeID string) ([2]float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.indexed[placeID]
	return pos, ok
}
