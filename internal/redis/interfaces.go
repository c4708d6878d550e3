package redis

import (
	"context"
	"time"
)

// PlaceStoreInterface defines the interface for place geo queries.
type PlaceStoreInterface interface {
	Index(ctx context.Context, placeID string, lat, lng float64) error
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]PlaceDistance, error)
	Remove(ctx context.Context, placeID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireWalletLock(ctx context.Context, walletID string, ttl time.Duration) (bool, error)
	ReleaseWalletLock(ctx context.Context, walletID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ PlaceStoreInterface = (*PlaceStore)(nil)
	_ LockStoreInterface  = (*LockStore)(nil)
)
