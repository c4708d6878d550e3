package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireWalletLock attempts to acquire the mutation lock for a wallet.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireWalletLock(ctx context.Context, walletID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:wallet:%s", walletID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseWalletLock releases the mutation lock for a wallet.
func (s *LockStore) ReleaseWalletLock(ctx context.Context, walletID string) error {
	key := fmt.Sprintf("lock:wallet:%s", walletID)

	return s.client.Del(ctx, key).Err()
}
