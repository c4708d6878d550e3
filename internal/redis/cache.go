package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EstimateCacheTTL bounds how long a quoted estimate is reused. Short,
// because fare config may be retuned at runtime in a real deployment.
const EstimateCacheTTL = 30 * time.Second

const estimateCachePrefix = "cache:estimate:"

// CachedEstimate is the cached shape of a fare estimate.
type CachedEstimate struct {
	Total           float64 `json:"total"`
	BaseFare        float64 `json:"base_fare"`
	Distance        float64 `json:"distance"`
	Duration        float64 `json:"duration"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	PerKm           float64 `json:"per_km"`
	Surge           float64 `json:"surge"`
}

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// EstimateKey builds a cache key from rounded route endpoints and trip type.
func EstimateKey(pickupLat, pickupLng, destLat, destLng float64, tripType string) string {
	return fmt.Sprintf("%s%.4f:%.4f:%.4f:%.4f:%s",
		estimateCachePrefix, pickupLat, pickupLng, destLat, destLng, tripType)
}

// GetEstimate retrieves a cached estimate. Returns nil on a cache miss.
func (s *CacheStore) GetEstimate(ctx context.Context, key string) (*CachedEstimate, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var estimate CachedEstimate
	if err := json.Unmarshal(data, &estimate); err != nil {
		return nil, err
	}
	return &estimate, nil
}

// SetEstimate stores an estimate in cache.
func (s *CacheStore) SetEstimate(ctx context.Context, key string, estimate *CachedEstimate) error {
	data, err := json.Marshal(estimate)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, EstimateCacheTTL).Err()
}
