package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swapbotlabs/swapbot/internal/domain"
)

// PoolCache implements domain.PoolCache: discovery listings serialized as
// JSON under "pools:{tokenAddress}" with a short TTL, so repeated swaps of
// the same token within the window skip the discovery API entirely.
type PoolCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPoolCache creates a PoolCache backed by the given Client.
func NewPoolCache(c *Client, ttl time.Duration) *PoolCache {
	return &PoolCache{rdb: c.Underlying(), ttl: ttl}
}

func poolKey(tokenAddress string) string {
	return "pools:" + tokenAddress
}

// Get returns cached listings for the token, or (nil, nil) on a miss.
func (pc *PoolCache) Get(ctx context.Context, tokenAddress string) ([]domain.PoolListing, error) {
	data, err := pc.rdb.Get(ctx, poolKey(tokenAddress)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get pools %s: %w", tokenAddress, err)
	}

	var listings []domain.PoolListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("redis: decode pools %s: %w", tokenAddress, err)
	}
	return listings, nil
}

// Set stores the listings for the token with the configured TTL.
func (pc *PoolCache) Set(ctx context.Context, tokenAddress string, listings []domain.PoolListing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("redis: encode pools %s: %w", tokenAddress, err)
	}
	if err := pc.rdb.Set(ctx, poolKey(tokenAddress), data, pc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set pools %s: %w", tokenAddress, err)
	}
	return nil
}
