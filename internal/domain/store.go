package domain

import "context"

// SwapStore persists swap history after submission. Optional: the service
// runs without one when no database is configured.
type SwapStore interface {
	Insert(ctx context.Context, rec SwapRecord) error
}

// PoolCache is a short-TTL cache of discovery results keyed by token
// address. Get returns (nil, nil) on a miss.
type PoolCache interface {
	Get(ctx context.Context, tokenAddress string) ([]PoolListing, error)
	Set(ctx context.Context, tokenAddress string, listings []PoolListing) error
}
