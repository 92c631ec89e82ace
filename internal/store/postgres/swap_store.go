package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swapbotlabs/swapbot/internal/domain"
)

// SwapStore implements domain.SwapStore using PostgreSQL.
type SwapStore struct {
	pool *pgxpool.Pool
}

// NewSwapStore creates a SwapStore backed by the given connection pool.
func NewSwapStore(pool *pgxpool.Pool) *SwapStore {
	return &SwapStore{pool: pool}
}

// Insert records one submitted swap.
func (s *SwapStore) Insert(ctx context.Context, rec domain.SwapRecord) error {
	const query = `
		INSERT INTO swaps (
			id, token_out, amount_in_wei, min_out_wei, expected_wei,
			pair_address, pool_version, dex_id, liquidity_usd,
			router_mode, tx_hash, submitted_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12
		)`

	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.TokenOut, rec.AmountInWei, rec.MinOutWei, rec.ExpectedWei,
		rec.PairAddress, rec.PoolVersion, rec.DexID, rec.LiquidityUSD,
		rec.RouterMode, rec.TxHash, rec.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert swap %s: %w", rec.ID, err)
	}
	return nil
}
