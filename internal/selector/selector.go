// Package selector picks the best liquidity pool from raw discovery
// listings: filter by chain, by pool-version label, by minimum USD
// liquidity, then rank by liquidity.
package selector

import (
	"log/slog"
	"sort"

	"github.com/swapbotlabs/swapbot/internal/domain"
)

// Selector filters and ranks pool listings for one target chain.
type Selector struct {
	chainID string
	logger  *slog.Logger
}

// New creates a Selector for the given discovery-API chain identifier
// (e.g. "base").
func New(chainID string, logger *slog.Logger) *Selector {
	return &Selector{
		chainID: chainID,
		logger:  logger.With(slog.String("component", "selector")),
	}
}

// candidate pairs a surviving listing with its resolved version.
type candidate struct {
	listing domain.PoolListing
	version domain.PoolVersion
}

// SelectBestPool returns the highest-liquidity pool on the target chain
// that carries a known pool-version label and at least minLiquidityUSD of
// liquidity. The result is deterministic: ranking uses a stable sort, so
// liquidity ties resolve in original listing order.
func (s *Selector) SelectBestPool(listings []domain.PoolListing, minLiquidityUSD float64) (domain.SelectedPool, error) {
	var candidates []candidate
	for _, l := range listings {
		if l.ChainID != s.chainID {
			continue
		}
		version, ok := domain.ParsePoolVersion(l.Labels)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{listing: l, version: version})
	}

	if len(candidates) == 0 {
		return domain.SelectedPool{}, &domain.SelectionError{Reason: domain.SelectionNoValidPools}
	}

	liquid := candidates[:0]
	for _, c := range candidates {
		if c.listing.LiquidityUSD() >= minLiquidityUSD {
			liquid = append(liquid, c)
		}
	}

	if len(liquid) == 0 {
		return domain.SelectedPool{}, &domain.SelectionError{
			Reason:          domain.SelectionInsufficientLiquidity,
			MinLiquidityUSD: minLiquidityUSD,
		}
	}

	sort.SliceStable(liquid, func(i, j int) bool {
		return liquid[i].listing.LiquidityUSD() > liquid[j].listing.LiquidityUSD()
	})

	best := liquid[0]
	s.logger.Debug("selected pool",
		slog.String("pair", best.listing.PairAddress),
		slog.String("version", string(best.version)),
		slog.String("dex", best.listing.DexID),
		slog.Float64("liquidity_usd", best.listing.LiquidityUSD()),
	)

	return domain.SelectedPool{
		PairAddress:  best.listing.PairAddress,
		Version:      best.version,
		DexID:        best.listing.DexID,
		LiquidityUSD: best.listing.LiquidityUSD(),
	}, nil
}
