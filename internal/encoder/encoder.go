// Package encoder builds and submits the on-chain swap call for a resolved
// order. Two calling conventions exist: per-version legacy routers and the
// single multi-command universal router; both spend the native asset by
// attaching the input amount as transaction value.
package encoder

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapbotlabs/swapbot/internal/chain"
	"github.com/swapbotlabs/swapbot/internal/domain"
)

// Encoder turns a swap order into one signed on-chain submission and
// returns the transaction hash.
type Encoder interface {
	Encode(ctx context.Context, order domain.SwapOrder) (common.Hash, error)
}

// ForOrder returns the encoder matching the order's router-selection flag.
// Adding a third calling convention means adding a branch here and nothing
// in the orchestrator.
func ForOrder(order domain.SwapOrder, client chain.Client, logger *slog.Logger) (Encoder, error) {
	if order.UseUniversalRouter {
		return NewUniversalEncoder(client, logger)
	}
	return NewLegacyEncoder(client, logger)
}
