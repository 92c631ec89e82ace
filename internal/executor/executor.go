// Package executor submits a resolved swap order on chain. It holds no
// business logic beyond choosing the calling convention; every encoder or
// chain-client failure propagates unmodified.
package executor

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapbotlabs/swapbot/internal/chain"
	"github.com/swapbotlabs/swapbot/internal/domain"
	"github.com/swapbotlabs/swapbot/internal/encoder"
)

// EncoderFactory returns the encoder matching an order's router flag.
// Indirection exists so tests can substitute fakes.
type EncoderFactory func(order domain.SwapOrder, client chain.Client, logger *slog.Logger) (encoder.Encoder, error)

// Executor turns one swap order into one signed submission.
type Executor struct {
	client  chain.Client
	factory EncoderFactory
	logger  *slog.Logger
}

// NewExecutor creates an executor using the default encoder factory.
func NewExecutor(client chain.Client, logger *slog.Logger) *Executor {
	return &Executor{
		client:  client,
		factory: encoder.ForOrder,
		logger:  logger.With(slog.String("component", "executor")),
	}
}

// SetEncoderFactory overrides encoder construction, for tests.
func (e *Executor) SetEncoderFactory(f EncoderFactory) {
	e.factory = f
}

// ExecuteSwap picks the encoder for the order's calling convention,
// delegates, and returns the submitted transaction hash.
func (e *Executor) ExecuteSwap(ctx context.Context, order domain.SwapOrder) (common.Hash, error) {
	mode := "legacy"
	if order.UseUniversalRouter {
		mode = "universal"
	}
	e.logger.InfoContext(ctx, "executing swap",
		slog.String("request_id", order.RequestID),
		slog.String("mode", mode),
		slog.String("pool", order.Pool.PairAddress),
		slog.String("version", string(order.Pool.Version)),
	)

	enc, err := e.factory(order, e.client, e.logger)
	if err != nil {
		return common.Hash{}, err
	}
	return enc.Encode(ctx, order)
}
