// Package app owns the top-level application lifecycle. It wires the swap
// pipeline (discovery, selection, quoting, gas pricing, execution) together
// with the optional cache, store, and notification dependencies, and tears
// everything down in reverse order on shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/swapbotlabs/swapbot/internal/config"
)

// App is the root application object. It owns the configuration, logger,
// and a list of cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Swap wires all dependencies and runs one swap: buy tokenAddress with
// amountIn wei of the native asset. slippageBps < 0 uses the configured
// default. Returns the submitted transaction hash.
func (a *App) Swap(ctx context.Context, tokenAddress string, amountIn *big.Int, slippageBps int) (common.Hash, error) {
	a.logger.InfoContext(ctx, "starting swap",
		slog.String("token", tokenAddress),
		slog.String("amount_in_wei", amountIn.String()),
	)

	svc, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return common.Hash{}, fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	return svc.Swap(ctx, tokenAddress, amountIn, slippageBps)
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
