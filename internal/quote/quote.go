// Package quote obtains the expected output of an exact-input swap from
// the reference constant-product router and derives the slippage-protected
// minimum acceptable output in pure integer arithmetic.
package quote

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/swapbotlabs/swapbot/internal/chain"
	"github.com/swapbotlabs/swapbot/internal/domain"
)

// bpsDenominator: 10000 basis points = 100%.
const bpsDenominator = 10_000

// routerABIJSON covers the single read-only estimation entry point used
// here, the V2 router's getAmountsOut.
const routerABIJSON = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Engine quotes exact-input swaps against a reference router.
type Engine struct {
	client    chain.Client
	router    common.Address
	routerABI abi.ABI
	logger    *slog.Logger
}

// NewEngine creates a quote engine bound to the reference router address.
func NewEngine(client chain.Client, router common.Address, logger *slog.Logger) (*Engine, error) {
	parsed, err := abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		return nil, fmt.Errorf("quote: parse router ABI: %w", err)
	}
	return &Engine{
		client:    client,
		router:    router,
		routerABI: parsed,
		logger:    logger.With(slog.String("component", "quote")),
	}, nil
}

// ExpectedOutput returns the router's estimate for swapping amountIn of
// tokenIn into tokenOut along the two-hop path [tokenIn, tokenOut].
// Collaborator failures (including insufficient-liquidity reverts)
// propagate unchanged.
func (e *Engine) ExpectedOutput(ctx context.Context, amountIn *big.Int, tokenIn, tokenOut common.Address) (*big.Int, error) {
	values, err := e.client.Read(ctx, e.router, e.routerABI, "getAmountsOut",
		amountIn, []common.Address{tokenIn, tokenOut})
	if err != nil {
		return nil, err
	}

	amounts, ok := values[0].([]*big.Int)
	if !ok || len(amounts) < 2 {
		return nil, fmt.Errorf("quote: unexpected getAmountsOut result shape")
	}

	out := amounts[len(amounts)-1]
	e.logger.DebugContext(ctx, "quoted expected output",
		slog.String("amount_in", amountIn.String()),
		slog.String("expected_out", out.String()),
	)
	return out, nil
}

// AmountOutMin computes floor(expected * (10000 - slippageBps) / 10000)
// entirely in integer arithmetic, so large token amounts never suffer
// floating-point drift. slippageBps must lie in [0, 10000].
func AmountOutMin(expected *big.Int, slippageBps int) (*big.Int, error) {
	if slippageBps < 0 || slippageBps > bpsDenominator {
		return nil, fmt.Errorf("%w: slippageBps must be in [0, %d], got %d",
			domain.ErrInvalidSlippage, bpsDenominator, slippageBps)
	}

	min := new(big.Int).Mul(expected, big.NewInt(int64(bpsDenominator-slippageBps)))
	return min.Div(min, big.NewInt(bpsDenominator)), nil
}
