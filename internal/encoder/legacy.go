package encoder

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

// v2RouterABIJSON covers the one V2 entry point used in legacy mode.
const v2RouterABIJSON = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"},
			{"internalType": "address", "name": "to", "type": "address"},
			{"internalType": "uint256", "name": "deadline", "type": "uint256"}
		],
		"name": "swapExactETHForTokens",
		"outputs": [
			{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// v3RouterABIJSON covers the V3 single-pool exact-input call and the
// deadline-carrying multicall that wraps it.
const v3RouterABIJSON = `[
	{
		"inputs": [
			{
				"components": [
					{"internalType": "address", "name": "tokenIn", "type": "address"},
					{"internalType": "address", "name": "tokenOut", "type": "address"},
					{"internalType": "uint24", "name": "fee", "type": "uint24"},
					{"internalType": "address", "name": "recipient", "type": "address"},
					{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
					{"internalType": "uint256", "name": "amountOutMinimum", "type": "uint256"},
					{"internalType": "uint160", "name": "sqrtPriceLimitX96", "type": "uint160"}
				],
				"internalType": "struct IV3SwapRouter.ExactInputSingleParams",
				"name": "params",
				"type": "tuple"
			}
		],
		"name": "exactInputSingle",
		"outputs": [
			{"internalType": "uint256", "name": "amountOut", "type": "uint256"}
		],
		"stateMutability": "payable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "deadline", "type": "uint256"},
			{"internalType": "bytes[]", "name": "data", "type": "bytes[]"}
		],
		"name": "multicall",
		"outputs": [
			{"internalType": "bytes[]", "name": "results", "type": "bytes[]"}
		],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// LegacyEncoder submits swaps through the per-version routers: the V2
// router for constant-product pools, SwapRouter02 for concentrated
// liquidity.
type LegacyEncoder struct {
	client chain.Client
	v2ABI  abi.ABI
	v3ABI  abi.ABI
	logger *slog.Logger
}

// NewLegacyEncoder creates a legacy-mode encoder.
func NewLegacyEncoder(client chain.Client, logger *slog.Logger) (*LegacyEncoder, error) {
	v2ABI, err := abi.JSON(strings.NewReader(v2RouterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("encoder: parse v2 router ABI: %w", err)
	}
	v3ABI, err := abi.JSON(strings.NewReader(v3RouterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("encoder: parse v3 router ABI: %w", err)
	}
	return &LegacyEncoder{
		client: client,
		v2ABI:  v2ABI,
		v3ABI:  v3ABI,
		logger: logger.With(slog.String("component", "encoder.legacy")),
	}, nil
}

// Encode dispatches on the pool version and submits the matching router
// call with value = amountIn and the order's fee caps.
func (e *LegacyEncoder) Encode(ctx context.Context, order domain.SwapOrder) (common.Hash, error) {
	params := chain.TxParams{
		Value:                order.AmountIn,
		MaxFeePerGas:         order.Gas.MaxFeePerGas,
		MaxPriorityFeePerGas: order.Gas.MaxPriorityFeePerGas,
	}

	switch order.Pool.Version {
	case domain.PoolVersionV2:
		return e.encodeV2(ctx, order, params)
	case domain.PoolVersionV3:
		return e.encodeV3(ctx, order, params)
	default:
		return common.Hash{}, fmt.Errorf("encoder: unknown pool version %q", order.Pool.Version)
	}
}

// encodeV2 calls swapExactETHForTokens with the two-hop wrapped-native path.
func (e *LegacyEncoder) encodeV2(ctx context.Context, order domain.SwapOrder, params chain.TxParams) (common.Hash, error) {
	path := []common.Address{order.TokenIn, order.TokenOut}

	e.logger.DebugContext(ctx, "encoding v2 legacy swap",
		slog.String("router", v2Router.Hex()),
		slog.String("token_out", order.TokenOut.Hex()),
	)

	return e.client.Write(ctx, v2Router, e.v2ABI, "swapExactETHForTokens",
		[]any{order.Quote.MinOutput, path, order.Recipient, order.Deadline},
		params,
	)
}

// encodeV3 packs exactInputSingle and wraps it in a deadline-carrying
// multicall. sqrtPriceLimitX96 stays zero; the min-output bound alone
// protects the trade.
func (e *LegacyEncoder) encodeV3(ctx context.Context, order domain.SwapOrder, params chain.TxParams) (common.Hash, error) {
	swapParams := struct {
		TokenIn           common.Address
		TokenOut          common.Address
		Fee               *big.Int
		Recipient         common.Address
		AmountIn          *big.Int
		AmountOutMinimum  *big.Int
		SqrtPriceLimitX96 *big.Int
	}{
		TokenIn:           order.TokenIn,
		TokenOut:          order.TokenOut,
		Fee:               big.NewInt(defaultV3FeeTier),
		Recipient:         order.Recipient,
		AmountIn:          order.AmountIn,
		AmountOutMinimum:  order.Quote.MinOutput,
		SqrtPriceLimitX96: big.NewInt(0),
	}

	inner, err := e.v3ABI.Pack("exactInputSingle", swapParams)
	if err != nil {
		return common.Hash{}, fmt.Errorf("encoder: pack exactInputSingle: %w", err)
	}

	e.logger.DebugContext(ctx, "encoding v3 legacy swap",
		slog.String("router", v3Router.Hex()),
		slog.String("token_out", order.TokenOut.Hex()),
		slog.Int("fee_tier", defaultV3FeeTier),
	)

	return e.client.Write(ctx, v3Router, e.v3ABI, "multicall",
		[]any{order.Deadline, [][]byte{inner}},
		params,
	)
}
