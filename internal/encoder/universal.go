package encoder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/swapbotlabs/swapbot/internal/chain"
	"github.com/swapbotlabs/swapbot/internal/domain"
)

// universalRouterABIJSON covers the single entry point of the universal
// router: an opcode string plus matching encoded inputs.
const universalRouterABIJSON = `[
	{
		"inputs": [
			{"internalType": "bytes", "name": "commands", "type": "bytes"},
			{"internalType": "bytes[]", "name": "inputs", "type": "bytes[]"},
			{"internalType": "uint256", "name": "deadline", "type": "uint256"}
		],
		"name": "execute",
		"outputs": [],
		"stateMutability": "payable",
		"type": "function"
	}
]`

// Argument layouts for the per-command input blobs. Built once; the types
// are static.
var (
	v2SwapInputArgs = mustArguments(
		typ("address"), // recipient
		typ("uint256"), // amountIn
		typ("uint256"), // amountOutMin
		typ("address[]"),
		typ("bool"), // payerIsUser
	)
	v3SwapInputArgs = mustArguments(
		typ("address"),
		typ("uint256"),
		typ("uint256"),
		typ("bytes"), // packed path
		typ("bool"),
	)
)

func typ(t string) abi.Type {
	parsed, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("encoder: bad abi type %q: %v", t, err))
	}
	return parsed
}

func mustArguments(types ...abi.Type) abi.Arguments {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		args[i] = abi.Argument{Type: t}
	}
	return args
}

// EncodeV3Path packs a single-pool concentrated-liquidity route as
// tokenIn (20 bytes) || fee (3 bytes big-endian) || tokenOut (20 bytes).
// The fee is the pool's fee tier as a plain integer, not basis points.
func EncodeV3Path(tokenIn common.Address, fee uint32, tokenOut common.Address) []byte {
	path := make([]byte, 0, 43)
	path = append(path, tokenIn.Bytes()...)
	path = append(path, byte(fee>>16), byte(fee>>8), byte(fee))
	path = append(path, tokenOut.Bytes()...)
	return path
}

// UniversalEncoder submits swaps as a single execute(commands, inputs,
// deadline) call against the universal router serving the order's DEX.
type UniversalEncoder struct {
	client    chain.Client
	routerABI abi.ABI
	logger    *slog.Logger
}

// NewUniversalEncoder creates a universal-router encoder.
func NewUniversalEncoder(client chain.Client, logger *slog.Logger) (*UniversalEncoder, error) {
	parsed, err := abi.JSON(strings.NewReader(universalRouterABIJSON))
	if err != nil {
		return nil, fmt.Errorf("encoder: parse universal router ABI: %w", err)
	}
	return &UniversalEncoder{
		client:    client,
		routerABI: parsed,
		logger:    logger.With(slog.String("component", "encoder.universal")),
	}, nil
}

// Encode builds the one-command program for the order's pool version and
// submits it with value = amountIn and the order's fee caps.
func (e *UniversalEncoder) Encode(ctx context.Context, order domain.SwapOrder) (common.Hash, error) {
	commands, input, err := buildCommand(order)
	if err != nil {
		return common.Hash{}, err
	}

	router := universalRouterFor(order.Pool.DexID)
	e.logger.DebugContext(ctx, "encoding universal swap",
		slog.String("router", router.Hex()),
		slog.String("dex", order.Pool.DexID),
		slog.String("commands", fmt.Sprintf("0x%x", commands)),
	)

	return e.client.Write(ctx, router, e.routerABI, "execute",
		[]any{commands, [][]byte{input}, order.Deadline},
		chain.TxParams{
			Value:                order.AmountIn,
			MaxFeePerGas:         order.Gas.MaxFeePerGas,
			MaxPriorityFeePerGas: order.Gas.MaxPriorityFeePerGas,
		},
	)
}

// buildCommand returns the opcode string and the matching encoded input
// for the order's pool version. The router pays from the caller's funds
// (payerIsUser = true) in both variants.
func buildCommand(order domain.SwapOrder) ([]byte, []byte, error) {
	switch order.Pool.Version {
	case domain.PoolVersionV2:
		input, err := v2SwapInputArgs.Pack(
			order.Recipient,
			order.AmountIn,
			order.Quote.MinOutput,
			[]common.Address{order.TokenIn, order.TokenOut},
			true,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("encoder: pack v2 input: %w", err)
		}
		return []byte{commandV2SwapExactIn}, input, nil

	case domain.PoolVersionV3:
		path := EncodeV3Path(order.TokenIn, defaultV3FeeTier, order.TokenOut)
		input, err := v3SwapInputArgs.Pack(
			order.Recipient,
			order.AmountIn,
			order.Quote.MinOutput,
			path,
			true,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("encoder: pack v3 input: %w", err)
		}
		return []byte{commandV3SwapExactIn}, input, nil

	default:
		return nil, nil, fmt.Errorf("encoder: unknown pool version %q", order.Pool.Version)
	}
}
