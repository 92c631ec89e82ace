package encoder

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Static router/contract tables for Base mainnet. Loaded once at process
// start, never mutated.
var (
	// WETH is the wrapped native asset on Base.
	WETH = common.HexToAddress("0x4200000000000000000000000000000000000006")

	// v2Router is the Uniswap V2 Router02 deployment on Base (legacy mode,
	// constant-product pools).
	v2Router = common.HexToAddress("0x4752ba5DBc23f44D87826276BF6Fd6b1C372aD24")

	// v3Router is the Uniswap SwapRouter02 deployment on Base (legacy mode,
	// concentrated-liquidity pools).
	v3Router = common.HexToAddress("0x2626664c2603336E57B271c5C0b26F421741e481")

	// uniswapUniversalRouter is the default universal router deployment.
	uniswapUniversalRouter = common.HexToAddress("0x3fC91A3afd70395Cd496C647d5a6CC9D4B2b7FAD")

	// pancakeUniversalRouter is PancakeSwap's universal router deployment.
	pancakeUniversalRouter = common.HexToAddress("0x678Aa4bF4E210cf2166753e054d5b7c95E1e96Aa")
)

// Universal-router command opcodes (one byte per command).
const (
	commandV3SwapExactIn = 0x00
	commandV2SwapExactIn = 0x08
)

// defaultV3FeeTier is the pool fee used for single-pool V3 swaps when the
// listing does not carry one: 3000 = 0.30%.
const defaultV3FeeTier = 3000

// QuoteRouter returns the constant-product router used for read-only
// output estimation.
func QuoteRouter() common.Address { return v2Router }

// universalRouterFor maps a DEX identifier to the universal router that
// serves it. Identifiers with a known alternate-DEX prefix route to that
// DEX's deployment; everything else, unknown DEXes included, falls back to
// the default deployment.
func universalRouterFor(dexID string) common.Address {
	if strings.HasPrefix(dexID, "pancakeswap") {
		return pancakeUniversalRouter
	}
	return uniswapUniversalRouter
}
