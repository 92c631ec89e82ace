package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// SwapQuote pairs the expected output of an exact-input swap with the
// slippage-protected minimum the transaction will accept on chain.
// MinOutput <= ExpectedOutput always; they are equal only at zero slippage.
type SwapQuote struct {
	ExpectedOutput *big.Int
	MinOutput      *big.Int
}

// GasEstimate carries EIP-1559 fee parameters for one submission.
// MaxFeePerGas is always at least the base fee actually observed.
type GasEstimate struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// SwapOrder is the fully-resolved swap request handed to the transaction
// encoder. Built once per invocation, consumed exactly once.
type SwapOrder struct {
	// RequestID identifies this swap invocation in logs and the history store.
	RequestID string

	TokenIn   common.Address // wrapped native asset
	TokenOut  common.Address
	AmountIn  *big.Int // wei
	Quote     SwapQuote
	Recipient common.Address
	Pool      SelectedPool
	Gas       GasEstimate

	// Deadline is the absolute unix timestamp after which the chain-side
	// contract must reject the swap.
	Deadline *big.Int

	// UseUniversalRouter selects the single multi-command router call over
	// the per-version legacy routers.
	UseUniversalRouter bool
}

// SwapRecord is one row of swap history persisted after submission.
type SwapRecord struct {
	ID           string
	TokenOut     string
	AmountInWei  string
	MinOutWei    string
	ExpectedWei  string
	PairAddress  string
	PoolVersion  string
	DexID        string
	LiquidityUSD float64
	RouterMode   string // "legacy" or "universal"
	TxHash       string
	SubmittedAt  time.Time
}
