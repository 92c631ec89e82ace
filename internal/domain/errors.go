package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSlippage = errors.New("slippage out of range")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidAddress  = errors.New("invalid address")
)

// DiscoveryError classifies a failed discovery call. Retryable errors are
// retried by the discovery client's backoff policy; a non-retryable error
// surfaces immediately. StatusCode is zero for transport-level failures.
type DiscoveryError struct {
	Retryable  bool
	StatusCode int
	Message    string
	Err        error
}

func (e *DiscoveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("discovery: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return "discovery: " + e.Message
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// SelectionReason distinguishes why pool selection failed.
type SelectionReason string

const (
	// SelectionNoValidPools: no listing matched the target chain and a
	// known pool-version label.
	SelectionNoValidPools SelectionReason = "no_valid_pools"
	// SelectionInsufficientLiquidity: listings matched but all fell below
	// the configured minimum USD liquidity.
	SelectionInsufficientLiquidity SelectionReason = "insufficient_liquidity"
)

// SelectionError is a tagged selection failure. Callers switch on Reason;
// MinLiquidityUSD is populated only for SelectionInsufficientLiquidity.
type SelectionError struct {
	Reason          SelectionReason
	MinLiquidityUSD float64
}

func (e *SelectionError) Error() string {
	switch e.Reason {
	case SelectionInsufficientLiquidity:
		return fmt.Sprintf("selection: no pool meets the minimum liquidity of $%.2f", e.MinLiquidityUSD)
	default:
		return "selection: no valid pools found for token on target chain"
	}
}
