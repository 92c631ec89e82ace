// Package service orchestrates one swap end to end: discover pools, select
// the best one, quote the output, price gas, build the order, submit, and
// record the result.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/swapbotlabs/swapbot/internal/domain"
	"github.com/swapbotlabs/swapbot/internal/encoder"
	"github.com/swapbotlabs/swapbot/internal/notify"
	"github.com/swapbotlabs/swapbot/internal/quote"
)

// Discoverer fetches raw pool listings for a token.
type Discoverer interface {
	FetchPools(ctx context.Context, tokenAddress string) ([]domain.PoolListing, error)
}

// PoolPicker selects the best pool from raw listings.
type PoolPicker interface {
	SelectBestPool(listings []domain.PoolListing, minLiquidityUSD float64) (domain.SelectedPool, error)
}

// Quoter estimates the expected output of an exact-input swap.
type Quoter interface {
	ExpectedOutput(ctx context.Context, amountIn *big.Int, tokenIn, tokenOut common.Address) (*big.Int, error)
}

// GasSource prices the next submission.
type GasSource interface {
	GasParams(ctx context.Context) (domain.GasEstimate, error)
}

// Submitter turns a resolved order into a signed on-chain submission.
type Submitter interface {
	ExecuteSwap(ctx context.Context, order domain.SwapOrder) (common.Hash, error)
}

// Params carries the swap defaults resolved from configuration.
type Params struct {
	SlippageBps        int
	DeadlineSeconds    int
	MinLiquidityUSD    float64
	UseUniversalRouter bool
	Recipient          common.Address
}

// SwapService runs the full pipeline for one swap request. The cache,
// store, and notifier collaborators are optional and may be nil.
type SwapService struct {
	discovery Discoverer
	poolCache domain.PoolCache
	picker    PoolPicker
	quoter    Quoter
	gas       GasSource
	submitter Submitter
	store     domain.SwapStore
	notifier  *notify.Notifier
	params    Params
	logger    *slog.Logger

	// now is replaceable in tests for deterministic deadlines.
	now func() time.Time
}

// NewSwapService wires the pipeline collaborators together.
func NewSwapService(
	discovery Discoverer,
	picker PoolPicker,
	quoter Quoter,
	gas GasSource,
	submitter Submitter,
	params Params,
	logger *slog.Logger,
) *SwapService {
	return &SwapService{
		discovery: discovery,
		picker:    picker,
		quoter:    quoter,
		gas:       gas,
		submitter: submitter,
		params:    params,
		logger:    logger.With(slog.String("component", "swap_service")),
		now:       time.Now,
	}
}

// SetPoolCache attaches an optional discovery-result cache.
func (s *SwapService) SetPoolCache(c domain.PoolCache) { s.poolCache = c }

// SetStore attaches an optional swap-history store.
func (s *SwapService) SetStore(st domain.SwapStore) { s.store = st }

// SetNotifier attaches an optional notifier.
func (s *SwapService) SetNotifier(n *notify.Notifier) { s.notifier = n }

// Swap buys tokenAddress with amountIn wei of the native asset and returns
// the submitted transaction hash. slippageBps overrides the configured
// default when >= 0; pass -1 to use the default. All validation failures
// surface before any network call.
func (s *SwapService) Swap(ctx context.Context, tokenAddress string, amountIn *big.Int, slippageBps int) (common.Hash, error) {
	if !common.IsHexAddress(tokenAddress) {
		return common.Hash{}, fmt.Errorf("%w: token address %q is not a valid hex address", domain.ErrInvalidAddress, tokenAddress)
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return common.Hash{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}
	bps := s.params.SlippageBps
	if slippageBps >= 0 {
		bps = slippageBps
	}

	tokenOut := common.HexToAddress(tokenAddress)
	requestID := uuid.NewString()
	logger := s.logger.With(slog.String("request_id", requestID))

	hash, err := s.swap(ctx, logger, requestID, tokenAddress, tokenOut, amountIn, bps)
	if err != nil {
		s.notifyEvent(ctx, notify.EventSwapFailed, "Swap failed",
			fmt.Sprintf("token %s: %v", tokenAddress, err))
		return common.Hash{}, err
	}

	s.notifyEvent(ctx, notify.EventSwapSubmitted, "Swap submitted",
		fmt.Sprintf("token %s, tx %s", tokenAddress, hash.Hex()))
	return hash, nil
}

func (s *SwapService) swap(ctx context.Context, logger *slog.Logger, requestID, tokenAddress string, tokenOut common.Address, amountIn *big.Int, slippageBps int) (common.Hash, error) {
	listings, err := s.lookupPools(ctx, logger, tokenAddress)
	if err != nil {
		return common.Hash{}, err
	}

	pool, err := s.picker.SelectBestPool(listings, s.params.MinLiquidityUSD)
	if err != nil {
		return common.Hash{}, err
	}

	expected, err := s.quoter.ExpectedOutput(ctx, amountIn, encoder.WETH, tokenOut)
	if err != nil {
		return common.Hash{}, err
	}

	minOut, err := quote.AmountOutMin(expected, slippageBps)
	if err != nil {
		return common.Hash{}, err
	}

	gasParams, err := s.gas.GasParams(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	deadline := s.now().Unix() + int64(s.params.DeadlineSeconds)
	order := domain.SwapOrder{
		RequestID: requestID,
		TokenIn:   encoder.WETH,
		TokenOut:  tokenOut,
		AmountIn:  amountIn,
		Quote: domain.SwapQuote{
			ExpectedOutput: expected,
			MinOutput:      minOut,
		},
		Recipient:          s.params.Recipient,
		Pool:               pool,
		Gas:                gasParams,
		Deadline:           big.NewInt(deadline),
		UseUniversalRouter: s.params.UseUniversalRouter,
	}

	logger.InfoContext(ctx, "submitting swap",
		slog.String("token_out", tokenOut.Hex()),
		slog.String("amount_in", amountIn.String()),
		slog.String("min_out", minOut.String()),
		slog.String("pool", pool.PairAddress),
		slog.Int("slippage_bps", slippageBps),
	)

	hash, err := s.submitter.ExecuteSwap(ctx, order)
	if err != nil {
		return common.Hash{}, err
	}

	s.recordSwap(ctx, logger, order, hash)
	return hash, nil
}

// lookupPools serves listings cache-aside: hit the cache when attached,
// fall back to discovery, and populate the cache on the way out.
func (s *SwapService) lookupPools(ctx context.Context, logger *slog.Logger, tokenAddress string) ([]domain.PoolListing, error) {
	if s.poolCache != nil {
		cached, err := s.poolCache.Get(ctx, tokenAddress)
		if err != nil {
			logger.WarnContext(ctx, "pool cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			logger.DebugContext(ctx, "pool cache hit", slog.Int("count", len(cached)))
			return cached, nil
		}
	}

	listings, err := s.discovery.FetchPools(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	if s.poolCache != nil {
		if err := s.poolCache.Set(ctx, tokenAddress, listings); err != nil {
			logger.WarnContext(ctx, "pool cache write failed", slog.String("error", err.Error()))
		}
	}
	return listings, nil
}

// recordSwap persists the history row. Persistence is best-effort: by this
// point the transaction is already on the wire, so a store failure must
// not turn a submitted swap into a reported error.
func (s *SwapService) recordSwap(ctx context.Context, logger *slog.Logger, order domain.SwapOrder, hash common.Hash) {
	if s.store == nil {
		return
	}

	mode := "legacy"
	if order.UseUniversalRouter {
		mode = "universal"
	}
	rec := domain.SwapRecord{
		ID:           order.RequestID,
		TokenOut:     order.TokenOut.Hex(),
		AmountInWei:  order.AmountIn.String(),
		MinOutWei:    order.Quote.MinOutput.String(),
		ExpectedWei:  order.Quote.ExpectedOutput.String(),
		PairAddress:  order.Pool.PairAddress,
		PoolVersion:  string(order.Pool.Version),
		DexID:        order.Pool.DexID,
		LiquidityUSD: order.Pool.LiquidityUSD,
		RouterMode:   mode,
		TxHash:       hash.Hex(),
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		logger.WarnContext(ctx, "recording swap failed", slog.String("error", err.Error()))
	}
}

func (s *SwapService) notifyEvent(ctx context.Context, event, title, message string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Notify(ctx, event, title, message)
}
