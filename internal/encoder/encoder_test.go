package encoder

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapbotlabs/swapbot/internal/chain"
	"github.com/swapbotlabs/swapbot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingChain captures the write so tests can assert the call shape.
type recordingChain struct {
	gotTo     common.Address
	gotMethod string
	gotArgs   []any
	gotParams chain.TxParams
}

func (r *recordingChain) Read(context.Context, common.Address, abi.ABI, string, ...any) ([]any, error) {
	return nil, nil
}

func (r *recordingChain) Write(_ context.Context, to common.Address, _ abi.ABI, method string, args []any, params chain.TxParams) (common.Hash, error) {
	r.gotTo = to
	r.gotMethod = method
	r.gotArgs = args
	r.gotParams = params
	return common.HexToHash("0xbeef"), nil
}

func (r *recordingChain) FeeData(context.Context) (chain.FeeData, error) {
	return chain.FeeData{}, nil
}

func (r *recordingChain) Sender() common.Address { return common.Address{} }

func testOrder(version domain.PoolVersion, universal bool) domain.SwapOrder {
	return domain.SwapOrder{
		RequestID: "req-1",
		TokenIn:   WETH,
		TokenOut:  common.HexToAddress("0x1111111111111111111111111111111111111111"),
		AmountIn:  big.NewInt(1_000_000),
		Quote: domain.SwapQuote{
			ExpectedOutput: big.NewInt(5_000_000),
			MinOutput:      big.NewInt(4_950_000),
		},
		Recipient: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Pool: domain.SelectedPool{
			PairAddress: "0xpair",
			Version:     version,
			DexID:       "uniswap",
		},
		Gas: domain.GasEstimate{
			MaxFeePerGas:         big.NewInt(6_000_000_000),
			MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
		},
		Deadline:           big.NewInt(1_700_000_000),
		UseUniversalRouter: universal,
	}
}

func TestEncodeV3Path(t *testing.T) {
	tokenIn := common.HexToAddress("0x4200000000000000000000000000000000000006")
	tokenOut := common.HexToAddress("0x1111111111111111111111111111111111111111")

	path := EncodeV3Path(tokenIn, 2500, tokenOut)

	require.Len(t, path, 43)
	assert.Equal(t, tokenIn.Bytes(), path[:20])
	assert.Equal(t, []byte{0x00, 0x09, 0xC4}, path[20:23], "fee 2500 big-endian")
	assert.Equal(t, tokenOut.Bytes(), path[23:])
}

func TestEncodeV3PathDefaultFeeTier(t *testing.T) {
	path := EncodeV3Path(WETH, defaultV3FeeTier, common.HexToAddress("0x01"))
	assert.Equal(t, []byte{0x00, 0x0B, 0xB8}, path[20:23], "fee 3000 big-endian")
}

func TestUniversalRouterFor(t *testing.T) {
	assert.Equal(t, pancakeUniversalRouter, universalRouterFor("pancakeswap"))
	assert.Equal(t, pancakeUniversalRouter, universalRouterFor("pancakeswap-v3"))
	assert.Equal(t, uniswapUniversalRouter, universalRouterFor("uniswap"))
	assert.Equal(t, uniswapUniversalRouter, universalRouterFor("some-new-dex"))
	assert.Equal(t, uniswapUniversalRouter, universalRouterFor(""))
}

func TestBuildCommandV2(t *testing.T) {
	order := testOrder(domain.PoolVersionV2, true)

	commands, input, err := buildCommand(order)
	require.NoError(t, err)
	assert.Equal(t, []byte{commandV2SwapExactIn}, commands)

	values, err := v2SwapInputArgs.Unpack(input)
	require.NoError(t, err)
	require.Len(t, values, 5)
	assert.Equal(t, order.Recipient, values[0])
	assert.Equal(t, order.AmountIn, values[1])
	assert.Equal(t, order.Quote.MinOutput, values[2])
	assert.Equal(t, []common.Address{order.TokenIn, order.TokenOut}, values[3])
	assert.Equal(t, true, values[4], "router pays from the caller's funds")
}

func TestBuildCommandV3(t *testing.T) {
	order := testOrder(domain.PoolVersionV3, true)

	commands, input, err := buildCommand(order)
	require.NoError(t, err)
	assert.Equal(t, []byte{commandV3SwapExactIn}, commands)

	values, err := v3SwapInputArgs.Unpack(input)
	require.NoError(t, err)
	require.Len(t, values, 5)
	assert.Equal(t, order.Recipient, values[0])
	assert.Equal(t, EncodeV3Path(order.TokenIn, defaultV3FeeTier, order.TokenOut), values[3])
	assert.Equal(t, true, values[4])
}

func TestBuildCommandUnknownVersion(t *testing.T) {
	order := testOrder("v4", true)

	_, _, err := buildCommand(order)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pool version")
}

func TestLegacyEncoderV2Dispatch(t *testing.T) {
	rc := &recordingChain{}
	enc, err := NewLegacyEncoder(rc, testLogger())
	require.NoError(t, err)

	order := testOrder(domain.PoolVersionV2, false)
	hash, err := enc.Encode(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, common.HexToHash("0xbeef"), hash)
	assert.Equal(t, v2Router, rc.gotTo)
	assert.Equal(t, "swapExactETHForTokens", rc.gotMethod)
	assert.Equal(t, order.AmountIn, rc.gotParams.Value, "native amount rides in the tx value")
	assert.Equal(t, order.Gas.MaxFeePerGas, rc.gotParams.MaxFeePerGas)
	require.Len(t, rc.gotArgs, 4)
	assert.Equal(t, order.Quote.MinOutput, rc.gotArgs[0])
	assert.Equal(t, order.Deadline, rc.gotArgs[3])
}

func TestLegacyEncoderV3Dispatch(t *testing.T) {
	rc := &recordingChain{}
	enc, err := NewLegacyEncoder(rc, testLogger())
	require.NoError(t, err)

	order := testOrder(domain.PoolVersionV3, false)
	_, err = enc.Encode(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, v3Router, rc.gotTo)
	assert.Equal(t, "multicall", rc.gotMethod)
	assert.Equal(t, order.AmountIn, rc.gotParams.Value)
	require.Len(t, rc.gotArgs, 2)
	assert.Equal(t, order.Deadline, rc.gotArgs[0])
	inner, ok := rc.gotArgs[1].([][]byte)
	require.True(t, ok)
	require.Len(t, inner, 1, "one exactInputSingle call inside the multicall")
}

func TestLegacyEncoderUnknownVersion(t *testing.T) {
	enc, err := NewLegacyEncoder(&recordingChain{}, testLogger())
	require.NoError(t, err)

	_, err = enc.Encode(context.Background(), testOrder("weird", false))
	require.Error(t, err)
}

func TestUniversalEncoderRoutesByDex(t *testing.T) {
	tests := []struct {
		dexID      string
		wantRouter common.Address
	}{
		{"uniswap", uniswapUniversalRouter},
		{"pancakeswap-v2", pancakeUniversalRouter},
	}

	for _, tt := range tests {
		t.Run(tt.dexID, func(t *testing.T) {
			rc := &recordingChain{}
			enc, err := NewUniversalEncoder(rc, testLogger())
			require.NoError(t, err)

			order := testOrder(domain.PoolVersionV2, true)
			order.Pool.DexID = tt.dexID

			_, err = enc.Encode(context.Background(), order)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRouter, rc.gotTo)
			assert.Equal(t, "execute", rc.gotMethod)
			assert.Equal(t, order.AmountIn, rc.gotParams.Value)
		})
	}
}

func TestForOrderSelectsEncoder(t *testing.T) {
	rc := &recordingChain{}

	enc, err := ForOrder(testOrder(domain.PoolVersionV2, false), rc, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &LegacyEncoder{}, enc)

	enc, err = ForOrder(testOrder(domain.PoolVersionV2, true), rc, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &UniversalEncoder{}, enc)
}
