// Package chain wraps a JSON-RPC Ethereum endpoint behind a narrow
// read/write/fee-data interface so the quote engine, gas pricer, and
// transaction encoders never touch the raw client directly.
package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// FeeData is the current fee suggestion from the node. Either field may be
// nil when the node does not report it.
type FeeData struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// TxParams carries the value and EIP-1559 fee caps attached to a write.
type TxParams struct {
	Value                *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// Client is the chain collaborator the swap pipeline depends on.
type Client interface {
	// Read performs an eth_call against to and unpacks the outputs.
	Read(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...any) ([]any, error)
	// Write signs and submits a transaction calling method on to.
	Write(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args []any, params TxParams) (common.Hash, error)
	// FeeData returns the node's current fee suggestion.
	FeeData(ctx context.Context) (FeeData, error)
	// Sender is the address transactions are signed with.
	Sender() common.Address
}

// RPCClient implements Client over go-ethereum's ethclient.
type RPCClient struct {
	eth        *ethclient.Client
	privateKey *ecdsa.PrivateKey
	sender     common.Address
	chainID    *big.Int
	logger     *slog.Logger
}

// Dial connects to rpcURL and prepares a signer from the hex-encoded
// private key.
func Dial(ctx context.Context, rpcURL, privateKeyHex string, chainID int64, logger *slog.Logger) (*RPCClient, error) {
	pk, err := ethcrypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("chain: invalid private key: %w", err)
	}

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", rpcURL, err)
	}

	return &RPCClient{
		eth:        eth,
		privateKey: pk,
		sender:     ethcrypto.PubkeyToAddress(pk.PublicKey),
		chainID:    big.NewInt(chainID),
		logger:     logger.With(slog.String("component", "chain")),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *RPCClient) Close() {
	c.eth.Close()
}

// Sender returns the address derived from the signing key.
func (c *RPCClient) Sender() common.Address {
	return c.sender
}

// Read packs the call, performs eth_call, and unpacks the result values.
func (c *RPCClient) Read(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...any) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("chain: pack %s: %w", method, err)
	}

	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("chain: call %s: %w", method, err)
	}

	values, err := contractABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("chain: unpack %s: %w", method, err)
	}
	return values, nil
}

// Write builds, signs, and submits a dynamic-fee transaction. The gas limit
// comes from eth_estimateGas padded by 20%.
func (c *RPCClient) Write(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args []any, params TxParams) (common.Hash, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain: pack %s: %w", method, err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.sender)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain: nonce: %w", err)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.sender,
		To:    &to,
		Value: params.Value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain: estimate gas for %s: %w", method, err)
	}
	gasLimit += gasLimit / 5

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: params.MaxPriorityFeePerGas,
		GasFeeCap: params.MaxFeePerGas,
		Gas:       gasLimit,
		To:        &to,
		Value:     params.Value,
		Data:      data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("chain: sign tx: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("chain: send tx: %w", err)
	}

	c.logger.InfoContext(ctx, "transaction submitted",
		slog.String("method", method),
		slog.String("to", to.Hex()),
		slog.String("hash", signed.Hash().Hex()),
		slog.Uint64("nonce", nonce),
	)
	return signed.Hash(), nil
}

// FeeData returns the node's gas price and tip suggestions. A failure in
// the tip query is not fatal; the field is left nil for the caller to
// default.
func (c *RPCClient) FeeData(ctx context.Context) (FeeData, error) {
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return FeeData{}, fmt.Errorf("chain: suggest gas price: %w", err)
	}

	var fd FeeData
	fd.MaxFeePerGas = gasPrice
	if tip, err := c.eth.SuggestGasTipCap(ctx); err == nil {
		fd.MaxPriorityFeePerGas = tip
	}
	return fd, nil
}
