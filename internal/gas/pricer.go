// Package gas derives EIP-1559 fee parameters for swap submissions from
// the node's fee suggestion plus a fixed safety buffer.
package gas

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/swapbotlabs/swapbot/internal/chain"
	"github.com/swapbotlabs/swapbot/internal/domain"
)

const (
	// bufferPercent pads the observed fee so the transaction survives
	// base-fee movement between pricing and inclusion.
	bufferPercent = 20
)

var (
	// defaultBaseFee substitutes for an absent node suggestion: 0.1 gwei,
	// generous for an L2.
	defaultBaseFee = big.NewInt(100_000_000)
	// priorityFee is the fixed network-standard tip; it is never derived
	// from observed data.
	priorityFee = big.NewInt(1_000_000_000)
)

// Pricer prices gas for swap submissions.
type Pricer struct {
	client chain.Client
	logger *slog.Logger
}

// NewPricer creates a gas pricer backed by the given chain client.
func NewPricer(client chain.Client, logger *slog.Logger) *Pricer {
	return &Pricer{
		client: client,
		logger: logger.With(slog.String("component", "gas")),
	}
}

// GasParams returns the fee caps for the next submission:
// maxFeePerGas = observed-or-default fee * (100 + bufferPercent) / 100,
// maxPriorityFeePerGas = the fixed network constant. The only failure mode
// is the chain client's own fee-data error, propagated unchanged.
func (p *Pricer) GasParams(ctx context.Context) (domain.GasEstimate, error) {
	fd, err := p.client.FeeData(ctx)
	if err != nil {
		return domain.GasEstimate{}, err
	}

	observed := fd.MaxFeePerGas
	if observed == nil {
		observed = defaultBaseFee
	}

	maxFee := new(big.Int).Mul(observed, big.NewInt(100+bufferPercent))
	maxFee.Div(maxFee, big.NewInt(100))

	p.logger.DebugContext(ctx, "priced gas",
		slog.String("observed_fee", observed.String()),
		slog.String("max_fee", maxFee.String()),
		slog.String("priority_fee", priorityFee.String()),
	)

	return domain.GasEstimate{
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: new(big.Int).Set(priorityFee),
	}, nil
}
