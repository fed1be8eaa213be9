package application

import (
	"context"
	"fmt"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/shopspring/decimal"
)

// FeeEstimator computes the protocol/locker/teleporter fee breakdown for
// a requested amount. It is a pure query against the fee oracle; retry
// policy belongs to the caller.
type FeeEstimator struct {
	oracle ports.FeeOracle
}

func NewFeeEstimator(oracle ports.FeeOracle) *FeeEstimator {
	return &FeeEstimator{oracle: oracle}
}

// Estimate quotes the fees for moving amount (BTC display units) in the
// direction implied by from. amount may be zero, in which case only the
// fixed teleporter fee component is returned by the oracle.
func (e *FeeEstimator) Estimate(
	ctx context.Context, amount decimal.Decimal, from domain.Asset, network domain.Network,
) (*domain.FeeBreakdown, error) {
	model := ports.FeeModelBurn
	if from == domain.AssetBTC {
		model = ports.FeeModelTransfer
	}
	fees, err := e.oracle.CalculateFee(ctx, ports.FeeQuery{
		Amount:  amount,
		Type:    model,
		Testnet: network != domain.Mainnet,
	})
	if err != nil {
		return nil, fmt.Errorf("fee oracle: %w", err)
	}
	return fees, nil
}

// Minimum returns the smallest meaningful swap amount: the fixed
// teleporter fee, quoted with a zero amount.
func (e *FeeEstimator) Minimum(
	ctx context.Context, from domain.Asset, network domain.Network,
) (decimal.Decimal, error) {
	fees, err := e.Estimate(ctx, decimal.Zero, from, network)
	if err != nil {
		return decimal.Zero, err
	}
	return fees.TeleporterFeeInBTC, nil
}
