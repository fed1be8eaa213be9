package application

import (
	"context"
	"fmt"
	"math/big"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/pkg/teleport"
	"github.com/shopspring/decimal"
)

// buildOpReturn assembles the payment payload embedded in the funding
// transaction. For exchange requests the output amount is recomputed
// from a fresh route quote at send time, widened by the slippage
// buffer, so on-chain execution still succeeds if price moved since the
// original quote. The freshly computed percentage fee is embedded so
// the destination contract can verify the fee split independently.
func (s *Service) buildOpReturn(ctx context.Context, rec *domain.SwapRecord) ([]byte, error) {
	amount, err := baseAmount(rec.FromAmount)
	if err != nil {
		return nil, err
	}
	display := rec.From.DisplayAmount(amount)

	fees, err := s.fees.Estimate(ctx, display, rec.From, s.cfg.Network)
	if err != nil {
		return nil, err
	}
	percentageFee, err := basisPoints(fees.TeleporterPercentageFee)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEncoding, err)
	}

	data := teleport.PaymentData{
		ChainId:       s.cfg.DestinationChainId,
		AppId:         teleport.TransferAppId,
		Recipient:     rec.Recipient,
		PercentageFee: percentageFee,
		ExchangeToken: teleport.ZeroAddress,
		OutputAmount:  new(big.Int),
	}

	if rec.RequestType() == domain.RequestSwap {
		token, err := s.routes.TokenAddress(rec.To)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrEncoding, err)
		}
		blockTime, err := s.evm.LatestBlockTime(ctx)
		if err != nil {
			return nil, fmt.Errorf("latest block: %w", err)
		}

		net := rec.From.BaseDecimal(netAfterFee(display, rec.From, fees))
		out, err := s.routes.Quote(ctx, net, rec.From, rec.To)
		if err != nil {
			return nil, err
		}

		data.AppId = teleport.ExchangeAppId
		data.IsExchange = true
		data.ExchangeToken = token
		data.OutputAmount = applySlippage(out, s.cfg.SlippagePercent)
		data.Deadline = uint32(blockTime) + uint32(s.cfg.DeadlineWindow.Seconds())
	}

	raw, err := data.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEncoding, err)
	}
	return raw, nil
}

// applySlippage lowers the quoted output by pct percent, the minimum
// the on-chain exchange must deliver.
func applySlippage(out *big.Int, pct int64) *big.Int {
	adj := new(big.Int).Mul(out, big.NewInt(100-pct))
	return adj.Div(adj, big.NewInt(100))
}

// basisPoints converts a percentage fee (0.15 means 0.15%) to basis
// points for the fixed-width encoding.
func basisPoints(percent decimal.Decimal) (uint16, error) {
	bps := percent.Mul(decimal.NewFromInt(100)).Round(0)
	if bps.IsNegative() || bps.GreaterThan(decimal.NewFromInt(10000)) {
		return 0, fmt.Errorf("percentage fee out of range: %s%%", percent)
	}
	return uint16(bps.IntPart()), nil
}
