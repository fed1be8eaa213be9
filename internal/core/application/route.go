package application

import (
	"context"
	"fmt"
	"math/big"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/TeleportDAO/teleswapd/pkg/teleport"
	"github.com/shopspring/decimal"
)

// RouteQuoter turns a fee-adjusted input amount into a destination
// amount: 1:1 for wrap/unwrap, through the AMM for exchanges.
type RouteQuoter struct {
	evm    ports.EvmClient
	tokens map[domain.Asset]string
}

func NewRouteQuoter(evm ports.EvmClient, tokens map[domain.Asset]string) *RouteQuoter {
	return &RouteQuoter{evm: evm, tokens: tokens}
}

// TokenAddress resolves an asset to its destination-chain token address.
func (q *RouteQuoter) TokenAddress(asset domain.Asset) (string, error) {
	addr, ok := q.tokens[asset]
	if !ok {
		return "", fmt.Errorf("%w: no token address for %s", domain.ErrNoRouteFound, asset)
	}
	return addr, nil
}

// Quote computes the destination amount for netAfterFee, expressed in
// the source asset's base units. Wrap and unwrap requests never touch
// the AMM. Exchange requests prefer the direct pair and fall back to a
// two-hop route through the wrapped gas token; the input is rounded up
// before quoting so truncation can only make the quote fractionally
// less favorable to the user, never more.
func (q *RouteQuoter) Quote(
	ctx context.Context, netAfterFee decimal.Decimal, from, to domain.Asset,
) (*big.Int, error) {
	if from != domain.AssetBTC || to == domain.AssetTeleBTC {
		// wrap or burn, fee-adjusted but not price-routed
		return netAfterFee.Truncate(0).BigInt(), nil
	}

	fromToken, err := q.TokenAddress(domain.AssetTeleBTC)
	if err != nil {
		return nil, err
	}
	toToken, err := q.TokenAddress(to)
	if err != nil {
		return nil, err
	}

	path := []string{fromToken, toToken}
	pair, err := q.evm.GetPair(ctx, fromToken, toToken)
	if err != nil {
		return nil, fmt.Errorf("get pair: %w", err)
	}
	if pair == teleport.ZeroAddress {
		// the wrapped BTC token is always paired with the wrapped gas
		// token, so try routing through it
		bridge, err := q.TokenAddress(domain.AssetWrappedNative)
		if err != nil {
			return nil, err
		}
		hop, err := q.evm.GetPair(ctx, bridge, toToken)
		if err != nil {
			return nil, fmt.Errorf("get pair: %w", err)
		}
		if hop == teleport.ZeroAddress {
			return nil, domain.ErrNoRouteFound
		}
		path = []string{fromToken, bridge, toToken}
	}

	amountIn := netAfterFee.Ceil().BigInt()
	amounts, err := q.evm.GetAmountsOut(ctx, amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("get amounts out: %w", err)
	}
	if len(amounts) == 0 {
		return nil, fmt.Errorf("empty amounts for path %v", path)
	}
	return amounts[len(amounts)-1], nil
}
