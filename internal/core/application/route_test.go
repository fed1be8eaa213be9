package application_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/TeleportDAO/teleswapd/internal/core/application"
	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/pkg/teleport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testTokens = map[domain.Asset]string{
	domain.AssetTeleBTC:       teleBTCToken,
	domain.AssetWrappedNative: wmaticToken,
	assetLink:                 linkToken,
}

func TestRouteQuoterWrap(t *testing.T) {
	ctx := context.Background()
	evm := &fakeEvm{}
	quoter := application.NewRouteQuoter(evm, testTokens)

	// wrap requests never touch the AMM, even with no pairs configured
	out, err := quoter.Quote(ctx, decimal.RequireFromString("990000"), domain.AssetBTC, domain.AssetTeleBTC)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(990000), out)

	// burn direction is 1:1 as well
	out, err = quoter.Quote(ctx, decimal.RequireFromString("500000"), domain.AssetTeleBTC, domain.AssetBTC)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(500000), out)
}

func TestRouteQuoterDirectPair(t *testing.T) {
	ctx := context.Background()
	evm := &fakeEvm{
		pairs:      map[[2]string]string{{teleBTCToken, linkToken}: pairAddress},
		amountsOut: []*big.Int{big.NewInt(777)},
	}
	quoter := application.NewRouteQuoter(evm, testTokens)

	out, err := quoter.Quote(ctx, decimal.RequireFromString("990000.4"), domain.AssetBTC, assetLink)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(777), out)
}

func TestRouteQuoterTwoHopFallback(t *testing.T) {
	ctx := context.Background()
	evm := &fakeEvm{
		pairs:      map[[2]string]string{{wmaticToken, linkToken}: pairAddress},
		amountsOut: []*big.Int{big.NewInt(10), big.NewInt(888)},
	}
	quoter := application.NewRouteQuoter(evm, testTokens)

	out, err := quoter.Quote(ctx, decimal.RequireFromString("990000"), domain.AssetBTC, assetLink)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(888), out)
}

func TestRouteQuoterNoRoute(t *testing.T) {
	ctx := context.Background()
	quoter := application.NewRouteQuoter(&fakeEvm{}, testTokens)

	_, err := quoter.Quote(ctx, decimal.RequireFromString("990000"), domain.AssetBTC, assetLink)
	require.ErrorIs(t, err, domain.ErrNoRouteFound)

	_, err = quoter.Quote(ctx, decimal.RequireFromString("1"), domain.AssetBTC, domain.Asset("UNKNOWN"))
	require.ErrorIs(t, err, domain.ErrNoRouteFound)
}

func TestSwapCatalog(t *testing.T) {
	catalog := application.NewSwapCatalog()

	require.True(t, catalog.IsSupported(domain.AssetBTC, domain.AssetTeleBTC, domain.Testnet))
	require.True(t, catalog.IsSupported(domain.AssetBTC, assetLink, domain.Mainnet))
	require.True(t, catalog.IsSupported(domain.AssetTeleBTC, domain.AssetBTC, domain.Testnet))
	// both assets on the destination chain is not a cross-chain swap
	require.False(t, catalog.IsSupported(domain.AssetTeleBTC, assetLink, domain.Testnet))
	require.False(t, catalog.IsSupported(domain.AssetBTC, domain.AssetTeleBTC, domain.Network("regtest")))
}

func TestExchangePayloadContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.NewSwap(ctx, application.NewSwapRequest{
		QuoteRequest: application.QuoteRequest{
			From:   domain.AssetBTC,
			To:     assetLink,
			Amount: decimal.RequireFromString("0.01"),
		},
		Recipient: evmRecipient,
		FeeRate:   10,
	})
	require.NoError(t, err)
	require.Len(t, f.wallet.sent, 1)

	data, err := teleport.Decode(f.wallet.sent[0].OpReturn)
	require.NoError(t, err)
	require.Equal(t, uint32(80001), data.ChainId)
	require.Equal(t, teleport.ExchangeAppId, data.AppId)
	require.True(t, data.IsExchange)
	require.Equal(t, evmRecipient, data.Recipient)
	require.Equal(t, linkToken, data.ExchangeToken)
	// 0.15% becomes 15 basis points
	require.Equal(t, uint16(15), data.PercentageFee)
	// 450000 quoted, minus the 10% slippage buffer
	require.Equal(t, big.NewInt(405000), data.OutputAmount)
	// latest block time plus the 100 minute window
	require.Equal(t, uint32(1700000000+6000), data.Deadline)
}

func TestWrapPayloadContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.NewSwap(ctx, application.NewSwapRequest{
		QuoteRequest: application.QuoteRequest{
			From:   domain.AssetBTC,
			To:     domain.AssetTeleBTC,
			Amount: decimal.RequireFromString("0.01"),
		},
		Recipient: evmRecipient,
	})
	require.NoError(t, err)
	require.Len(t, f.wallet.sent, 1)

	data, err := teleport.Decode(f.wallet.sent[0].OpReturn)
	require.NoError(t, err)
	require.Equal(t, teleport.TransferAppId, data.AppId)
	require.False(t, data.IsExchange)
	require.Equal(t, teleport.ZeroAddress, data.ExchangeToken)
	require.Zero(t, data.OutputAmount.Sign())
	require.Zero(t, data.Deadline)
}
