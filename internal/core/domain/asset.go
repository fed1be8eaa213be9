package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Network is the deployment tier the daemon operates on.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

func (n Network) Valid() bool {
	return n == Mainnet || n == Testnet
}

// Chain identifies a ledger, independently of the assets living on it.
type Chain string

const (
	ChainBitcoin Chain = "bitcoin"
	ChainPolygon Chain = "polygon"
)

// Asset is a currency symbol known to the catalog. BTC lives on the
// Bitcoin chain, everything else is a token on the destination chain.
type Asset string

const (
	AssetBTC           Asset = "BTC"
	AssetTeleBTC       Asset = "TELEBTC"
	AssetWrappedNative Asset = "WMATIC"
)

func (a Asset) Chain() Chain {
	if a == AssetBTC {
		return ChainBitcoin
	}
	return ChainPolygon
}

// Decimals returns the number of base-unit digits of the asset.
// BTC and its wrapped representation count in satoshis.
func (a Asset) Decimals() int32 {
	switch a {
	case AssetBTC, AssetTeleBTC:
		return 8
	default:
		return 18
	}
}

// DisplayAmount converts a base-unit amount to the asset's human unit.
func (a Asset) DisplayAmount(baseUnits *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(baseUnits, -a.Decimals())
}

// BaseAmount converts a human-unit amount to base units, truncating any
// fraction below one base unit.
func (a Asset) BaseAmount(display decimal.Decimal) *big.Int {
	return display.Shift(a.Decimals()).Truncate(0).BigInt()
}

// BaseDecimal converts a human-unit amount to base units without
// truncation, for callers that round explicitly.
func (a Asset) BaseDecimal(display decimal.Decimal) decimal.Decimal {
	return display.Shift(a.Decimals())
}
