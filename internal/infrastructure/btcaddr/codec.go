// Package btcaddr decodes bitcoin addresses into the script hash and
// script type the burn contract expects.
package btcaddr

import (
	"fmt"

	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

type codec struct{}

func NewCodec() ports.AddressCodec {
	return &codec{}
}

func (c *codec) ParseAddress(raw string, testnet bool) (*ports.ParsedAddress, error) {
	params := &chaincfg.MainNetParams
	if testnet {
		params = &chaincfg.TestNet3Params
	}

	addr, err := btcutil.DecodeAddress(raw, params)
	if err != nil {
		return nil, fmt.Errorf("invalid bitcoin address %s: %w", raw, err)
	}
	if !addr.IsForNet(params) {
		return nil, fmt.Errorf("address %s is for the wrong network", raw)
	}

	switch a := addr.(type) {
	case *btcutil.AddressPubKey:
		return &ports.ParsedAddress{
			ScriptHash: a.AddressPubKeyHash().Hash160()[:],
			Type:       ports.AddressP2PK,
		}, nil
	case *btcutil.AddressPubKeyHash:
		return &ports.ParsedAddress{
			ScriptHash: a.Hash160()[:],
			Type:       ports.AddressP2PKH,
		}, nil
	case *btcutil.AddressScriptHash:
		return &ports.ParsedAddress{
			ScriptHash: a.Hash160()[:],
			Type:       ports.AddressP2SH,
		}, nil
	case *btcutil.AddressWitnessPubKeyHash:
		return &ports.ParsedAddress{
			ScriptHash: a.WitnessProgram(),
			Type:       ports.AddressP2WPKH,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported address type for %s", raw)
	}
}
