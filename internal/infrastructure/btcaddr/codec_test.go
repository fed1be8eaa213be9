package btcaddr_test

import (
	"testing"

	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/TeleportDAO/teleswapd/internal/infrastructure/btcaddr"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	codec := btcaddr.NewCodec()

	t.Run("mainnet p2pkh", func(t *testing.T) {
		parsed, err := codec.ParseAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", false)
		require.NoError(t, err)
		require.Equal(t, ports.AddressP2PKH, parsed.Type)
		require.Len(t, parsed.ScriptHash, 20)
	})

	t.Run("testnet p2pkh", func(t *testing.T) {
		parsed, err := codec.ParseAddress("mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn", true)
		require.NoError(t, err)
		require.Equal(t, ports.AddressP2PKH, parsed.Type)
		require.Len(t, parsed.ScriptHash, 20)
	})

	t.Run("testnet p2sh", func(t *testing.T) {
		parsed, err := codec.ParseAddress("2MzQwSSnBHWHqSAqtTVQ6v47XtaisrJa1Vc", true)
		require.NoError(t, err)
		require.Equal(t, ports.AddressP2SH, parsed.Type)
		require.Len(t, parsed.ScriptHash, 20)
	})

	t.Run("testnet p2wpkh", func(t *testing.T) {
		parsed, err := codec.ParseAddress("tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx", true)
		require.NoError(t, err)
		require.Equal(t, ports.AddressP2WPKH, parsed.Type)
		require.Len(t, parsed.ScriptHash, 20)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.ParseAddress("not-an-address", true)
		require.Error(t, err)
	})

	t.Run("wrong network", func(t *testing.T) {
		_, err := codec.ParseAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", true)
		require.Error(t, err)
	})
}
