package teleport_test

import (
	"math/big"
	"testing"

	"github.com/TeleportDAO/teleswapd/pkg/teleport"
	"github.com/stretchr/testify/require"
)

const (
	recipient = "0x1111111111111111111111111111111111111111"
	token     = "0x2222222222222222222222222222222222222222"
)

func TestTransferPayload(t *testing.T) {
	data := teleport.PaymentData{
		ChainId:       80001,
		AppId:         teleport.TransferAppId,
		Recipient:     recipient,
		PercentageFee: 15,
		Speed:         1,
	}

	raw, err := data.Encode()
	require.NoError(t, err)
	require.Len(t, raw, 81)

	decoded, err := teleport.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, uint32(80001), decoded.ChainId)
	require.Equal(t, teleport.TransferAppId, decoded.AppId)
	require.Equal(t, recipient, decoded.Recipient)
	require.Equal(t, uint16(15), decoded.PercentageFee)
	require.Equal(t, uint8(1), decoded.Speed)
	require.False(t, decoded.IsExchange)
	require.False(t, decoded.IsFixedToken)
	require.Equal(t, teleport.ZeroAddress, decoded.ExchangeToken)
	require.Zero(t, decoded.OutputAmount.Sign())
	require.Zero(t, decoded.Deadline)
}

func TestExchangePayload(t *testing.T) {
	data := teleport.PaymentData{
		ChainId:       137,
		AppId:         teleport.ExchangeAppId,
		Recipient:     recipient,
		PercentageFee: 20,
		Speed:         0,
		IsExchange:    true,
		ExchangeToken: token,
		OutputAmount:  big.NewInt(123456789),
		Deadline:      1700000000,
		IsFixedToken:  false,
	}

	raw, err := data.Encode()
	require.NoError(t, err)

	decoded, err := teleport.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, teleport.ExchangeAppId, decoded.AppId)
	require.True(t, decoded.IsExchange)
	require.False(t, decoded.IsFixedToken)
	require.Equal(t, token, decoded.ExchangeToken)
	require.Equal(t, big.NewInt(123456789), decoded.OutputAmount)
	require.Equal(t, uint32(1700000000), decoded.Deadline)
}

func TestEncodeErrors(t *testing.T) {
	t.Run("bad recipient", func(t *testing.T) {
		data := teleport.PaymentData{Recipient: "not-an-address"}
		_, err := data.Encode()
		require.ErrorIs(t, err, teleport.ErrBadAddress)
	})

	t.Run("oversized amount", func(t *testing.T) {
		huge := new(big.Int).Lsh(big.NewInt(1), 28*8)
		data := teleport.PaymentData{Recipient: recipient, OutputAmount: huge}
		_, err := data.Encode()
		require.ErrorIs(t, err, teleport.ErrBadAmount)
	})

	t.Run("fee above full share", func(t *testing.T) {
		data := teleport.PaymentData{Recipient: recipient, PercentageFee: 10001}
		_, err := data.Encode()
		require.ErrorIs(t, err, teleport.ErrBadFeeShare)
	})
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	_, err := teleport.Decode(make([]byte, 80))
	require.ErrorIs(t, err, teleport.ErrBadPayload)
}
