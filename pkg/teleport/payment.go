// Package teleport encodes the payment instructions embedded in the
// OP_RETURN output of a funding transaction. The destination contracts
// parse the same layout to mint or exchange the transferred amount.
package teleport

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// AppId selects the destination-chain application handling the request.
const (
	TransferAppId uint8 = 0
	ExchangeAppId uint8 = 1
)

const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Wire layout, big-endian, fixed width:
//
//	chainId        4 bytes
//	appId          1 byte
//	recipient     20 bytes
//	percentageFee  2 bytes (basis points)
//	speed          1 byte
//	flags          1 byte (bit0 isExchange, bit1 isFixedToken)
//	exchangeToken 20 bytes
//	outputAmount  28 bytes
//	deadline       4 bytes (unix seconds)
const payloadSize = 4 + 1 + 20 + 2 + 1 + 1 + 20 + 28 + 4

const (
	flagExchange   = 1 << 0
	flagFixedToken = 1 << 1
)

var (
	ErrBadAddress  = errors.New("address must be 20 hex-encoded bytes")
	ErrBadAmount   = errors.New("output amount out of range")
	ErrBadPayload  = fmt.Errorf("payload must be %d bytes", payloadSize)
	maxOutput      = new(big.Int).Lsh(big.NewInt(1), 28*8)
	maxPercentFee  = uint16(10000)
	ErrBadFeeShare = errors.New("percentage fee above 100%")
)

// PaymentData is the field set the destination contracts expect. All
// amount fields are unsigned integers; floats never enter the encoding.
type PaymentData struct {
	ChainId       uint32
	AppId         uint8
	Recipient     string
	PercentageFee uint16 // basis points of the transferred amount
	Speed         uint8
	IsExchange    bool
	ExchangeToken string
	OutputAmount  *big.Int
	Deadline      uint32
	IsFixedToken  bool
}

// Encode packs the payment data into its OP_RETURN wire form.
func (p PaymentData) Encode() ([]byte, error) {
	recipient, err := addressBytes(p.Recipient)
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	token, err := addressBytes(p.ExchangeToken)
	if err != nil {
		return nil, fmt.Errorf("exchange token: %w", err)
	}
	if p.PercentageFee > maxPercentFee {
		return nil, ErrBadFeeShare
	}
	amount := p.OutputAmount
	if amount == nil {
		amount = new(big.Int)
	}
	if amount.Sign() < 0 || amount.Cmp(maxOutput) >= 0 {
		return nil, ErrBadAmount
	}

	buf := make([]byte, 0, payloadSize)
	buf = binary.BigEndian.AppendUint32(buf, p.ChainId)
	buf = append(buf, p.AppId)
	buf = append(buf, recipient...)
	buf = binary.BigEndian.AppendUint16(buf, p.PercentageFee)
	buf = append(buf, p.Speed)

	var flags uint8
	if p.IsExchange {
		flags |= flagExchange
	}
	if p.IsFixedToken {
		flags |= flagFixedToken
	}
	buf = append(buf, flags)
	buf = append(buf, token...)
	buf = append(buf, amount.FillBytes(make([]byte, 28))...)
	buf = binary.BigEndian.AppendUint32(buf, p.Deadline)
	return buf, nil
}

// Decode parses an OP_RETURN payload back into its fields.
func Decode(raw []byte) (*PaymentData, error) {
	if len(raw) != payloadSize {
		return nil, ErrBadPayload
	}
	p := &PaymentData{
		ChainId:       binary.BigEndian.Uint32(raw[0:4]),
		AppId:         raw[4],
		Recipient:     "0x" + hex.EncodeToString(raw[5:25]),
		PercentageFee: binary.BigEndian.Uint16(raw[25:27]),
		Speed:         raw[27],
		IsExchange:    raw[28]&flagExchange != 0,
		IsFixedToken:  raw[28]&flagFixedToken != 0,
		ExchangeToken: "0x" + hex.EncodeToString(raw[29:49]),
		OutputAmount:  new(big.Int).SetBytes(raw[49:77]),
		Deadline:      binary.BigEndian.Uint32(raw[77:81]),
	}
	return p, nil
}

func addressBytes(addr string) ([]byte, error) {
	if addr == "" {
		addr = ZeroAddress
	}
	b, err := hex.DecodeString(strings.TrimPrefix(addr, "0x"))
	if err != nil || len(b) != 20 {
		return nil, ErrBadAddress
	}
	return b, nil
}
