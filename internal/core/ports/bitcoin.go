package ports

import (
	"context"
)

// BitcoinTx is the subset of a source-chain transaction the lifecycle
// cares about.
type BitcoinTx struct {
	Hash          string
	Confirmations uint64
}

// BitcoinReader looks up transactions on the source chain. A hash that
// is not yet indexed yields domain.ErrTxNotFound; any other failure is
// a transport error.
type BitcoinReader interface {
	GetTransaction(ctx context.Context, txHash string) (*BitcoinTx, error)
}

// FundingRequest is the funding transaction handed to the wallet daemon:
// pay AmountSat to the locker address and embed OpReturn as data output.
type FundingRequest struct {
	To        string
	AmountSat uint64
	OpReturn  []byte
	FeeRate   uint64
}

// CandidateTx describes one fee-estimation candidate per fee level.
// Level travels to the wallet daemon so its response can be keyed by
// the same names the caller used.
type CandidateTx struct {
	Level    string
	ValueSat uint64
	Data     []byte
	FeeRate  uint64
}

// BitcoinWallet submits signed transactions through an external wallet
// daemon. Key management never enters this process.
type BitcoinWallet interface {
	SendTransaction(ctx context.Context, req FundingRequest) (string, error)
	// GetTotalFees maps each candidate's fee level name to the total fee
	// in satoshis. maxSpend asks for a sweep of the whole balance.
	GetTotalFees(ctx context.Context, txs []CandidateTx, maxSpend bool) (map[string]uint64, error)
}

// AddressType numbers match the destination contract's script type enum.
type AddressType uint8

const (
	AddressP2PK AddressType = iota
	AddressP2PKH
	AddressP2SH
	AddressP2WPKH
)

// ParsedAddress is a source-chain address decomposed for the burn call.
type ParsedAddress struct {
	ScriptHash []byte
	Type       AddressType
}

// AddressCodec parses raw source-chain addresses.
type AddressCodec interface {
	ParseAddress(raw string, testnet bool) (*ParsedAddress, error)
}
