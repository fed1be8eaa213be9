package domain

import (
	"context"
)

// SwapStatus is the persisted lifecycle state of a swap. The values are
// stored as literal strings so the history survives schema changes.
type SwapStatus string

const (
	StatusNew                           SwapStatus = "NEW"
	StatusWaitingForSendConfirmations   SwapStatus = "WAITING_FOR_SEND_CONFIRMATIONS"
	StatusWaitingForReceive             SwapStatus = "WAITING_FOR_RECEIVE"
	StatusWaitingForApproveConfirmation SwapStatus = "WAITING_FOR_APPROVE_CONFIRMATIONS"
	StatusApproveConfirmed              SwapStatus = "APPROVE_CONFIRMED"
	StatusWaitingForBurnConfirmations   SwapStatus = "WAITING_FOR_BURN_CONFIRMATIONS"
	StatusSuccess                       SwapStatus = "SUCCESS"
	StatusFailed                        SwapStatus = "FAILED"
)

// Terminal reports whether no further transition may happen.
func (s SwapStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// RequestType distinguishes a plain wrap (mint of the wrapped BTC
// representation) from a wrap followed by an AMM exchange.
type RequestType int

const (
	RequestWrap RequestType = iota
	RequestSwap
)

func (t RequestType) String() string {
	if t == RequestWrap {
		return "WRAP"
	}
	return "SWAP"
}

// SwapRecord is the persisted state of a single cross-chain swap. It is
// created once, mutated only by its own lifecycle handler, and never
// deleted; once Status is terminal the record is immutable.
type SwapRecord struct {
	Id      string
	From    Asset
	To      Asset
	Network Network

	// FromAmount and ToAmount are base-unit integer strings.
	FromAmount string
	ToAmount   string

	// FeeRate is the sat/vbyte rate used for the Bitcoin funding tx.
	FeeRate uint64

	// Recipient is the destination-chain address receiving the funds:
	// an EVM address for wraps/swaps, a Bitcoin address for burns.
	Recipient string

	Status SwapStatus

	BitcoinTxHash string
	ApproveTxHash string
	BurnTxHash    string

	// BitcoinConfirmations is monotonically non-decreasing.
	BitcoinConfirmations uint64

	CreatedAt int64
	EndTime   int64
}

// RequestType derives the request kind from the asset pair at send time.
func (r *SwapRecord) RequestType() RequestType {
	if r.To == AssetTeleBTC {
		return RequestWrap
	}
	return RequestSwap
}

// SwapRepository stores the swaps initiated by this daemon.
type SwapRepository interface {
	GetAll(ctx context.Context) ([]SwapRecord, error)
	Get(ctx context.Context, swapId string) (*SwapRecord, error)
	Add(ctx context.Context, swap SwapRecord) error
	Update(ctx context.Context, swap SwapRecord) error
	Close()
}
