package ports

import (
	"context"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FeeModel selects the oracle's fee formula.
type FeeModel string

const (
	FeeModelTransfer FeeModel = "transfer"
	FeeModelBurn     FeeModel = "burn"
)

// FeeQuery asks the oracle for the fee breakdown of one operation.
// Amount is in BTC display units; zero is valid and yields the fixed
// teleporter fee component only.
type FeeQuery struct {
	Amount  decimal.Decimal
	Type    FeeModel
	Testnet bool
}

// FeeOracle is the off-chain fee/liquidity oracle. Pure query, no
// retries; callers decide whether to retry.
type FeeOracle interface {
	CalculateFee(ctx context.Context, q FeeQuery) (*domain.FeeBreakdown, error)
}

// LockerQuery asks the registry for the preferred locker of one
// operation. Amount is in BTC display units, not satoshis.
type LockerQuery struct {
	Amount  decimal.Decimal
	Type    FeeModel
	Testnet bool
}

// LockerList is the registry response. Preferred is nil when no locker
// is active with enough capacity.
type LockerList struct {
	Preferred *domain.Locker
}

// LockerRegistry enumerates custodial lockers. Read-only from this
// daemon's perspective.
type LockerRegistry interface {
	GetLockers(ctx context.Context, q LockerQuery) (*LockerList, error)
}

// Notifier consumes status transitions for presentation.
type Notifier interface {
	Notify(swap domain.SwapRecord, message string)
}
