package domain

import "github.com/shopspring/decimal"

// FeeBreakdown is the multi-part fee quoted by the fee oracle for one
// transfer or burn. All absolute amounts are BTC display units.
type FeeBreakdown struct {
	TeleporterFeeInBTC decimal.Decimal
	// TeleporterPercentageFee is a percentage of the transferred amount,
	// e.g. 0.15 means 0.15%.
	TeleporterPercentageFee decimal.Decimal
	TransactionFeeInBTC     decimal.Decimal
	TotalFeeInBTC           decimal.Decimal
}

// Locker is the custodial entity selected for one transfer. Both fields
// are copied out of the registry response; this daemon never mutates
// locker state.
type Locker struct {
	BitcoinAddress      string
	LockerLockingScript string
}
