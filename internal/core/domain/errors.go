package domain

import "errors"

var (
	// ErrUnsupportedRoute is returned when the (from, to, network) triple
	// is not registered in the catalog.
	ErrUnsupportedRoute = errors.New("unsupported swap route")

	// ErrNoRouteFound is returned when neither a direct nor a two-hop
	// liquidity pair exists for an exchange request.
	ErrNoRouteFound = errors.New("no liquidity route found")

	// ErrAmountTooLow is returned when the requested amount does not
	// cover the swap fees, so the net output would not be positive.
	ErrAmountTooLow = errors.New("amount below minimum")

	// ErrNoLockerAvailable is returned when the registry reports no
	// eligible locker for the requested amount. The condition is
	// time-varying, callers may retry later.
	ErrNoLockerAvailable = errors.New("no locker available")

	// ErrSwapNotFound is returned when the requested swap id is unknown.
	ErrSwapNotFound = errors.New("swap not found")

	// ErrTxNotFound marks a transaction hash not yet indexed by the
	// chain backend. Pollers retry it on the next interval instead of
	// failing the swap.
	ErrTxNotFound = errors.New("transaction not found")

	// ErrEncoding marks a malformed payload construction. Fatal for the
	// swap attempt, the record stays at NEW.
	ErrEncoding = errors.New("payload encoding failed")
)
