package ports

import (
	"context"
	"math/big"
)

// EvmTx is the subset of a destination-chain transaction the lifecycle
// cares about.
type EvmTx struct {
	Hash          string
	Confirmations uint64
}

// EvmClient talks to the destination chain: contract reads, calldata
// encoding and signed submission. Implementations are safe for
// concurrent use by independent swap handlers.
type EvmClient interface {
	GetTransaction(ctx context.Context, txHash string) (*EvmTx, error)

	// SendTransaction submits a signed transaction and returns its hash.
	SendTransaction(ctx context.Context, to string, value *big.Int, data []byte) (string, error)

	// IsRequestUsed reports whether the teleporter already submitted the
	// proof for the given source-chain txid to the router contract.
	IsRequestUsed(ctx context.Context, router string, bitcoinTxHash string) (bool, error)

	// GetPair returns the AMM pair address for two tokens, or the zero
	// address when no pair exists.
	GetPair(ctx context.Context, tokenA, tokenB string) (string, error)

	// GetAmountsOut quotes an exact-input trade along path.
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []string) ([]*big.Int, error)

	// LatestBlockTime returns the timestamp of the latest block.
	LatestBlockTime(ctx context.Context) (uint64, error)

	// EncodeApprove builds ERC20 approve calldata.
	EncodeApprove(spender string, amount *big.Int) ([]byte, error)

	// EncodeBurn builds the burn-router ccBurn calldata.
	EncodeBurn(amount *big.Int, userScript []byte, scriptType uint8, lockerLockingScript string) ([]byte, error)
}
