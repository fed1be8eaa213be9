// Package evm implements the destination-chain client on top of
// go-ethereum: contract reads for routing and settlement checks,
// calldata encoding and signed submission of approve/burn transactions.
package evm

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	erc20ABI    = `[{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}]`
	factoryABI  = `[{"constant":true,"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"name":"getPair","outputs":[{"name":"pair","type":"address"}],"type":"function"}]`
	routerABI   = `[{"constant":true,"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"type":"function"}]`
	burnABI     = `[{"constant":false,"inputs":[{"name":"_amount","type":"uint256"},{"name":"_userScript","type":"bytes"},{"name":"_scriptType","type":"uint8"},{"name":"_lockerLockingScript","type":"bytes"}],"name":"ccBurn","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`
	ccRouterABI = `[{"constant":true,"inputs":[{"name":"_txId","type":"bytes32"}],"name":"isRequestUsed","outputs":[{"name":"","type":"bool"}],"type":"function"}]`
)

// Config enumerates the connection info explicitly; nothing is reached
// through untyped blobs.
type Config struct {
	RpcURL     string
	ChainId    int64
	PrivateKey string
	AmmFactory string
	AmmRouter  string
}

type client struct {
	eth     *ethclient.Client
	chainId *big.Int

	privateKey *ecdsa.PrivateKey
	from       common.Address

	factory common.Address
	router  common.Address

	erc20    abi.ABI
	factoryA abi.ABI
	routerA  abi.ABI
	burn     abi.ABI
	ccRouter abi.ABI
}

func NewClient(cfg Config) (ports.EvmClient, error) {
	if cfg.RpcURL == "" {
		return nil, fmt.Errorf("missing rpc url")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("missing private key")
	}
	if !common.IsHexAddress(cfg.AmmFactory) || !common.IsHexAddress(cfg.AmmRouter) {
		return nil, fmt.Errorf("invalid amm contract address")
	}

	eth, err := ethclient.Dial(cfg.RpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rpc endpoint: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to get public key")
	}

	c := &client{
		eth:        eth,
		chainId:    big.NewInt(cfg.ChainId),
		privateKey: privateKey,
		from:       crypto.PubkeyToAddress(*publicKey),
		factory:    common.HexToAddress(cfg.AmmFactory),
		router:     common.HexToAddress(cfg.AmmRouter),
	}

	for _, p := range []struct {
		raw string
		dst *abi.ABI
	}{
		{erc20ABI, &c.erc20},
		{factoryABI, &c.factoryA},
		{routerABI, &c.routerA},
		{burnABI, &c.burn},
		{ccRouterABI, &c.ccRouter},
	} {
		parsed, err := abi.JSON(strings.NewReader(p.raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse abi: %w", err)
		}
		*p.dst = parsed
	}

	return c, nil
}

func (c *client) GetTransaction(ctx context.Context, txHash string) (*ports.EvmTx, error) {
	hash := common.HexToHash(txHash)

	_, isPending, err := c.eth.TransactionByHash(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTxNotFound, txHash)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if isPending {
		return &ports.EvmTx{Hash: txHash}, nil
	}

	receipt, err := c.eth.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	head, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get block number: %w", err)
	}

	var confirmations uint64
	if mined := receipt.BlockNumber.Uint64(); head >= mined {
		confirmations = head - mined + 1
	}
	return &ports.EvmTx{Hash: txHash, Confirmations: confirmations}, nil
}

func (c *client) SendTransaction(
	ctx context.Context, to string, value *big.Int, data []byte,
) (string, error) {
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("invalid recipient address: %s", to)
	}
	toAddress := common.HexToAddress(to)

	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.from,
		To:    &toAddress,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to estimate gas: %w", err)
	}
	gasLimit = gasLimit * 120 / 100

	tx := types.NewTransaction(nonce, toAddress, value, gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainId), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx.Hash().Hex(), nil
}

func (c *client) IsRequestUsed(ctx context.Context, router string, bitcoinTxHash string) (bool, error) {
	txId := common.HexToHash("0x" + strings.TrimPrefix(bitcoinTxHash, "0x"))
	data, err := c.ccRouter.Pack("isRequestUsed", txId)
	if err != nil {
		return false, fmt.Errorf("failed to pack isRequestUsed data: %w", err)
	}

	routerAddress := common.HexToAddress(router)
	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &routerAddress, Data: data}, nil)
	if err != nil {
		return false, fmt.Errorf("failed to call isRequestUsed: %w", err)
	}

	var used bool
	if err := c.ccRouter.UnpackIntoInterface(&used, "isRequestUsed", result); err != nil {
		return false, fmt.Errorf("failed to unpack isRequestUsed result: %w", err)
	}
	return used, nil
}

func (c *client) GetPair(ctx context.Context, tokenA, tokenB string) (string, error) {
	data, err := c.factoryA.Pack("getPair", common.HexToAddress(tokenA), common.HexToAddress(tokenB))
	if err != nil {
		return "", fmt.Errorf("failed to pack getPair data: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.factory, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call getPair: %w", err)
	}

	var pair common.Address
	if err := c.factoryA.UnpackIntoInterface(&pair, "getPair", result); err != nil {
		return "", fmt.Errorf("failed to unpack getPair result: %w", err)
	}
	return strings.ToLower(pair.Hex()), nil
}

func (c *client) GetAmountsOut(
	ctx context.Context, amountIn *big.Int, path []string,
) ([]*big.Int, error) {
	addresses := make([]common.Address, 0, len(path))
	for _, p := range path {
		addresses = append(addresses, common.HexToAddress(p))
	}

	data, err := c.routerA.Pack("getAmountsOut", amountIn, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to pack getAmountsOut data: %w", err)
	}

	result, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.router, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call getAmountsOut: %w", err)
	}

	var amounts []*big.Int
	if err := c.routerA.UnpackIntoInterface(&amounts, "getAmountsOut", result); err != nil {
		return nil, fmt.Errorf("failed to unpack getAmountsOut result: %w", err)
	}
	return amounts, nil
}

func (c *client) LatestBlockTime(ctx context.Context) (uint64, error) {
	header, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest header: %w", err)
	}
	return header.Time, nil
}

func (c *client) EncodeApprove(spender string, amount *big.Int) ([]byte, error) {
	return c.erc20.Pack("approve", common.HexToAddress(spender), amount)
}

func (c *client) EncodeBurn(
	amount *big.Int, userScript []byte, scriptType uint8, lockerLockingScript string,
) ([]byte, error) {
	lockerScript, err := hex.DecodeString(strings.TrimPrefix(lockerLockingScript, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid locker locking script: %w", err)
	}
	return c.burn.Pack("ccBurn", amount, userScript, scriptType, lockerScript)
}
