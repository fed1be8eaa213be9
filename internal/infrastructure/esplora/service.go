package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/internal/core/ports"
)

type Service interface {
	ports.BitcoinReader
	GetBlockHeight(ctx context.Context) (int64, error)
}

type service struct {
	baseUrl string
}

func NewService(url string) Service {
	return &service{
		baseUrl: url,
	}
}

func (s *service) GetBlockHeight(ctx context.Context) (int64, error) {
	url := strings.TrimRight(s.baseUrl, "/") + "/blocks/tip/height"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get height: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse height: %w", err)
	}
	return n, nil
}

type txStatus struct {
	Confirmed   bool  `json:"confirmed"`
	BlockHeight int64 `json:"block_height"`
}

type txResponse struct {
	Txid   string   `json:"txid"`
	Status txStatus `json:"status"`
}

// GetTransaction looks up a transaction and derives its confirmation
// count from the chain tip. An unknown txid yields domain.ErrTxNotFound
// so pollers can retry instead of failing the swap.
func (s *service) GetTransaction(ctx context.Context, txHash string) (*ports.BitcoinTx, error) {
	url := strings.TrimRight(s.baseUrl, "/") + "/tx/" + txHash

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get tx: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrTxNotFound, txHash)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var tx txResponse
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("parse tx: %w", err)
	}

	var confirmations uint64
	if tx.Status.Confirmed {
		tip, err := s.GetBlockHeight(ctx)
		if err != nil {
			return nil, err
		}
		if tip >= tx.Status.BlockHeight {
			confirmations = uint64(tip-tx.Status.BlockHeight) + 1
		}
	}

	return &ports.BitcoinTx{Hash: tx.Txid, Confirmations: confirmations}, nil
}
