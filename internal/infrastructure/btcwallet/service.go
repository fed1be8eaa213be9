// Package btcwallet talks to an external wallet daemon over HTTP. The
// daemon owns the keys and signs; this process only describes the
// transaction it wants funded.
package btcwallet

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TeleportDAO/teleswapd/internal/core/ports"
)

type Api struct {
	URL    string
	Client http.Client
}

func NewService(url string) ports.BitcoinWallet {
	return &Api{URL: url, Client: http.Client{Timeout: 30 * time.Second}}
}

type sendTransactionRequest struct {
	To       string `json:"to"`
	Amount   uint64 `json:"amount"`
	OpReturn string `json:"opReturn,omitempty"`
	FeeRate  uint64 `json:"feeRate,omitempty"`
}

type sendTransactionResponse struct {
	Txid  string `json:"txid"`
	Error string `json:"error"`
}

func (w *Api) SendTransaction(ctx context.Context, req ports.FundingRequest) (string, error) {
	resp, err := sendPostRequest[sendTransactionResponse](ctx, w, "/transactions", sendTransactionRequest{
		To:       req.To,
		Amount:   req.AmountSat,
		OpReturn: hex.EncodeToString(req.OpReturn),
		FeeRate:  req.FeeRate,
	})
	if err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("%s", resp.Error)
	}
	return resp.Txid, nil
}

type candidateTx struct {
	Level   string `json:"level"`
	Value   uint64 `json:"value"`
	Data    string `json:"data,omitempty"`
	FeeRate uint64 `json:"feeRate"`
}

type totalFeesRequest struct {
	Txs      []candidateTx `json:"txs"`
	MaxSpend bool          `json:"maxSpend"`
}

type totalFeesResponse struct {
	Fees  map[string]uint64 `json:"fees"`
	Error string            `json:"error"`
}

func (w *Api) GetTotalFees(
	ctx context.Context, txs []ports.CandidateTx, maxSpend bool,
) (map[string]uint64, error) {
	candidates := make([]candidateTx, 0, len(txs))
	for _, tx := range txs {
		candidates = append(candidates, candidateTx{
			Level:   tx.Level,
			Value:   tx.ValueSat,
			Data:    hex.EncodeToString(tx.Data),
			FeeRate: tx.FeeRate,
		})
	}
	resp, err := sendPostRequest[totalFeesResponse](ctx, w, "/fees/total", totalFeesRequest{
		Txs:      candidates,
		MaxSpend: maxSpend,
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Fees, nil
}

func sendPostRequest[T any](ctx context.Context, w *Api, endpoint string, requestBody interface{}) (*T, error) {
	rawBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, w.URL+"/v1"+endpoint, bytes.NewBuffer(rawBody),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := w.Client.Do(req)
	if err != nil {
		return nil, err
	}

	resp, err := unmarshalJson[T](res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not parse wallet response with status %d: %v", res.StatusCode, err)
	}
	return resp, nil
}

func unmarshalJson[T any](body io.ReadCloser) (*T, error) {
	defer body.Close()
	rawBody, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	var res T
	if err := json.Unmarshal(rawBody, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
