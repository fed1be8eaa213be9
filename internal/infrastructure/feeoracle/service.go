// Package feeoracle queries the off-chain fee oracle for the
// protocol/locker/teleporter fee breakdown of a transfer or burn.
package feeoracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TeleportDAO/teleswapd/internal/core/domain"
	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/shopspring/decimal"
)

type Api struct {
	URL    string
	Client http.Client
}

func NewService(url string) ports.FeeOracle {
	return &Api{URL: url, Client: http.Client{Timeout: 15 * time.Second}}
}

type calculateFeeRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Type    string          `json:"type"`
	Testnet bool            `json:"testnet"`
}

type calculateFeeResponse struct {
	TeleporterFeeInBTC      decimal.Decimal `json:"teleporterFeeInBTC"`
	TeleporterPercentageFee decimal.Decimal `json:"teleporterPercentageFee"`
	TransactionFeeInBTC     decimal.Decimal `json:"transactionFeeInBTC"`
	TotalFeeInBTC           decimal.Decimal `json:"totalFeeInBTC"`
	Error                   string          `json:"error"`
}

func (o *Api) CalculateFee(ctx context.Context, q ports.FeeQuery) (*domain.FeeBreakdown, error) {
	rawBody, err := json.Marshal(calculateFeeRequest{
		Amount:  q.Amount,
		Type:    string(q.Type),
		Testnet: q.Testnet,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, o.URL+"/v1/fees/calculate", bytes.NewBuffer(rawBody),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := o.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var resp calculateFeeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("could not parse oracle response with status %d: %v", res.StatusCode, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s", resp.Error)
	}

	return &domain.FeeBreakdown{
		TeleporterFeeInBTC:      resp.TeleporterFeeInBTC,
		TeleporterPercentageFee: resp.TeleporterPercentageFee,
		TransactionFeeInBTC:     resp.TransactionFeeInBTC,
		TotalFeeInBTC:           resp.TotalFeeInBTC,
	}, nil
}
