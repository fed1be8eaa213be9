// Package lockers queries the locker registry for the preferred
// custodial locker of one operation. The registry is read-only from
// this daemon's perspective.
package lockers

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

func NewService(url string) ports.LockerRegistry {
	return &Api{URL: url, Client: http.Client{Timeout: 15 * time.Second}}
}

type getLockersRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Type    string          `json:"type"`
	Testnet bool            `json:"testnet"`
}

type lockerInfo struct {
	LockerLockingScript string `json:"lockerLockingScript"`
}

type preferredLocker struct {
	BitcoinAddress string     `json:"bitcoinAddress"`
	LockerInfo     lockerInfo `json:"lockerInfo"`
}

type getLockersResponse struct {
	PreferredLocker *preferredLocker `json:"preferredLocker"`
	Error           string           `json:"error"`
}

func (r *Api) GetLockers(ctx context.Context, q ports.LockerQuery) (*ports.LockerList, error) {
	rawBody, err := json.Marshal(getLockersRequest{
		Amount:  q.Amount,
		Type:    string(q.Type),
		Testnet: q.Testnet,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, r.URL+"/v1/lockers", bytes.NewBuffer(rawBody),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var resp getLockersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("could not parse registry response with status %d: %v", res.StatusCode, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s", resp.Error)
	}

	list := &ports.LockerList{}
	if resp.PreferredLocker != nil {
		list.Preferred = &domain.Locker{
			BitcoinAddress:      resp.PreferredLocker.BitcoinAddress,
			LockerLockingScript: resp.PreferredLocker.LockerInfo.LockerLockingScript,
		}
	}
	return list, nil
}
