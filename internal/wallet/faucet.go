// Package wallet bootstraps funded test-net wallets through a faucet.
// Key custody and signing stay with the caller; only the funded address is
// used here, to subscribe it on the event engine.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/walletwatch/xrpl-wallet-events/pkg/common/logger"
	"github.com/walletwatch/xrpl-wallet-events/pkg/retry"
)

const (
	defaultTimeout = 20 * time.Second
	fundAttempts   = 3
	fundRetryPause = 2 * time.Second
)

// FundResult is a faucet grant: the funded address and the granted amount
// in XRP. Seed is only set for wallets the faucet itself generated.
type FundResult struct {
	Address string
	Seed    string
	Amount  float64
}

type Faucet struct {
	url    string
	client *http.Client
	pause  time.Duration
}

func NewFaucet(url string) *Faucet {
	return &Faucet{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		pause:  fundRetryPause,
	}
}

// Fund asks the faucet to fund destination. An empty destination makes the
// faucet generate a fresh wallet. Transient faucet failures are retried a
// few times before giving up.
func (f *Faucet) Fund(ctx context.Context, destination string) (*FundResult, error) {
	var result *FundResult
	err := retry.Constant(func() error {
		var err error
		result, err = f.fundOnce(ctx, destination)
		if err != nil {
			logger.Warn("faucet funding attempt failed", "err", err)
		}
		return err
	}, f.pause, fundAttempts)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Faucet) fundOnce(ctx context.Context, destination string) (*FundResult, error) {
	payload := map[string]string{}
	if destination != "" {
		payload["destination"] = destination
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("faucet request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("faucet returned %d: %s", resp.StatusCode, data)
	}

	var parsed struct {
		Account struct {
			ClassicAddress string `json:"classicAddress"`
			Address        string `json:"address"`
			Secret         string `json:"secret"`
		} `json:"account"`
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode faucet response: %w", err)
	}

	address := parsed.Account.ClassicAddress
	if address == "" {
		address = parsed.Account.Address
	}
	if address == "" {
		return nil, fmt.Errorf("faucet response names no account")
	}

	return &FundResult{
		Address: address,
		Seed:    parsed.Account.Secret,
		Amount:  parsed.Amount,
	}, nil
}
