package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaucet_FundDestination(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"account": map[string]string{"classicAddress": "rDestination1"},
			"amount":  100.0,
		})
	}))
	defer srv.Close()

	f := NewFaucet(srv.URL)
	f.pause = 0

	res, err := f.Fund(context.Background(), "rDestination1")
	require.NoError(t, err)
	assert.Equal(t, "rDestination1", res.Address)
	assert.Equal(t, 100.0, res.Amount)
	assert.Equal(t, "rDestination1", gotBody["destination"])
}

func TestFaucet_FundFreshWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "destination")

		json.NewEncoder(w).Encode(map[string]any{
			"account": map[string]string{
				"address": "rGenerated9",
				"secret":  "sSecretSeed",
			},
			"amount": 10.0,
		})
	}))
	defer srv.Close()

	f := NewFaucet(srv.URL)
	f.pause = 0

	res, err := f.Fund(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "rGenerated9", res.Address)
	assert.Equal(t, "sSecretSeed", res.Seed)
}

func TestFaucet_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"account": map[string]string{"classicAddress": "rRetry5"},
			"amount":  100.0,
		})
	}))
	defer srv.Close()

	f := NewFaucet(srv.URL)
	f.pause = 0

	res, err := f.Fund(context.Background(), "rRetry5")
	require.NoError(t, err)
	assert.Equal(t, "rRetry5", res.Address)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFaucet_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFaucet(srv.URL)
	f.pause = 0

	_, err := f.Fund(context.Background(), "rNope")
	require.Error(t, err)
	assert.Equal(t, int32(fundAttempts), calls.Load())
}

func TestFaucet_RejectsResponseWithoutAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"amount": 100.0})
	}))
	defer srv.Close()

	f := NewFaucet(srv.URL)
	f.pause = 0

	_, err := f.Fund(context.Background(), "rWhoever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account")
}
