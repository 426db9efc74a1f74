package ledgerstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/walletwatch/xrpl-wallet-events/internal/xrpl"
)

// XRPBalance returns the validated XRP balance of an account, in drops.
func (c *Client) XRPBalance(ctx context.Context, address string) (string, error) {
	result, err := c.Request(ctx, map[string]any{
		"command":      "account_info",
		"account":      address,
		"ledger_index": "validated",
	})
	if err != nil {
		return "", err
	}

	var parsed struct {
		AccountData struct {
			Balance string `json:"Balance"`
		} `json:"account_data"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return "", fmt.Errorf("decode account_info result: %w", err)
	}
	return parsed.AccountData.Balance, nil
}

// AccountNFTs returns the tokens currently held by an account.
func (c *Client) AccountNFTs(ctx context.Context, address string) ([]xrpl.NFToken, error) {
	result, err := c.Request(ctx, map[string]any{
		"command": "account_nfts",
		"account": address,
	})
	if err != nil {
		return nil, err
	}

	// account_nfts items are flat objects, unlike the wrapped page lists.
	var parsed struct {
		AccountNFTs []struct {
			NFTokenID string `json:"NFTokenID"`
			URI       string `json:"URI"`
		} `json:"account_nfts"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("decode account_nfts result: %w", err)
	}

	tokens := make([]xrpl.NFToken, len(parsed.AccountNFTs))
	for i, t := range parsed.AccountNFTs {
		tokens[i] = xrpl.NFToken{TokenID: t.NFTokenID, URI: t.URI}
	}
	return tokens, nil
}
