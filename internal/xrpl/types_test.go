package xrpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStreamTransaction_Payment(t *testing.T) {
	raw := `{
		"engine_result": "tesSUCCESS",
		"hash": "HTOP",
		"meta": {
			"AffectedNodes": [
				{"ModifiedNode": {
					"LedgerEntryType": "AccountRoot",
					"LedgerIndex": "IDX",
					"FinalFields": {"Account": "rA", "Balance": "5000000"}
				}}
			]
		},
		"tx_json": {
			"TransactionType": "Payment",
			"Account": "rA",
			"Destination": "rB",
			"Amount": "1000000",
			"date": 700000000
		}
	}`

	tx, err := DecodeStreamTransaction([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, TxPayment, tx.Type)
	assert.True(t, tx.Succeeded())
	assert.Equal(t, "rA", tx.Account)
	assert.Equal(t, "rB", tx.Destination)
	assert.Equal(t, "1000000", tx.Amount.Drops)
	assert.False(t, tx.Amount.IsIssued())
	assert.Equal(t, int64(700000000), tx.Timestamp)
	// tx_json has no hash; the top-level one is used.
	assert.Equal(t, "HTOP", tx.Hash)
	require.NotNil(t, tx.Meta)
	require.Len(t, tx.Meta.AffectedNodes, 1)
	assert.Equal(t, EntryAccountRoot, tx.Meta.AffectedNodes[0].Entry)
}

func TestDecodeStreamTransaction_LegacyTransactionKey(t *testing.T) {
	raw := `{
		"engine_result": "tecUNFUNDED_PAYMENT",
		"transaction": {
			"TransactionType": "Payment",
			"Account": "rA",
			"Destination": "rB",
			"Amount": {"currency": "USD", "issuer": "rIssuer", "value": "12.5"},
			"hash": "HLEGACY"
		}
	}`

	tx, err := DecodeStreamTransaction([]byte(raw))
	require.NoError(t, err)

	assert.False(t, tx.Succeeded())
	assert.Equal(t, "HLEGACY", tx.Hash)
	require.True(t, tx.Amount.IsIssued())
	assert.Equal(t, "USD", tx.Amount.Issued.Currency)
	assert.Equal(t, "rIssuer", tx.Amount.Issued.Issuer)
	assert.Equal(t, "12.5", tx.Amount.Issued.Value)
}

func TestDecodeStreamTransaction_NoBody(t *testing.T) {
	_, err := DecodeStreamTransaction([]byte(`{"engine_result": "tesSUCCESS"}`))
	assert.Error(t, err)
}

func TestTransaction_IsSellOfferCreate(t *testing.T) {
	assert.True(t, (&Transaction{Flags: 1}).IsSellOfferCreate())
	assert.True(t, (&Transaction{Flags: 0x80000001}).IsSellOfferCreate())
	assert.False(t, (&Transaction{Flags: 0}).IsSellOfferCreate())
	assert.False(t, (&Transaction{Flags: 8}).IsSellOfferCreate())
}
