// Package xrpl holds the XRP Ledger domain types this service consumes:
// decoded stream transactions, amounts, and transaction metadata with its
// affected ledger-entry nodes.
package xrpl

import (
	"encoding/json"
	"fmt"
)

type TxType string

const (
	TxPayment            TxType = "Payment"
	TxNFTokenMint        TxType = "NFTokenMint"
	TxNFTokenBurn        TxType = "NFTokenBurn"
	TxNFTokenCreateOffer TxType = "NFTokenCreateOffer"
	TxNFTokenCancelOffer TxType = "NFTokenCancelOffer"
	TxNFTokenAcceptOffer TxType = "NFTokenAcceptOffer"
)

// ResultSuccess is the engine result of a successfully applied transaction.
// Anything else (tec/tef/tem/ter classes) means the transaction had no
// effect worth reporting.
const ResultSuccess = "tesSUCCESS"

// lsfSellNFToken marks an NFTokenOffer (and its create transaction) as a
// sell offer; unset means buy.
const lsfSellNFToken uint32 = 0x00000001

// Transaction is one validated transaction from the ledger stream, decoded
// to the fields this engine routes on. It is never mutated after decode.
type Transaction struct {
	Type        TxType
	Account     string
	Destination string
	Owner       string
	Amount      Amount
	TokenID     string // NFTokenID transaction field (burn, create-offer)
	SellOffer   string // NFTokenSellOffer reference on accept-offer
	BuyOffer    string // NFTokenBuyOffer reference on accept-offer
	Flags       uint32
	Result      string // engine result, e.g. "tesSUCCESS"
	Timestamp   int64  // seconds since the ledger epoch
	Hash        string
	Meta        *Meta
}

func (t *Transaction) Succeeded() bool {
	return t.Result == ResultSuccess
}

func (t *Transaction) IsSellOfferCreate() bool {
	return t.Flags&lsfSellNFToken != 0
}

// Meta is a transaction's metadata: the ledger entries it affected, plus the
// minted token id when the server includes it directly.
type Meta struct {
	AffectedNodes []AffectedNode `json:"AffectedNodes"`
	TokenID       string         `json:"nftoken_id,omitempty"`
}

// streamTx mirrors the wire shape of a "transaction" stream message. Newer
// servers put the hash at the top level, older ones inside tx_json; both are
// accepted.
type streamTx struct {
	EngineResult string  `json:"engine_result"`
	Hash         string  `json:"hash"`
	Meta         *Meta   `json:"meta"`
	TxJSON       *txJSON `json:"tx_json"`
	// Pre-v2 servers nest the transaction under "transaction".
	Transaction *txJSON `json:"transaction"`
}

type txJSON struct {
	TransactionType  TxType  `json:"TransactionType"`
	Account          string  `json:"Account"`
	Destination      string  `json:"Destination"`
	Owner            string  `json:"Owner"`
	Amount           *Amount `json:"Amount"`
	NFTokenID        string  `json:"NFTokenID"`
	NFTokenSellOffer string  `json:"NFTokenSellOffer"`
	NFTokenBuyOffer  string  `json:"NFTokenBuyOffer"`
	Flags            uint32  `json:"Flags"`
	Date             int64   `json:"date"`
	Hash             string  `json:"hash"`
}

// DecodeStreamTransaction decodes one raw "transaction" stream message.
func DecodeStreamTransaction(data []byte) (*Transaction, error) {
	var raw streamTx
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode transaction stream message: %w", err)
	}

	body := raw.TxJSON
	if body == nil {
		body = raw.Transaction
	}
	if body == nil {
		return nil, fmt.Errorf("transaction stream message has no tx_json")
	}

	tx := &Transaction{
		Type:        body.TransactionType,
		Account:     body.Account,
		Destination: body.Destination,
		Owner:       body.Owner,
		TokenID:     body.NFTokenID,
		SellOffer:   body.NFTokenSellOffer,
		BuyOffer:    body.NFTokenBuyOffer,
		Flags:       body.Flags,
		Result:      raw.EngineResult,
		Timestamp:   body.Date,
		Hash:        body.Hash,
		Meta:        raw.Meta,
	}
	if tx.Hash == "" {
		tx.Hash = raw.Hash
	}
	if body.Amount != nil {
		tx.Amount = *body.Amount
	}
	return tx, nil
}
