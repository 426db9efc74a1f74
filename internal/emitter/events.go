// Package emitter re-projects the raw ledger transaction stream into
// per-address wallet events: balance changes, payments, and the NFT
// mint/burn/offer lifecycle. Listeners register per address and event kind;
// the feed-level account subscription is reference counted underneath.
package emitter

import "github.com/walletwatch/xrpl-wallet-events/internal/xrpl"

// Kind names one wallet event.
type Kind string

const (
	KindBalanceChange    Kind = "balance-change"
	KindPaymentSent      Kind = "payment-sent"
	KindPaymentReceived  Kind = "payment-received"
	KindCurrencyChange   Kind = "currency-change"
	KindCurrencySent     Kind = "currency-sent"
	KindCurrencyReceived Kind = "currency-received"
	KindTokenMint        Kind = "token-mint"
	KindTokenBurn        Kind = "token-burn"
	KindCreateBuyOffer   Kind = "create-buy-offer"
	KindCreateSellOffer  Kind = "create-sell-offer"
	KindCancelBuyOffer   Kind = "cancel-buy-offer"
	KindCancelSellOffer  Kind = "cancel-sell-offer"
	KindAcceptBuyOffer   Kind = "accept-buy-offer"
	KindAcceptSellOffer  Kind = "accept-sell-offer"
	KindTransferToken    Kind = "transfer-token"
	KindRefreshTokens    Kind = "refresh-tokens"
)

// Kinds returns every event kind, for listeners that want them all.
func Kinds() []Kind {
	return []Kind{
		KindBalanceChange,
		KindPaymentSent,
		KindPaymentReceived,
		KindCurrencyChange,
		KindCurrencySent,
		KindCurrencyReceived,
		KindTokenMint,
		KindTokenBurn,
		KindCreateBuyOffer,
		KindCreateSellOffer,
		KindCancelBuyOffer,
		KindCancelSellOffer,
		KindAcceptBuyOffer,
		KindAcceptSellOffer,
		KindTransferToken,
		KindRefreshTokens,
	}
}

// Event is one wallet event. Field order on the concrete types mirrors the
// wire contract and must not change.
type Event interface {
	Kind() Kind
}

// Handler receives events of the kind it was registered for.
type Handler func(Event)

type BalanceChanged struct {
	BalanceDrops string  `json:"balance_drops"`
	BalanceXRP   float64 `json:"balance_xrp"`
	Hash         string  `json:"hash"`
}

type PaymentSent struct {
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
}

type PaymentReceived struct {
	From      string `json:"from"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
}

// CurrencyChanged is a coarse invalidation signal: some issued-currency
// balance moved, details travel on CurrencySent/CurrencyReceived.
type CurrencyChanged struct{}

type CurrencySent struct {
	To        string            `json:"to"`
	Amount    xrpl.IssuedAmount `json:"amount"`
	Timestamp int64             `json:"timestamp"`
	Hash      string            `json:"hash"`
}

type CurrencyReceived struct {
	From      string            `json:"from"`
	Amount    xrpl.IssuedAmount `json:"amount"`
	Timestamp int64             `json:"timestamp"`
	Hash      string            `json:"hash"`
}

type TokenMinted struct {
	TokenID   string `json:"token_id"`
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
}

type TokenBurned struct {
	TokenID   string `json:"token_id"`
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
}

type BuyOfferCreated struct {
	LedgerIndex string      `json:"ledger_index"`
	TokenID     string      `json:"token_id"`
	Amount      xrpl.Amount `json:"amount"`
	Timestamp   int64       `json:"timestamp"`
	Hash        string      `json:"hash"`
}

type SellOfferCreated struct {
	LedgerIndex string      `json:"ledger_index"`
	TokenID     string      `json:"token_id"`
	Amount      xrpl.Amount `json:"amount"`
	Timestamp   int64       `json:"timestamp"`
	Hash        string      `json:"hash"`
}

type BuyOfferAccepted struct {
	OfferID   string `json:"offer_id"`
	TokenID   string `json:"token_id"`
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
}

type SellOfferAccepted struct {
	OfferID   string `json:"offer_id"`
	TokenID   string `json:"token_id"`
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
}

type BuyOfferCanceled struct {
	Hash string `json:"hash"`
}

type SellOfferCanceled struct {
	Hash string `json:"hash"`
}

type TokenTransferred struct {
	Hash string `json:"hash"`
}

type TokensRefreshed struct {
	Hash string `json:"hash"`
}

func (BalanceChanged) Kind() Kind    { return KindBalanceChange }
func (PaymentSent) Kind() Kind       { return KindPaymentSent }
func (PaymentReceived) Kind() Kind   { return KindPaymentReceived }
func (CurrencyChanged) Kind() Kind   { return KindCurrencyChange }
func (CurrencySent) Kind() Kind      { return KindCurrencySent }
func (CurrencyReceived) Kind() Kind  { return KindCurrencyReceived }
func (TokenMinted) Kind() Kind       { return KindTokenMint }
func (TokenBurned) Kind() Kind       { return KindTokenBurn }
func (BuyOfferCreated) Kind() Kind   { return KindCreateBuyOffer }
func (SellOfferCreated) Kind() Kind  { return KindCreateSellOffer }
func (BuyOfferCanceled) Kind() Kind  { return KindCancelBuyOffer }
func (SellOfferCanceled) Kind() Kind { return KindCancelSellOffer }
func (BuyOfferAccepted) Kind() Kind  { return KindAcceptBuyOffer }
func (SellOfferAccepted) Kind() Kind { return KindAcceptSellOffer }
func (TokenTransferred) Kind() Kind  { return KindTransferToken }
func (TokensRefreshed) Kind() Kind   { return KindRefreshTokens }
