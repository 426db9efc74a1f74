package emitter

import (
	"log/slog"
	"sync"

	"github.com/walletwatch/xrpl-wallet-events/internal/xrpl"
	"github.com/walletwatch/xrpl-wallet-events/pkg/common/logger"
)

// TransactionStream is the raw-transaction side of the ledger client: one
// handler at a time receives every validated transaction, in arrival order.
type TransactionStream interface {
	AttachTransactionHandler(fn func(*xrpl.Transaction))
	DetachTransactionHandler()
}

// NetworkEmitter consumes the transaction stream and routes each
// transaction to the subscribed addresses it affects. All classification
// and emission for one transaction happens synchronously in the stream
// callback, so per-transaction processing never interleaves.
type NetworkEmitter struct {
	mu       sync.Mutex
	stream   TransactionStream
	registry *Registry
	started  bool
	log      *slog.Logger
}

func NewNetworkEmitter(stream TransactionStream, registry *Registry) *NetworkEmitter {
	return &NetworkEmitter{
		stream:   stream,
		registry: registry,
		log:      logger.With("component", "network-emitter"),
	}
}

// Registry exposes the per-address subscription surface.
func (n *NetworkEmitter) Registry() *Registry {
	return n.registry
}

// Start attaches the transaction handler to the stream. Calling Start on a
// started emitter is a no-op: the handler is attached exactly once no
// matter how many listeners exist.
func (n *NetworkEmitter) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started {
		return
	}
	n.log.Debug("starting transaction stream")
	n.stream.AttachTransactionHandler(n.handleTransaction)
	n.started = true
}

// Stop detaches the handler. A no-op unless started.
func (n *NetworkEmitter) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.started {
		return
	}
	n.log.Debug("stopping transaction stream")
	n.stream.DetachTransactionHandler()
	n.started = false
}

func (n *NetworkEmitter) handleTransaction(tx *xrpl.Transaction) {
	if !tx.Succeeded() {
		n.log.Debug("skipping failed transaction", "hash", tx.Hash, "result", tx.Result)
		return
	}

	switch tx.Type {
	case xrpl.TxNFTokenMint:
		n.handleMint(tx)
	case xrpl.TxNFTokenBurn:
		n.handleBurn(tx)
	case xrpl.TxPayment:
		n.handlePayment(tx)
	case xrpl.TxNFTokenAcceptOffer:
		n.handleAcceptOffer(tx)
	case xrpl.TxNFTokenCreateOffer:
		n.handleCreateOffer(tx)
	}

	// Generic balance detection, independent of the transaction type: any
	// touched AccountRoot with a balance belongs to somebody.
	if tx.Meta != nil {
		n.processNodes(tx.Meta.AffectedNodes, tx.Hash)
	}
}

func (n *NetworkEmitter) handleMint(tx *xrpl.Transaction) {
	if tx.Meta == nil {
		return
	}
	// The minted id lives in the metadata, not on the transaction.
	n.registry.emit(tx.Account, TokenMinted{
		TokenID:   xrpl.MintedTokenID(tx.Meta),
		Timestamp: tx.Timestamp,
		Hash:      tx.Hash,
	})
}

func (n *NetworkEmitter) handleBurn(tx *xrpl.Transaction) {
	n.registry.emit(tx.Account, TokenBurned{
		TokenID:   tx.TokenID,
		Timestamp: tx.Timestamp,
		Hash:      tx.Hash,
	})
}

func (n *NetworkEmitter) handlePayment(tx *xrpl.Transaction) {
	if tx.Amount.IsIssued() {
		n.registry.emit(tx.Destination, CurrencyChanged{})
		n.registry.emit(tx.Destination, CurrencyReceived{
			From:      tx.Account,
			Amount:    *tx.Amount.Issued,
			Timestamp: tx.Timestamp,
			Hash:      tx.Hash,
		})
		n.registry.emit(tx.Account, CurrencyChanged{})
		n.registry.emit(tx.Account, CurrencySent{
			To:        tx.Destination,
			Amount:    *tx.Amount.Issued,
			Timestamp: tx.Timestamp,
			Hash:      tx.Hash,
		})
		return
	}

	n.registry.emit(tx.Destination, PaymentReceived{
		From:      tx.Account,
		Amount:    tx.Amount.Drops,
		Timestamp: tx.Timestamp,
		Hash:      tx.Hash,
	})
	n.registry.emit(tx.Account, PaymentSent{
		To:        tx.Destination,
		Amount:    tx.Amount.Drops,
		Timestamp: tx.Timestamp,
		Hash:      tx.Hash,
	})
}

func (n *NetworkEmitter) handleAcceptOffer(tx *xrpl.Transaction) {
	var nodes []xrpl.AffectedNode
	if tx.Meta != nil {
		nodes = tx.Meta.AffectedNodes
	}

	// Everyone whose token page moved is a party to the trade. The named
	// account can be a broker holding no page; add it explicitly.
	accounts := xrpl.TokenPageAccounts(nodes)
	named := false
	for _, account := range accounts {
		if account == tx.Account {
			named = true
			break
		}
	}
	if !named {
		accounts = append(accounts, tx.Account)
	}

	for _, account := range accounts {
		if !n.registry.Has(account) {
			continue
		}
		if tx.SellOffer != "" {
			n.registry.emit(account, SellOfferAccepted{
				OfferID:   tx.SellOffer,
				TokenID:   xrpl.TokenIDForOffer(tx.SellOffer, nodes),
				Timestamp: tx.Timestamp,
				Hash:      tx.Hash,
			})
		}
		if tx.BuyOffer != "" {
			n.registry.emit(account, BuyOfferAccepted{
				OfferID:   tx.BuyOffer,
				TokenID:   xrpl.TokenIDForOffer(tx.BuyOffer, nodes),
				Timestamp: tx.Timestamp,
				Hash:      tx.Hash,
			})
		}
	}
}

func (n *NetworkEmitter) handleCreateOffer(tx *xrpl.Transaction) {
	var nodes []xrpl.AffectedNode
	if tx.Meta != nil {
		nodes = tx.Meta.AffectedNodes
	}

	if tx.IsSellOfferCreate() {
		// Sell offers come from the token owner.
		n.registry.emit(tx.Account, SellOfferCreated{
			LedgerIndex: xrpl.CreatedOfferIndex(nodes),
			TokenID:     tx.TokenID,
			Amount:      tx.Amount,
			Timestamp:   tx.Timestamp,
			Hash:        tx.Hash,
		})
		return
	}

	// Buy offers are reported to the token's owner, not the bidder.
	if tx.Owner == "" {
		return
	}
	n.registry.emit(tx.Owner, BuyOfferCreated{
		LedgerIndex: xrpl.CreatedOfferIndex(nodes),
		TokenID:     tx.TokenID,
		Amount:      tx.Amount,
		Timestamp:   tx.Timestamp,
		Hash:        tx.Hash,
	})
}

func (n *NetworkEmitter) processNodes(nodes []xrpl.AffectedNode, hash string) {
	for _, node := range nodes {
		if node.Entry != xrpl.EntryAccountRoot {
			continue
		}
		if !node.IsModified() && !node.IsCreated() {
			continue
		}
		fields := node.Fields()
		if fields.Account == "" || fields.Balance == "" {
			continue
		}
		n.registry.emit(fields.Account, BalanceChanged{
			BalanceDrops: fields.Balance,
			BalanceXRP:   xrpl.DropsToXRP(fields.Balance),
			Hash:         hash,
		})
	}
}
