package xrpl

import (
	"encoding/hex"
	"fmt"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
)

// pageOwnerHexLen is the length of the owning-account prefix of an
// NFTokenPage ledger index: the first 20 bytes of the index are the owner's
// account id.
const pageOwnerHexLen = 2 * addresscodec.AccountAddressLength

// CreatedOfferIndex returns the ledger index of the NFTokenOffer entry
// created by a transaction, or "" if it created none.
//
// Precondition: a transaction creates at most one NFT offer, so the first
// match is the only one. A transaction type that created several would need
// a multi-match scan instead.
func CreatedOfferIndex(nodes []AffectedNode) string {
	for _, n := range nodes {
		if n.IsCreated() && n.Entry == EntryNFTokenOffer {
			return n.LedgerIndex
		}
	}
	return ""
}

// AcceptedOfferIndex returns the ledger index of the NFTokenOffer entry
// consumed by an accept-offer transaction, or "" if none was deleted.
// Same single-offer precondition as CreatedOfferIndex; a brokered accept
// deletes two offers and callers wanting a specific one should resolve it
// through the offer reference on the transaction instead.
func AcceptedOfferIndex(nodes []AffectedNode) string {
	for _, n := range nodes {
		if n.IsDeleted() && n.Entry == EntryNFTokenOffer {
			return n.LedgerIndex
		}
	}
	return ""
}

// TokenIDForOffer resolves the token an offer was for, by finding the
// deleted NFTokenOffer entry with the given ledger index and reading the
// token id out of its final snapshot. The accept transaction itself never
// names the token; it only exists on the entry being deleted. Returns "" if
// the offer is not among the deleted nodes.
func TokenIDForOffer(offerIndex string, nodes []AffectedNode) string {
	for _, n := range nodes {
		if n.IsDeleted() && n.Entry == EntryNFTokenOffer && n.LedgerIndex == offerIndex {
			return n.FinalFields.NFTokenID
		}
	}
	return ""
}

// TokenPageAccounts returns the distinct accounts whose NFTokenPage entries
// were created, modified, or deleted by a transaction, in first-seen order.
// This is how every party to an NFT transfer is discovered: a brokered
// accept names only the broker on the transaction, but the buyer's and
// seller's token pages both change.
func TokenPageAccounts(nodes []AffectedNode) []string {
	var accounts []string
	seen := make(map[string]struct{})

	for _, n := range nodes {
		if n.Kind == NodeUnknown || n.Entry != EntryNFTokenPage {
			continue
		}
		account, err := PageAccount(n.LedgerIndex)
		if err != nil {
			// Malformed index; skip the node like any unrecognized entry.
			continue
		}
		if _, ok := seen[account]; ok {
			continue
		}
		seen[account] = struct{}{}
		accounts = append(accounts, account)
	}
	return accounts
}

// PageAccount decodes the owning account of an NFTokenPage from its ledger
// index, whose first 40 hex characters embed the 20-byte account id.
func PageAccount(ledgerIndex string) (string, error) {
	if len(ledgerIndex) < pageOwnerHexLen {
		return "", fmt.Errorf("ledger index %q too short for a token page", ledgerIndex)
	}
	accountID, err := hex.DecodeString(ledgerIndex[:pageOwnerHexLen])
	if err != nil {
		return "", fmt.Errorf("decode token page owner: %w", err)
	}
	return addresscodec.Encode(
		accountID,
		[]byte{addresscodec.AccountAddressPrefix},
		addresscodec.AccountAddressLength,
	)
}

// MintedTokenID returns the id of the token minted by a transaction.
// Servers that report it directly in the metadata win; otherwise it is
// derived by diffing the token pages: the one id present in a page's final
// state but in no page's previous state.
func MintedTokenID(meta *Meta) string {
	if meta == nil {
		return ""
	}
	if meta.TokenID != "" {
		return meta.TokenID
	}

	previous := make(map[string]struct{})
	var final []string

	for _, n := range meta.AffectedNodes {
		if n.Entry != EntryNFTokenPage {
			continue
		}
		switch n.Kind {
		case NodeCreated:
			for _, tok := range n.NewFields.NFTokens {
				final = append(final, tok.TokenID)
			}
		case NodeModified:
			for _, tok := range n.PreviousFields.NFTokens {
				previous[tok.TokenID] = struct{}{}
			}
			for _, tok := range n.FinalFields.NFTokens {
				final = append(final, tok.TokenID)
			}
		case NodeDeleted:
			for _, tok := range n.FinalFields.NFTokens {
				previous[tok.TokenID] = struct{}{}
			}
		}
	}

	for _, id := range final {
		if _, ok := previous[id]; !ok {
			return id
		}
	}
	return ""
}
