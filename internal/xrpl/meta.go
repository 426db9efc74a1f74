package xrpl

import "encoding/json"

// NodeKind is the change kind of one affected ledger entry.
type NodeKind uint8

const (
	NodeUnknown NodeKind = iota
	NodeCreated
	NodeModified
	NodeDeleted
)

func (k NodeKind) String() string {
	switch k {
	case NodeCreated:
		return "created"
	case NodeModified:
		return "modified"
	case NodeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// EntryType is the ledger entry type of an affected node. Entry types this
// engine does not route on decode fine and are skipped by callers.
type EntryType string

const (
	EntryAccountRoot  EntryType = "AccountRoot"
	EntryNFTokenPage  EntryType = "NFTokenPage"
	EntryNFTokenOffer EntryType = "NFTokenOffer"
)

// EntryFields is the field bag of an affected node snapshot. The set is
// fixed to the fields this engine reads; unrelated ledger fields are
// dropped at decode.
type EntryFields struct {
	Account   string      `json:"Account,omitempty"`
	Balance   string      `json:"Balance,omitempty"`
	Owner     string      `json:"Owner,omitempty"`
	NFTokenID string      `json:"NFTokenID,omitempty"`
	Amount    *Amount     `json:"Amount,omitempty"`
	Flags     uint32      `json:"Flags,omitempty"`
	NFTokens  NFTokenList `json:"NFTokens,omitempty"`
}

// NFToken is one non-fungible token: its id and optional URI.
type NFToken struct {
	TokenID string `json:"NFTokenID"`
	URI     string `json:"URI,omitempty"`
}

// NFTokenList is a token page's token list. On the wire each entry is
// wrapped in an {"NFToken": {...}} object.
type NFTokenList []NFToken

func (l *NFTokenList) UnmarshalJSON(data []byte) error {
	var wrappers []struct {
		Inner NFToken `json:"NFToken"`
	}
	if err := json.Unmarshal(data, &wrappers); err != nil {
		return err
	}
	*l = make(NFTokenList, len(wrappers))
	for i, w := range wrappers {
		(*l)[i] = w.Inner
	}
	return nil
}

// AffectedNode is one entry of a transaction's affected-node list: a tagged
// union over change kind and entry type. Which field bags are populated
// depends on the kind: created nodes carry NewFields, modified nodes carry
// PreviousFields and FinalFields, deleted nodes carry FinalFields.
type AffectedNode struct {
	Kind        NodeKind
	Entry       EntryType
	LedgerIndex string

	NewFields      EntryFields
	FinalFields    EntryFields
	PreviousFields EntryFields
}

func (n AffectedNode) IsCreated() bool  { return n.Kind == NodeCreated }
func (n AffectedNode) IsModified() bool { return n.Kind == NodeModified }
func (n AffectedNode) IsDeleted() bool  { return n.Kind == NodeDeleted }

// Fields returns the node's snapshot after the transaction applied: the new
// fields of a created node, the final fields of a modified or deleted one.
func (n AffectedNode) Fields() EntryFields {
	if n.Kind == NodeCreated {
		return n.NewFields
	}
	return n.FinalFields
}

type rawNodeBody struct {
	LedgerEntryType EntryType    `json:"LedgerEntryType"`
	LedgerIndex     string       `json:"LedgerIndex"`
	NewFields       *EntryFields `json:"NewFields"`
	FinalFields     *EntryFields `json:"FinalFields"`
	PreviousFields  *EntryFields `json:"PreviousFields"`
}

func (n *AffectedNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Created  *rawNodeBody `json:"CreatedNode"`
		Modified *rawNodeBody `json:"ModifiedNode"`
		Deleted  *rawNodeBody `json:"DeletedNode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var body *rawNodeBody
	switch {
	case raw.Created != nil:
		n.Kind = NodeCreated
		body = raw.Created
	case raw.Modified != nil:
		n.Kind = NodeModified
		body = raw.Modified
	case raw.Deleted != nil:
		n.Kind = NodeDeleted
		body = raw.Deleted
	default:
		// Not a recognized wrapper. Leave the node as NodeUnknown; the
		// classifier skips it.
		n.Kind = NodeUnknown
		return nil
	}

	n.Entry = body.LedgerEntryType
	n.LedgerIndex = body.LedgerIndex
	if body.NewFields != nil {
		n.NewFields = *body.NewFields
	}
	if body.FinalFields != nil {
		n.FinalFields = *body.FinalFields
	}
	if body.PreviousFields != nil {
		n.PreviousFields = *body.PreviousFields
	}
	return nil
}
