package xrpl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffectedNode_DecodeCreated(t *testing.T) {
	raw := `{
		"CreatedNode": {
			"LedgerEntryType": "NFTokenOffer",
			"LedgerIndex": "AAAA1111",
			"NewFields": {
				"Owner": "rOwner",
				"NFTokenID": "TOK1",
				"Flags": 1
			}
		}
	}`

	var n AffectedNode
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	assert.True(t, n.IsCreated())
	assert.False(t, n.IsModified())
	assert.False(t, n.IsDeleted())
	assert.Equal(t, EntryNFTokenOffer, n.Entry)
	assert.Equal(t, "AAAA1111", n.LedgerIndex)
	assert.Equal(t, "rOwner", n.NewFields.Owner)
	assert.Equal(t, "TOK1", n.NewFields.NFTokenID)
	assert.Equal(t, uint32(1), n.NewFields.Flags)
	assert.Equal(t, n.NewFields, n.Fields())
}

func TestAffectedNode_DecodeModifiedWithPrevious(t *testing.T) {
	raw := `{
		"ModifiedNode": {
			"LedgerEntryType": "AccountRoot",
			"LedgerIndex": "BBBB2222",
			"FinalFields": {
				"Account": "rAcct",
				"Balance": "99000000"
			},
			"PreviousFields": {
				"Balance": "100000000"
			}
		}
	}`

	var n AffectedNode
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	assert.True(t, n.IsModified())
	assert.Equal(t, EntryAccountRoot, n.Entry)
	assert.Equal(t, "rAcct", n.FinalFields.Account)
	assert.Equal(t, "99000000", n.FinalFields.Balance)
	assert.Equal(t, "100000000", n.PreviousFields.Balance)
	assert.Equal(t, n.FinalFields, n.Fields())
}

func TestAffectedNode_DecodeDeletedTokenList(t *testing.T) {
	raw := `{
		"DeletedNode": {
			"LedgerEntryType": "NFTokenPage",
			"LedgerIndex": "CCCC3333",
			"FinalFields": {
				"NFTokens": [
					{"NFToken": {"NFTokenID": "TOK1", "URI": "697066733A2F2F"}},
					{"NFToken": {"NFTokenID": "TOK2"}}
				]
			}
		}
	}`

	var n AffectedNode
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	assert.True(t, n.IsDeleted())
	require.Len(t, n.FinalFields.NFTokens, 2)
	assert.Equal(t, "TOK1", n.FinalFields.NFTokens[0].TokenID)
	assert.Equal(t, "697066733A2F2F", n.FinalFields.NFTokens[0].URI)
	assert.Equal(t, "TOK2", n.FinalFields.NFTokens[1].TokenID)
}

func TestAffectedNode_UnrecognizedWrapperIsUnknown(t *testing.T) {
	var n AffectedNode
	require.NoError(t, json.Unmarshal([]byte(`{"SomethingElse": {}}`), &n))

	assert.Equal(t, NodeUnknown, n.Kind)
	assert.False(t, n.IsCreated())
	assert.False(t, n.IsModified())
	assert.False(t, n.IsDeleted())
}

func TestAffectedNode_UnrecognizedEntryTypeStillDecodes(t *testing.T) {
	raw := `{
		"ModifiedNode": {
			"LedgerEntryType": "DirectoryNode",
			"LedgerIndex": "DDDD4444"
		}
	}`

	var n AffectedNode
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	assert.True(t, n.IsModified())
	assert.Equal(t, EntryType("DirectoryNode"), n.Entry)
}
