package xrpl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalDrops(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`"1000000"`), &a))

	assert.Equal(t, "1000000", a.Drops)
	assert.False(t, a.IsIssued())
}

func TestAmount_UnmarshalIssued(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`{"currency":"EUR","issuer":"rI","value":"3"}`), &a))

	require.True(t, a.IsIssued())
	assert.Equal(t, "EUR", a.Issued.Currency)
	assert.Equal(t, "rI", a.Issued.Issuer)
	assert.Equal(t, "3", a.Issued.Value)
}

func TestAmount_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(Amount{Drops: "42"})
	require.NoError(t, err)
	assert.Equal(t, `"42"`, string(data))

	data, err = json.Marshal(Amount{Issued: &IssuedAmount{Currency: "USD", Issuer: "rI", Value: "1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"USD","issuer":"rI","value":"1"}`, string(data))
}

func TestDropsToXRP(t *testing.T) {
	assert.Equal(t, 1.0, DropsToXRP("1000000"))
	assert.Equal(t, 0.000001, DropsToXRP("1"))
	assert.Equal(t, 25.5, DropsToXRP("25500000"))
	assert.Equal(t, 0.0, DropsToXRP("not-a-number"))
	assert.Equal(t, 0.0, DropsToXRP(""))
}
