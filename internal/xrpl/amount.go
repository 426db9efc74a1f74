package xrpl

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const dropsPerXRP = 1_000_000

// IssuedAmount is an issued-currency amount: a currency code, the issuing
// account, and a decimal value string.
type IssuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// Amount is either a native amount in drops or an issued-currency amount.
// On the wire the native form is a bare string and the issued form an object.
type Amount struct {
	Drops  string
	Issued *IssuedAmount
}

func (a Amount) IsIssued() bool {
	return a.Issued != nil
}

func (a Amount) IsZero() bool {
	return a.Drops == "" && a.Issued == nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Drops)
	}
	var issued IssuedAmount
	if err := json.Unmarshal(data, &issued); err != nil {
		return fmt.Errorf("decode issued amount: %w", err)
	}
	a.Issued = &issued
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if a.Issued != nil {
		return json.Marshal(a.Issued)
	}
	return json.Marshal(a.Drops)
}

func (a Amount) String() string {
	if a.Issued != nil {
		return fmt.Sprintf("%s %s/%s", a.Issued.Value, a.Issued.Currency, a.Issued.Issuer)
	}
	return a.Drops + " drops"
}

// DropsToXRP converts a drops string to its display value in XRP.
// Invalid input yields 0.
func DropsToXRP(drops string) float64 {
	d, err := decimal.NewFromString(drops)
	if err != nil {
		return 0
	}
	return d.Div(decimal.NewFromInt(dropsPerXRP)).InexactFloat64()
}
