// README: Common money value object used across modules.
package types

import "strconv"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"TWD": "NT$",
}

// String renders whole currency units, e.g. "₹3175".
func (m Money) String() string {
	if sym, ok := currencySymbols[m.Currency]; ok {
		return sym + strconv.FormatInt(m.Amount, 10)
	}
	if m.Currency == "" {
		return strconv.FormatInt(m.Amount, 10)
	}
	return strconv.FormatInt(m.Amount, 10) + " " + m.Currency
}

// WithAmount returns a copy in the same currency.
func (m Money) WithAmount(amount int64) Money {
	return Money{Amount: amount, Currency: m.Currency}
}
