package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// currencyExponents maps ISO 4217 currency codes to the number of digits
// after the decimal separator. Currencies not listed here use the common
// exponent of 2.
var currencyExponents = map[string]int32{
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
}

// Amount is an immutable money value expressed in minor units of its currency.
// It is always transmitted on the wire as an integer to avoid rounding drift.
type Amount struct {
	Value    int64  `json:"value"`
	Currency string `json:"currency"`
}

// NewAmount creates an amount from a value in minor units and an ISO 4217
// currency code.
func NewAmount(value int64, currency string) Amount {
	return Amount{Value: value, Currency: currency}
}

// CurrencyExponent returns the minor unit exponent for the amount's currency.
func (a Amount) CurrencyExponent() int32 {
	if exp, ok := currencyExponents[a.Currency]; ok {
		return exp
	}
	return 2
}

// IsZero reports whether the amount has no value.
func (a Amount) IsZero() bool {
	return a.Value == 0
}

// Add returns the sum of two amounts. Amounts in different currencies cannot
// be combined.
func (a Amount) Add(other Amount) (Amount, error) {
	if a.Currency != other.Currency {
		return Amount{}, currencyMismatch(a.Currency, other.Currency)
	}
	return Amount{Value: a.Value + other.Value, Currency: a.Currency}, nil
}

// Sub returns the difference of two amounts. Amounts in different currencies
// cannot be combined.
func (a Amount) Sub(other Amount) (Amount, error) {
	if a.Currency != other.Currency {
		return Amount{}, currencyMismatch(a.Currency, other.Currency)
	}
	return Amount{Value: a.Value - other.Value, Currency: a.Currency}, nil
}

// Covers reports whether this amount is sufficient to pay the other amount in
// full. Amounts in different currencies never cover each other.
func (a Amount) Covers(other Amount) bool {
	return a.Currency == other.Currency && a.Value >= other.Value
}

// Major returns the amount in major units as an exact decimal. The wire value
// stays in minor units; this is for display only.
func (a Amount) Major() decimal.Decimal {
	return decimal.New(a.Value, -a.CurrencyExponent())
}

// Formatted renders the amount in major units with its currency code, e.g.
// "20.00 EUR". Locale-specific rendering is left to the UI shell.
func (a Amount) Formatted() string {
	return a.Major().StringFixed(a.CurrencyExponent()) + " " + a.Currency
}

// String implements fmt.Stringer.
func (a Amount) String() string {
	return a.Formatted()
}

func currencyMismatch(a, b string) error {
	return NewCheckoutError(ErrorCodeCurrencyMismatch,
		fmt.Sprintf("cannot combine amounts in %s and %s", a, b))
}

// Balance is the outcome of a balance check against a stored-value
// instrument. It is consumed immediately to decide whether a payment can
// proceed or an order has to be created first.
type Balance struct {
	Available        Amount  `json:"balance"`
	TransactionLimit *Amount `json:"transactionLimit,omitempty"`
}

// UsableFor returns the portion of the balance that may be committed to the
// given amount: the balance, capped by the per-transaction limit when present
// and by the amount itself.
func (b Balance) UsableFor(amount Amount) Amount {
	usable := b.Available
	if b.TransactionLimit != nil && b.TransactionLimit.Currency == usable.Currency &&
		b.TransactionLimit.Value < usable.Value {
		usable = *b.TransactionLimit
	}
	if amount.Currency == usable.Currency && amount.Value < usable.Value {
		usable = amount
	}
	return usable
}
