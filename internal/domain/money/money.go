// Package money holds the currency enum and minor-unit helpers shared by the
// catalog, cart, and promotion domains.
package money

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code in lowercase, as the payment gateway expects it.
type Currency string

const (
	USD Currency = "usd"
	EUR Currency = "eur"
)

// ErrUnknownCurrency is returned when parsing a currency outside the supported set.
var ErrUnknownCurrency = errors.New("unknown currency")

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToLower(s)); c {
	case USD, EUR:
		return c, nil
	default:
		return "", errors.Wrapf(ErrUnknownCurrency, "%q", s)
	}
}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	return c == USD || c == EUR
}

func (c Currency) String() string {
	return string(c)
}

// FormatMinor renders an amount of minor units as a fixed two-decimal string,
// e.g. 2475 -> "24.75". Prices are stored as integers; formatting is the only
// place fractional arithmetic appears.
func FormatMinor(amount int64) string {
	return decimal.NewFromInt(amount).Shift(-2).StringFixed(2)
}
