// Package domain defines core data structures used throughout the mint desk.
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayCurrency is the currency selected for on-screen values.
type DisplayCurrency string

const (
	CurrencyUSD DisplayCurrency = "USD"
	CurrencyAUD DisplayCurrency = "AUD"
)

// ParseDisplayCurrency parses a user-supplied currency code.
func ParseDisplayCurrency(s string) (DisplayCurrency, error) {
	switch DisplayCurrency(strings.ToUpper(strings.TrimSpace(s))) {
	case CurrencyUSD:
		return CurrencyUSD, nil
	case CurrencyAUD:
		return CurrencyAUD, nil
	default:
		return "", fmt.Errorf("unsupported display currency: %q", s)
	}
}

// Symbol returns the currency prefix used in formatted values.
func (c DisplayCurrency) Symbol() string {
	if c == CurrencyAUD {
		return "A$"
	}
	return "$"
}

// FormatFiat renders a fiat value with the currency symbol and two decimals.
func FormatFiat(value decimal.Decimal, currency DisplayCurrency) string {
	return currency.Symbol() + value.StringFixed(2)
}
