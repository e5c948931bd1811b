package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnitsPerOunce fixed token-to-ounce ratio used when no override is configured.
var DefaultUnitsPerOunce = decimal.NewFromInt(100)

// MintRecord is a locally stored receipt of one completed token-purchase transfer.
type MintRecord struct {
	// Serial locally generated best-effort unique identifier.
	Serial string `json:"serial"`
	// TokenAmount number of tokens minted.
	TokenAmount decimal.Decimal `json:"token_amount"`
	// Ounces of silver backing the minted tokens.
	Ounces decimal.Decimal `json:"ounces"`
	// FiatValueRaw USD-denominated value at mint time. USD is the base so the
	// record can be re-displayed in any currency later.
	FiatValueRaw decimal.Decimal `json:"fiat_value_raw"`
	// CryptoValueRaw amount of ETH paid, nil for records predating the field.
	CryptoValueRaw *decimal.Decimal `json:"crypto_value_raw,omitempty"`
	// FormattedFiatValue display string cached in the currency active at mint time.
	FormattedFiatValue string `json:"fiat_value"`
	// Timestamp mint time.
	Timestamp time.Time `json:"ts"`
}

// Normalized backfills derived fields missing from older stored shapes.
// Ounces are recomputed from the token amount and FiatValueRaw is recovered
// from the cached display string. Applying it twice is a no-op.
func (r MintRecord) Normalized(unitsPerOunce decimal.Decimal) MintRecord {
	if unitsPerOunce.LessThanOrEqual(decimal.Zero) {
		unitsPerOunce = DefaultUnitsPerOunce
	}
	if r.Ounces.IsZero() && r.TokenAmount.GreaterThan(decimal.Zero) {
		r.Ounces = r.TokenAmount.Div(unitsPerOunce)
	}
	if r.FiatValueRaw.IsZero() && r.FormattedFiatValue != "" {
		if v, ok := ParseFormattedFiat(r.FormattedFiatValue); ok {
			r.FiatValueRaw = v
		}
	}
	return r
}

// ParseFormattedFiat recovers a raw numeric value from a cached display
// string such as "$156.00" or "A$1,240.50".
func ParseFormattedFiat(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "A$")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" || cleaned == "--" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// LedgerTotals aggregates raw numeric fields across a record sequence.
type LedgerTotals struct {
	TotalOunces    decimal.Decimal `json:"total_ounces"`
	TotalFiatRaw   decimal.Decimal `json:"total_fiat_raw"`
	TotalCryptoRaw decimal.Decimal `json:"total_crypto_raw"`
}

// Aggregate sums normalized raw fields. A record missing a raw field
// contributes zero to that sum and never aborts the aggregation.
func Aggregate(records []MintRecord) LedgerTotals {
	totals := LedgerTotals{
		TotalOunces:    decimal.Zero,
		TotalFiatRaw:   decimal.Zero,
		TotalCryptoRaw: decimal.Zero,
	}
	for _, r := range records {
		totals.TotalOunces = totals.TotalOunces.Add(r.Ounces)
		totals.TotalFiatRaw = totals.TotalFiatRaw.Add(r.FiatValueRaw)
		if r.CryptoValueRaw != nil {
			totals.TotalCryptoRaw = totals.TotalCryptoRaw.Add(*r.CryptoValueRaw)
		}
	}
	return totals
}
