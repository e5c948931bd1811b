package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CryptoQuote is a resolved cryptocurrency unit price. USD is mandatory,
// AUD is present only when the winning source supplied it.
type CryptoQuote struct {
	USD decimal.Decimal
	AUD *decimal.Decimal
}

// PricedSnapshot is the complete set of resolved prices at one refresh.
// A snapshot is replaced wholesale on every refresh cycle and is never
// mutated field by field afterwards.
type PricedSnapshot struct {
	// SpotPricePerOunceUSD silver spot price per troy ounce in USD.
	SpotPricePerOunceUSD decimal.Decimal `json:"spot_price_usd"`
	// MintPricePerOunceUSD spot price with the fixed issue premium applied.
	MintPricePerOunceUSD decimal.Decimal `json:"mint_price_usd"`
	// CryptoPriceUSD ETH unit price in USD, nil when every crypto source failed.
	CryptoPriceUSD *decimal.Decimal `json:"crypto_price_usd,omitempty"`
	// CryptoPriceAUD ETH unit price in AUD, nil when the winning source had no AUD quote.
	CryptoPriceAUD *decimal.Decimal `json:"crypto_price_aud,omitempty"`
	// FiatRateAUDPerUSD exchange rate, defaults to 1 when the fx feed failed.
	FiatRateAUDPerUSD decimal.Decimal `json:"fiat_rate_aud_per_usd"`
	// ResolvedAt time the refresh cycle completed.
	ResolvedAt time.Time `json:"resolved_at"`
}

// NewPricedSnapshot assembles a snapshot from resolved quotes. The mint price
// is always derived here from spot and premium, never stored independently.
func NewPricedSnapshot(spot, premium decimal.Decimal, crypto *CryptoQuote, fxRate decimal.Decimal, resolvedAt time.Time) *PricedSnapshot {
	s := &PricedSnapshot{
		SpotPricePerOunceUSD: spot,
		MintPricePerOunceUSD: spot.Mul(premium),
		FiatRateAUDPerUSD:    fxRate,
		ResolvedAt:           resolvedAt,
	}
	if crypto != nil {
		usd := crypto.USD
		s.CryptoPriceUSD = &usd
		if crypto.AUD != nil {
			aud := *crypto.AUD
			s.CryptoPriceAUD = &aud
		}
	}
	return s
}

// HasCrypto reports whether any crypto price was resolved.
func (s *PricedSnapshot) HasCrypto() bool {
	return s != nil && s.CryptoPriceUSD != nil
}

// FxMultiplier returns the factor converting USD-base values into the
// display currency.
func (s *PricedSnapshot) FxMultiplier(currency DisplayCurrency) decimal.Decimal {
	if s == nil || currency != CurrencyAUD {
		return decimal.NewFromInt(1)
	}
	if s.FiatRateAUDPerUSD.IsZero() {
		return decimal.NewFromInt(1)
	}
	return s.FiatRateAUDPerUSD
}

// CryptoPriceFor returns the crypto price matching the display currency.
// The second result reports whether the matching price was found; when it is
// false but a USD price exists, the USD price is returned as the fallback.
func (s *PricedSnapshot) CryptoPriceFor(currency DisplayCurrency) (decimal.Decimal, bool) {
	if s == nil || s.CryptoPriceUSD == nil {
		return decimal.Zero, false
	}
	if currency == CurrencyAUD {
		if s.CryptoPriceAUD != nil {
			return *s.CryptoPriceAUD, true
		}
		return *s.CryptoPriceUSD, false
	}
	return *s.CryptoPriceUSD, true
}
