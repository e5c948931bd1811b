// Package convert turns token amounts and priced snapshots into derived
// on-screen quantities. Pure and synchronous; formatting is a view concern.
package convert

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

// Conversion holds raw derived values for one token amount.
// Availability flags distinguish "no value" from "value is zero".
type Conversion struct {
	Currency domain.DisplayCurrency
	Ounces   decimal.Decimal
	// FiatValue value in the display currency; meaningful only when FiatAvailable.
	FiatValue     decimal.Decimal
	FiatAvailable bool
	// FiatValueBase USD-denominated value, the currency-agnostic base recorded in receipts.
	FiatValueBase decimal.Decimal
	// CryptoValue ETH needed; meaningful only when CryptoAvailable.
	CryptoValue     decimal.Decimal
	CryptoAvailable bool
}

// Engine converts token amounts against a priced snapshot.
type Engine struct {
	unitsPerOunce decimal.Decimal
}

func NewEngine(unitsPerOunce decimal.Decimal) (*Engine, error) {
	if unitsPerOunce.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Errorf("unitsPerOunce must be positive, got %s", unitsPerOunce.String())
	}
	return &Engine{unitsPerOunce: unitsPerOunce}, nil
}

// Ounces returns the silver backing for a token amount.
func (e *Engine) Ounces(tokenAmount decimal.Decimal) decimal.Decimal {
	if tokenAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return tokenAmount.Div(e.unitsPerOunce)
}

// Convert derives ounces, fiat and crypto values for the given token amount.
// A non-positive amount yields zero values, not an error. Missing prices in
// the snapshot clear the matching availability flag.
func (e *Engine) Convert(tokenAmount decimal.Decimal, snap *domain.PricedSnapshot, currency domain.DisplayCurrency) Conversion {
	c := Conversion{
		Currency:        currency,
		Ounces:          e.Ounces(tokenAmount),
		FiatAvailable:   snap != nil && snap.MintPricePerOunceUSD.GreaterThan(decimal.Zero),
		CryptoAvailable: snap.HasCrypto(),
	}

	if !c.FiatAvailable {
		c.CryptoAvailable = false
		return c
	}

	c.FiatValueBase = c.Ounces.Mul(snap.MintPricePerOunceUSD)
	c.FiatValue = c.FiatValueBase.Mul(snap.FxMultiplier(currency))

	if !c.CryptoAvailable {
		return c
	}

	cryptoPrice, matched := snap.CryptoPriceFor(currency)
	if cryptoPrice.LessThanOrEqual(decimal.Zero) {
		c.CryptoAvailable = false
		return c
	}

	// with the matching price the display value is divided; with the USD
	// fallback the base value is, so currencies are never mixed
	fiat := c.FiatValue
	if !matched {
		fiat = c.FiatValueBase
	}
	c.CryptoValue = fiat.Div(cryptoPrice)

	return c
}
