package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewPricedSnapshotDerivesMintPrice(t *testing.T) {
	spot := decimal.RequireFromString("30.00")
	premium := decimal.RequireFromString("1.04")

	snap := NewPricedSnapshot(spot, premium, nil, decimal.NewFromInt(1), time.Now())

	require.True(t, snap.MintPricePerOunceUSD.Equal(decimal.RequireFromString("31.20")))
	require.False(t, snap.HasCrypto())
}

func TestCryptoPriceForFallsBackToUSD(t *testing.T) {
	usd := decimal.NewFromInt(2500)
	snap := NewPricedSnapshot(decimal.NewFromInt(30), decimal.RequireFromString("1.04"),
		&CryptoQuote{USD: usd}, decimal.RequireFromString("1.52"), time.Now())

	price, matched := snap.CryptoPriceFor(CurrencyAUD)
	require.False(t, matched, "AUD price missing, USD fallback expected")
	require.True(t, price.Equal(usd))

	price, matched = snap.CryptoPriceFor(CurrencyUSD)
	require.True(t, matched)
	require.True(t, price.Equal(usd))
}

func TestCryptoPriceForMatchesAUD(t *testing.T) {
	usd := decimal.NewFromInt(2500)
	aud := decimal.NewFromInt(3800)
	snap := NewPricedSnapshot(decimal.NewFromInt(30), decimal.RequireFromString("1.04"),
		&CryptoQuote{USD: usd, AUD: &aud}, decimal.RequireFromString("1.52"), time.Now())

	price, matched := snap.CryptoPriceFor(CurrencyAUD)
	require.True(t, matched)
	require.True(t, price.Equal(aud))
}

func TestFxMultiplier(t *testing.T) {
	snap := NewPricedSnapshot(decimal.NewFromInt(30), decimal.RequireFromString("1.04"),
		nil, decimal.RequireFromString("1.52"), time.Now())

	require.True(t, snap.FxMultiplier(CurrencyUSD).Equal(decimal.NewFromInt(1)))
	require.True(t, snap.FxMultiplier(CurrencyAUD).Equal(decimal.RequireFromString("1.52")))

	var nilSnap *PricedSnapshot
	require.True(t, nilSnap.FxMultiplier(CurrencyAUD).Equal(decimal.NewFromInt(1)))
}

func TestParseDisplayCurrency(t *testing.T) {
	cur, err := ParseDisplayCurrency(" aud ")
	require.NoError(t, err)
	require.Equal(t, CurrencyAUD, cur)

	_, err = ParseDisplayCurrency("EUR")
	require.Error(t, err)
}

func TestFormatFiat(t *testing.T) {
	require.Equal(t, "$156.00", FormatFiat(decimal.NewFromInt(156), CurrencyUSD))
	require.Equal(t, "A$47.42", FormatFiat(decimal.RequireFromString("47.424"), CurrencyAUD))
}
