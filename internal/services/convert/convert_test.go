package convert

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(decimal.NewFromInt(100))
	require.NoError(t, err)
	return e
}

func snapshotWith(t *testing.T, spot string, crypto *domain.CryptoQuote, fx string) *domain.PricedSnapshot {
	t.Helper()
	return domain.NewPricedSnapshot(
		decimal.RequireFromString(spot),
		decimal.RequireFromString("1.04"),
		crypto,
		decimal.RequireFromString(fx),
		time.Now(),
	)
}

func TestConvertSpecScenario(t *testing.T) {
	// spot 30.00, premium 1.04 -> mint 31.20; 500 tokens -> 5 oz -> 156.00 USD
	usd := decimal.NewFromInt(2500)
	snap := snapshotWith(t, "30.00", &domain.CryptoQuote{USD: usd}, "1")

	c := newEngine(t).Convert(decimal.NewFromInt(500), snap, domain.CurrencyUSD)

	require.True(t, c.Ounces.Equal(decimal.NewFromInt(5)))
	require.True(t, c.FiatAvailable)
	require.True(t, c.FiatValue.Equal(decimal.RequireFromString("156.00")))
	require.True(t, c.CryptoAvailable)
	require.True(t, c.CryptoValue.Equal(decimal.RequireFromString("0.0624")))
}

func TestConvertOuncesZeroForZeroAmount(t *testing.T) {
	snap := snapshotWith(t, "30.00", nil, "1")
	c := newEngine(t).Convert(decimal.Zero, snap, domain.CurrencyUSD)

	require.True(t, c.Ounces.IsZero())
	require.True(t, c.FiatValue.IsZero())
	require.True(t, c.FiatAvailable, "zero amount is zero value, not unavailable")
}

func TestConvertNegativeAmountIsZeroNotError(t *testing.T) {
	snap := snapshotWith(t, "30.00", nil, "1")
	c := newEngine(t).Convert(decimal.NewFromInt(-10), snap, domain.CurrencyUSD)
	require.True(t, c.Ounces.IsZero())
}

func TestConvertAUDDisplayUsesFxRate(t *testing.T) {
	// mint 31.20 USD/oz, fx 1.52 -> 47.424 AUD/oz displayed for 100 tokens (1 oz)
	snap := snapshotWith(t, "30.00", nil, "1.52")
	c := newEngine(t).Convert(decimal.NewFromInt(100), snap, domain.CurrencyAUD)

	require.True(t, c.FiatValue.Equal(decimal.RequireFromString("47.424")))
	require.Equal(t, "A$47.42", domain.FormatFiat(c.FiatValue, c.Currency))
	require.True(t, c.FiatValueBase.Equal(decimal.RequireFromString("31.20")), "base stays USD")
}

func TestConvertCryptoMatchingAUDPrice(t *testing.T) {
	aud := decimal.NewFromInt(3800)
	snap := snapshotWith(t, "30.00", &domain.CryptoQuote{USD: decimal.NewFromInt(2500), AUD: &aud}, "1.52")

	c := newEngine(t).Convert(decimal.NewFromInt(100), snap, domain.CurrencyAUD)
	require.True(t, c.CryptoAvailable)
	// 47.424 AUD / 3800 AUD per ETH
	require.True(t, c.CryptoValue.Equal(decimal.RequireFromString("47.424").Div(decimal.NewFromInt(3800))))
}

func TestConvertCryptoFallsBackToUSDBase(t *testing.T) {
	// AUD display but only a USD crypto price: the USD base value is divided
	// by the USD price so currencies are not mixed
	snap := snapshotWith(t, "30.00", &domain.CryptoQuote{USD: decimal.NewFromInt(2500)}, "1.52")

	c := newEngine(t).Convert(decimal.NewFromInt(100), snap, domain.CurrencyAUD)
	require.True(t, c.CryptoAvailable)
	require.True(t, c.CryptoValue.Equal(decimal.RequireFromString("31.20").Div(decimal.NewFromInt(2500))))
}

func TestConvertMissingCryptoIsUnavailableNotZero(t *testing.T) {
	snap := snapshotWith(t, "30.00", nil, "1")
	c := newEngine(t).Convert(decimal.NewFromInt(500), snap, domain.CurrencyUSD)

	require.True(t, c.FiatAvailable, "fiat stays computed normally")
	require.False(t, c.CryptoAvailable)
}

func TestConvertNilSnapshotUnavailable(t *testing.T) {
	c := newEngine(t).Convert(decimal.NewFromInt(500), nil, domain.CurrencyUSD)
	require.False(t, c.FiatAvailable)
	require.False(t, c.CryptoAvailable)
	require.True(t, c.Ounces.Equal(decimal.NewFromInt(5)), "ounces need no snapshot")
}

func TestNewEngineRejectsNonPositiveRatio(t *testing.T) {
	_, err := NewEngine(decimal.Zero)
	require.Error(t, err)
}
