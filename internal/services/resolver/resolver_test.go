package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/silvermint/internal/domain"
	"github.com/vadiminshakov/silvermint/internal/services/quote"
)

// stubFetcher routes fetches by source name.
type stubFetcher struct {
	prices map[string]decimal.Decimal
	errs   map[string]error
}

func (f *stubFetcher) Fetch(_ context.Context, src quote.Source) (decimal.Decimal, error) {
	if err, ok := f.errs[src.Name]; ok {
		return decimal.Zero, err
	}
	if price, ok := f.prices[src.Name]; ok {
		return price, nil
	}
	return decimal.Zero, quote.ErrFeedUnreachable
}

type stubCryptoSource struct {
	name string
	q    domain.CryptoQuote
	err  error
}

func (s *stubCryptoSource) Name() string { return s.name }
func (s *stubCryptoSource) Quote(context.Context) (domain.CryptoQuote, error) {
	return s.q, s.err
}

func testSources() (quote.Source, quote.Source, quote.Source) {
	return quote.Source{Name: "primary"}, quote.Source{Name: "fallback"}, quote.Source{Name: "fx"}
}

func newTestResolver(t *testing.T, f fetcher, cryptoSources []quote.CryptoSource) *Resolver {
	t.Helper()
	primary, fallback, fx := testSources()
	r, err := New(f, primary, fallback, cryptoSources, fx, decimal.RequireFromString("1.04"), zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestResolveHappyPath(t *testing.T) {
	aud := decimal.NewFromInt(3800)
	f := &stubFetcher{prices: map[string]decimal.Decimal{
		"primary": decimal.RequireFromString("30.00"),
		"fx":      decimal.RequireFromString("1.52"),
	}}
	crypto := []quote.CryptoSource{
		&stubCryptoSource{name: "coingecko", q: domain.CryptoQuote{USD: decimal.NewFromInt(2500), AUD: &aud}},
	}

	snap, err := newTestResolver(t, f, crypto).Resolve(context.Background())
	require.NoError(t, err)
	require.True(t, snap.SpotPricePerOunceUSD.Equal(decimal.RequireFromString("30.00")))
	require.True(t, snap.MintPricePerOunceUSD.Equal(decimal.RequireFromString("31.20")))
	require.True(t, snap.HasCrypto())
	require.True(t, snap.FiatRateAUDPerUSD.Equal(decimal.RequireFromString("1.52")))
}

func TestResolveSpotFallback(t *testing.T) {
	f := &stubFetcher{
		prices: map[string]decimal.Decimal{
			"fallback": decimal.RequireFromString("28.50"),
			"fx":       decimal.NewFromInt(1),
		},
		errs: map[string]error{"primary": quote.ErrPayloadInvalid},
	}

	snap, err := newTestResolver(t, f, nil).Resolve(context.Background())
	require.NoError(t, err, "fallback success must not surface the primary failure")
	require.True(t, snap.SpotPricePerOunceUSD.Equal(decimal.RequireFromString("28.50")))
}

func TestResolveBothSpotSourcesFail(t *testing.T) {
	f := &stubFetcher{errs: map[string]error{
		"primary":  quote.ErrFeedUnreachable,
		"fallback": quote.ErrPayloadInvalid,
		"fx":       quote.ErrFeedUnreachable,
	}}

	_, err := newTestResolver(t, f, nil).Resolve(context.Background())
	require.ErrorIs(t, err, ErrSpotPriceUnavailable)
}

func TestResolveCryptoSourcesFoldToFirstSuccess(t *testing.T) {
	f := &stubFetcher{prices: map[string]decimal.Decimal{
		"primary": decimal.NewFromInt(30),
		"fx":      decimal.NewFromInt(1),
	}}
	crypto := []quote.CryptoSource{
		&stubCryptoSource{name: "coingecko", err: errors.New("rate limited")},
		&stubCryptoSource{name: "binance", q: domain.CryptoQuote{USD: decimal.NewFromInt(2400)}},
		&stubCryptoSource{name: "bybit", q: domain.CryptoQuote{USD: decimal.NewFromInt(9999)}},
	}

	snap, err := newTestResolver(t, f, crypto).Resolve(context.Background())
	require.NoError(t, err)
	require.True(t, snap.CryptoPriceUSD.Equal(decimal.NewFromInt(2400)), "first succeeding source wins")
	require.Nil(t, snap.CryptoPriceAUD)
}

func TestResolveAllCryptoSourcesFailDegradesGracefully(t *testing.T) {
	f := &stubFetcher{prices: map[string]decimal.Decimal{
		"primary": decimal.NewFromInt(30),
		"fx":      decimal.NewFromInt(1),
	}}
	crypto := []quote.CryptoSource{
		&stubCryptoSource{name: "coingecko", err: errors.New("down")},
		&stubCryptoSource{name: "binance", err: errors.New("down")},
	}

	snap, err := newTestResolver(t, f, crypto).Resolve(context.Background())
	require.NoError(t, err, "crypto exhaustion must not abort the refresh")
	require.False(t, snap.HasCrypto())
	require.True(t, snap.MintPricePerOunceUSD.GreaterThan(decimal.Zero), "metal pricing stays intact")
}

func TestResolveFxFailureDefaultsToOne(t *testing.T) {
	f := &stubFetcher{
		prices: map[string]decimal.Decimal{"primary": decimal.NewFromInt(30)},
		errs:   map[string]error{"fx": quote.ErrFeedUnreachable},
	}

	snap, err := newTestResolver(t, f, nil).Resolve(context.Background())
	require.NoError(t, err)
	require.True(t, snap.FiatRateAUDPerUSD.Equal(decimal.NewFromInt(1)))
}

func TestNewRejectsPremiumBelowOne(t *testing.T) {
	primary, fallback, fx := testSources()
	_, err := New(&stubFetcher{}, primary, fallback, nil, fx, decimal.RequireFromString("0.9"), zap.NewNop())
	require.Error(t, err)
}
