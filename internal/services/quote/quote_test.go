package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFetchGoldpricePrimary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ts":1,"items":[{"curr":"USD","xagPrice":30.00}]}`))
	}))
	defer srv.Close()

	price, err := NewFetcher().Fetch(context.Background(), GoldpriceSpotSource(srv.URL))
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.RequireFromString("30.00")))
}

func TestFetchFeedUnreachableOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), GoldpriceSpotSource(srv.URL))
	require.ErrorIs(t, err, ErrFeedUnreachable)
}

func TestFetchFeedUnreachableOnTransport(t *testing.T) {
	_, err := NewFetcher().Fetch(context.Background(), GoldpriceSpotSource("http://127.0.0.1:1"))
	require.ErrorIs(t, err, ErrFeedUnreachable)
}

func TestFetchPayloadInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), GoldpriceSpotSource(srv.URL))
	require.ErrorIs(t, err, ErrPayloadInvalid)
}

func TestFetchRejectsNonPositivePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"xagPrice":0}]}`))
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), GoldpriceSpotSource(srv.URL))
	require.ErrorIs(t, err, ErrPayloadInvalid)
}

func TestFetchSendsNoCacheHeader(t *testing.T) {
	var gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		w.Write([]byte(`{"items":[{"xagPrice":28.5}]}`))
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), GoldpriceSpotSource(srv.URL))
	require.NoError(t, err)
	require.Equal(t, "no-cache", gotCacheControl)
}

func TestMetalsLiveShapes(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"object with price", `[{"price":28.50}]`, "28.50"},
		{"second element object", `["silver",{"silver":29.10}]`, "29.10"},
		{"second element number", `["silver",27.75]`, "27.75"},
	}

	src := MetalsLiveSpotSource("")
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			price, err := src.Extract([]byte(c.payload))
			require.NoError(t, err)
			require.True(t, price.Equal(decimal.RequireFromString(c.want)))
		})
	}

	_, err := src.Extract([]byte(`{"unexpected":"shape"}`))
	require.Error(t, err)

	_, err = src.Extract([]byte(`[]`))
	require.Error(t, err)
}

func TestFxRateSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base_code":"USD","rates":{"AUD":1.52,"EUR":0.91}}`))
	}))
	defer srv.Close()

	rate, err := NewFetcher().Fetch(context.Background(), FxRateSource(srv.URL))
	require.NoError(t, err)
	require.True(t, rate.Equal(decimal.RequireFromString("1.52")))
}

func TestCoingeckoCryptoSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum":{"usd":2500.12,"aud":3800.55}}`))
	}))
	defer srv.Close()

	src := NewCoingeckoCryptoSource(srv.URL, NewFetcher())
	q, err := src.Quote(context.Background())
	require.NoError(t, err)
	require.True(t, q.USD.Equal(decimal.RequireFromString("2500.12")))
	require.NotNil(t, q.AUD)
	require.True(t, q.AUD.Equal(decimal.RequireFromString("3800.55")))
}

func TestCoingeckoCryptoSourceUSDOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum":{"usd":2500}}`))
	}))
	defer srv.Close()

	src := NewCoingeckoCryptoSource(srv.URL, NewFetcher())
	q, err := src.Quote(context.Background())
	require.NoError(t, err)
	require.Nil(t, q.AUD, "AUD is optional and stays nil when absent")
}

func TestCoingeckoCryptoSourceFeedUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := NewCoingeckoCryptoSource(srv.URL, NewFetcher())
	_, err := src.Quote(context.Background())
	require.ErrorIs(t, err, ErrFeedUnreachable)
	require.Contains(t, err.Error(), "coingecko", "transport errors carry the source name")
}

func TestCoingeckoCryptoSourceMissingUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum":{"aud":3800}}`))
	}))
	defer srv.Close()

	src := NewCoingeckoCryptoSource(srv.URL, NewFetcher())
	_, err := src.Quote(context.Background())
	require.ErrorIs(t, err, ErrPayloadInvalid)
}
