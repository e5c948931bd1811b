package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("rpc_url: http://localhost:8545\n"))
	require.NoError(t, err)

	require.Equal(t, ":8088", cfg.ListenAddr)
	require.Equal(t, int64(1), cfg.ChainID)
	require.Equal(t, "0xd85ca20db6e444e3b4c4b3c18a36fc45f7a66991", cfg.TreasuryAddress)
	require.True(t, cfg.PremiumMultiplier.Equal(decimal.RequireFromString("1.04")))
	require.True(t, cfg.UnitsPerOunce.Equal(decimal.NewFromInt(100)))
	require.Equal(t, 90*time.Second, cfg.RefreshInterval)
	require.Equal(t, domain.CurrencyUSD, cfg.DefaultCurrency)
	require.Equal(t, 50, cfg.MaxRecords)
	require.Equal(t, "TPC", cfg.SerialPrefix)
	require.NotEmpty(t, cfg.Feeds.SpotPrimaryURL)
	require.NotEmpty(t, cfg.Feeds.SpotFallbackURL)
	require.NotEmpty(t, cfg.Feeds.CryptoURL)
	require.NotEmpty(t, cfg.Feeds.FxURL)
}

func TestParseFullConfig(t *testing.T) {
	raw := []byte(`
listen_addr: ":9000"
rpc_url: "https://mainnet.example"
chain_id: 11155111
treasury_address: "0x0000000000000000000000000000000000000001"
premium_multiplier: "1.10"
units_per_ounce: "200"
refresh_interval: 45s
default_currency: aud
ledger_dir: /tmp/mints
max_records: 10
serial_prefix: SLV
tls_domains:
  - mint.example.com
cert_cache_dir: /tmp/certs
feeds:
  spot_primary_url: http://primary.test
  spot_fallback_url: http://fallback.test
  crypto_url: http://crypto.test
  fx_url: http://fx.test
`)

	cfg, err := Parse(raw)
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.ListenAddr)
	require.Equal(t, int64(11155111), cfg.ChainID)
	require.True(t, cfg.PremiumMultiplier.Equal(decimal.RequireFromString("1.10")))
	require.True(t, cfg.UnitsPerOunce.Equal(decimal.NewFromInt(200)))
	require.Equal(t, 45*time.Second, cfg.RefreshInterval)
	require.Equal(t, domain.CurrencyAUD, cfg.DefaultCurrency)
	require.Equal(t, "/tmp/mints", cfg.LedgerDir)
	require.Equal(t, 10, cfg.MaxRecords)
	require.Equal(t, "SLV", cfg.SerialPrefix)
	require.Equal(t, []string{"mint.example.com"}, cfg.TLSDomains)
	require.Equal(t, "http://primary.test", cfg.Feeds.SpotPrimaryURL)
	require.Equal(t, "http://fx.test", cfg.Feeds.FxURL)
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"bad treasury", `treasury_address: "not-hex"`},
		{"premium below one", `premium_multiplier: "0.90"`},
		{"premium not a number", `premium_multiplier: "cheap"`},
		{"negative units", `units_per_ounce: "-5"`},
		{"unknown currency", `default_currency: eur`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.raw))
			require.Error(t, err)
		})
	}
}
