// Package config loads the mint desk configuration from a yaml file or
// command line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

// Feeds holds the upstream quote endpoints. Defaults point at the public
// feeds; overriding them is mainly useful for tests and mirrors.
type Feeds struct {
	SpotPrimaryURL  string `yaml:"spot_primary_url"`
	SpotFallbackURL string `yaml:"spot_fallback_url"`
	CryptoURL       string `yaml:"crypto_url"`
	FxURL           string `yaml:"fx_url"`
}

// Config is the resolved mint desk configuration.
type Config struct {
	ListenAddr      string
	RPCURL          string
	ChainID         int64
	TreasuryAddress string

	PremiumMultiplier decimal.Decimal
	UnitsPerOunce     decimal.Decimal
	RefreshInterval   time.Duration
	DefaultCurrency   domain.DisplayCurrency

	LedgerDir  string
	MaxRecords int

	SerialPrefix string

	TLSDomains   []string
	CertCacheDir string

	Feeds Feeds
}

type configTmp struct {
	ListenAddr      string `yaml:"listen_addr"`
	RPCURL          string `yaml:"rpc_url"`
	ChainID         int64  `yaml:"chain_id"`
	TreasuryAddress string `yaml:"treasury_address"`

	PremiumMultiplier string        `yaml:"premium_multiplier,omitempty"`
	UnitsPerOunce     string        `yaml:"units_per_ounce,omitempty"`
	RefreshInterval   time.Duration `yaml:"refresh_interval,omitempty"`
	DefaultCurrency   string        `yaml:"default_currency,omitempty"`

	LedgerDir  string `yaml:"ledger_dir,omitempty"`
	MaxRecords int    `yaml:"max_records,omitempty"`

	SerialPrefix string `yaml:"serial_prefix,omitempty"`

	TLSDomains   []string `yaml:"tls_domains,omitempty"`
	CertCacheDir string   `yaml:"cert_cache_dir,omitempty"`

	Feeds Feeds `yaml:"feeds,omitempty"`
}

const (
	defaultListenAddr      = ":8088"
	defaultChainID         = 1
	defaultTreasuryAddress = "0xd85ca20db6e444e3b4c4b3c18a36fc45f7a66991"
	defaultPremium         = "1.04"
	defaultRefreshInterval = 90 * time.Second
	defaultLedgerDir       = "./wal/mints"
	defaultMaxRecords      = 50
	defaultSerialPrefix    = "TPC"
	defaultCertCacheDir    = "./certs"

	defaultSpotPrimaryURL  = "https://data-asg.goldprice.org/dbXRates/USD"
	defaultSpotFallbackURL = "https://api.metals.live/v1/spot/silver"
	defaultCryptoURL       = "https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd,aud"
	defaultFxURL           = "https://open.er-api.com/v6/latest/USD"
)

// Get reads the configuration from the --config yaml file, falling back to
// individual flags when no file is given.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	listenAddr := flag.String("listen", defaultListenAddr, "web UI listen address")
	rpcURL := flag.String("rpc", "", "ethereum JSON-RPC endpoint")
	chainID := flag.Int64("chainid", defaultChainID, "ethereum chain id")
	treasury := flag.String("treasury", defaultTreasuryAddress, "treasury address receiving mint payments")
	refreshInterval := flag.Duration("refreshinterval", defaultRefreshInterval, "price refresh interval")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := Config{
		ListenAddr:      *listenAddr,
		RPCURL:          *rpcURL,
		ChainID:         *chainID,
		TreasuryAddress: *treasury,
		RefreshInterval: *refreshInterval,
	}
	return withDefaults(cfg, configTmp{})
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(f)
}

// Parse decodes yaml configuration bytes.
func Parse(raw []byte) (Config, error) {
	var tmp configTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:      tmp.ListenAddr,
		RPCURL:          tmp.RPCURL,
		ChainID:         tmp.ChainID,
		TreasuryAddress: tmp.TreasuryAddress,
		RefreshInterval: tmp.RefreshInterval,
		LedgerDir:       tmp.LedgerDir,
		MaxRecords:      tmp.MaxRecords,
		SerialPrefix:    tmp.SerialPrefix,
		TLSDomains:      tmp.TLSDomains,
		CertCacheDir:    tmp.CertCacheDir,
		Feeds:           tmp.Feeds,
	}
	return withDefaults(cfg, tmp)
}

func withDefaults(cfg Config, tmp configTmp) (Config, error) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = defaultChainID
	}
	if cfg.TreasuryAddress == "" {
		cfg.TreasuryAddress = defaultTreasuryAddress
	}
	if !common.IsHexAddress(cfg.TreasuryAddress) {
		return Config{}, fmt.Errorf("incorrect 'treasury_address' param: %q is not a hex address", cfg.TreasuryAddress)
	}

	if tmp.PremiumMultiplier == "" {
		tmp.PremiumMultiplier = defaultPremium
	}
	premium, err := decimal.NewFromString(tmp.PremiumMultiplier)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'premium_multiplier' param (must be a decimal): %w", err)
	}
	if premium.LessThan(decimal.NewFromInt(1)) {
		return Config{}, fmt.Errorf("incorrect 'premium_multiplier' param: %s is below 1", premium.String())
	}
	cfg.PremiumMultiplier = premium

	if tmp.UnitsPerOunce == "" {
		cfg.UnitsPerOunce = domain.DefaultUnitsPerOunce
	} else {
		units, err := decimal.NewFromString(tmp.UnitsPerOunce)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'units_per_ounce' param (must be a decimal): %w", err)
		}
		if units.LessThanOrEqual(decimal.Zero) {
			return Config{}, fmt.Errorf("incorrect 'units_per_ounce' param: %s must be positive", units.String())
		}
		cfg.UnitsPerOunce = units
	}

	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}

	if tmp.DefaultCurrency == "" {
		cfg.DefaultCurrency = domain.CurrencyUSD
	} else {
		currency, err := domain.ParseDisplayCurrency(tmp.DefaultCurrency)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'default_currency' param: %w", err)
		}
		cfg.DefaultCurrency = currency
	}

	if cfg.LedgerDir == "" {
		cfg.LedgerDir = defaultLedgerDir
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = defaultMaxRecords
	}
	if cfg.SerialPrefix == "" {
		cfg.SerialPrefix = defaultSerialPrefix
	}
	if cfg.CertCacheDir == "" {
		cfg.CertCacheDir = defaultCertCacheDir
	}

	if cfg.Feeds.SpotPrimaryURL == "" {
		cfg.Feeds.SpotPrimaryURL = defaultSpotPrimaryURL
	}
	if cfg.Feeds.SpotFallbackURL == "" {
		cfg.Feeds.SpotFallbackURL = defaultSpotFallbackURL
	}
	if cfg.Feeds.CryptoURL == "" {
		cfg.Feeds.CryptoURL = defaultCryptoURL
	}
	if cfg.Feeds.FxURL == "" {
		cfg.Feeds.FxURL = defaultFxURL
	}

	return cfg, nil
}
