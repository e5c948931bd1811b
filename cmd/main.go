// Command silvermint runs a silver-backed token mint desk: it tracks the
// live silver spot price, converts token amounts into fiat and ETH, takes
// treasury payments from a local wallet and keeps a per-address receipt
// ledger, all behind a local web UI.
//
// Usage:
//
//	silvermint --config config.yaml
//	silvermint setup   (interactive configuration wizard)
//	silvermint         (uses CLI arguments)
//
// Optional environment variables:
//
//	SILVERMINT_PRIVATE_KEY - hex private key used to pay the treasury.
//	Without it the desk runs in view-only mode: prices and quotes work,
//	minting is disabled.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/adshao/go-binance/v2"
	"github.com/hirokisan/bybit/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/silvermint/config"
	"github.com/vadiminshakov/silvermint/internal/app"
	"github.com/vadiminshakov/silvermint/internal/services/convert"
	"github.com/vadiminshakov/silvermint/internal/services/quote"
	"github.com/vadiminshakov/silvermint/internal/services/resolver"
	"github.com/vadiminshakov/silvermint/internal/services/wallet"
	"github.com/vadiminshakov/silvermint/internal/setup"
	"github.com/vadiminshakov/silvermint/internal/storage/mintledger"
	"github.com/vadiminshakov/silvermint/internal/web"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		os.Args = []string{os.Args[0], "--config", "config.gen.yaml"}
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := buildSession(ctx, cfg, logger)

	ledger, err := mintledger.NewWALStore(cfg.LedgerDir, cfg.MaxRecords, cfg.UnitsPerOunce, logger)
	if err != nil {
		logger.Fatal("failed to open mint ledger", zap.Error(err))
	}
	defer ledger.Close()

	fetcher := quote.NewFetcher()
	cryptoSources := []quote.CryptoSource{
		quote.NewCoingeckoCryptoSource(cfg.Feeds.CryptoURL, fetcher),
		quote.NewBinanceCryptoSource(binance.NewClient("", "")),
		quote.NewBybitCryptoSource(bybit.NewClient()),
	}

	priceResolver, err := resolver.New(
		fetcher,
		quote.GoldpriceSpotSource(cfg.Feeds.SpotPrimaryURL),
		quote.MetalsLiveSpotSource(cfg.Feeds.SpotFallbackURL),
		cryptoSources,
		quote.FxRateSource(cfg.Feeds.FxURL),
		cfg.PremiumMultiplier,
		logger,
	)
	if err != nil {
		logger.Fatal("failed to build price resolver", zap.Error(err))
	}

	engine, err := convert.NewEngine(cfg.UnitsPerOunce)
	if err != nil {
		logger.Fatal("failed to build conversion engine", zap.Error(err))
	}

	desk, err := app.NewDesk(priceResolver, engine, session, ledger, app.Config{
		TreasuryAddress: cfg.TreasuryAddress,
		SerialPrefix:    cfg.SerialPrefix,
		RefreshInterval: cfg.RefreshInterval,
		DefaultCurrency: cfg.DefaultCurrency,
	}, logger)
	if err != nil {
		logger.Fatal("failed to build mint desk", zap.Error(err))
	}

	server := web.NewServer(cfg.ListenAddr, desk, logger)
	server.TLSDomains = cfg.TLSDomains
	server.CertCacheDir = cfg.CertCacheDir

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return desk.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("web UI listening", zap.String("addr", cfg.ListenAddr))
		return server.Start(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("mint desk stopped", zap.Error(err))
	}
	logger.Info("mint desk stopped")
}

// buildSession creates the wallet session. A missing private key or RPC
// endpoint degrades to a view-only session instead of aborting startup.
func buildSession(ctx context.Context, cfg config.Config, logger *zap.Logger) wallet.Session {
	key := os.Getenv("SILVERMINT_PRIVATE_KEY")
	if key == "" || cfg.RPCURL == "" {
		logger.Warn("no wallet key or RPC endpoint configured, running view-only")
		return wallet.NewStubSession("", decimal.Zero)
	}

	session, err := wallet.NewEthSession(ctx, cfg.RPCURL, key, cfg.ChainID, logger)
	if err != nil {
		logger.Warn("wallet session unavailable, running view-only", zap.Error(err))
		return wallet.NewStubSession("", decimal.Zero)
	}
	return session
}
