// Package app wires pricing, conversion, payment and the mint ledger into
// one stateful desk that the web layer renders.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/silvermint/internal/domain"
	"github.com/vadiminshakov/silvermint/internal/services/convert"
	"github.com/vadiminshakov/silvermint/internal/services/wallet"
	"github.com/vadiminshakov/silvermint/pkg/backoff"
)

var (
	// ErrMintAmountInvalid the requested token amount is zero or negative.
	ErrMintAmountInvalid = errors.New("mint amount must be a positive number of tokens")
	// ErrQuoteUnavailable no priced snapshot is held; minting needs one.
	ErrQuoteUnavailable = errors.New("no priced snapshot available")
	// ErrPaymentUnavailable the snapshot carries no crypto price, so the
	// payment amount cannot be computed.
	ErrPaymentUnavailable = errors.New("crypto payment price unavailable")
	// ErrNoWallet no wallet address is active.
	ErrNoWallet = errors.New("no wallet is connected")
)

type snapshotResolver interface {
	Resolve(ctx context.Context) (*domain.PricedSnapshot, error)
}

type mintLedger interface {
	Record(address string, rec domain.MintRecord, current []domain.MintRecord) ([]domain.MintRecord, error)
	Load(address string) []domain.MintRecord
}

// Config holds the desk parameters that come from the config file.
type Config struct {
	TreasuryAddress string
	SerialPrefix    string
	RefreshInterval time.Duration
	DefaultCurrency domain.DisplayCurrency
}

// Desk owns the mutable state of the mint desk: the current priced
// snapshot, the active wallet address, the selected display currency and
// the ledger view for that address. All mutation goes through its methods;
// concurrent refreshes settle last-write-wins.
type Desk struct {
	resolver snapshotResolver
	engine   *convert.Engine
	session  wallet.Session
	ledger   mintLedger
	cfg      Config
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot *domain.PricedSnapshot
	currency domain.DisplayCurrency
	address  string
	records  []domain.MintRecord
}

// State is an immutable view of the desk for rendering.
type State struct {
	Snapshot *domain.PricedSnapshot
	Currency domain.DisplayCurrency
	Address  string
	Records  []domain.MintRecord
	Totals   domain.LedgerTotals
}

// MintResult pairs the settled payment with the recorded receipt.
// Balance is the wallet balance after payment, nil when the lookup failed.
type MintResult struct {
	Record  domain.MintRecord
	Receipt *wallet.Receipt
	Balance *decimal.Decimal
}

func NewDesk(r snapshotResolver, engine *convert.Engine, session wallet.Session,
	ledger mintLedger, cfg Config, logger *zap.Logger) (*Desk, error) {

	if !common.IsHexAddress(cfg.TreasuryAddress) {
		return nil, errors.Errorf("treasury address %q is not a valid hex address", cfg.TreasuryAddress)
	}
	if cfg.SerialPrefix == "" {
		cfg.SerialPrefix = "TPC"
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 90 * time.Second
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = domain.CurrencyUSD
	}

	return &Desk{
		resolver: r,
		engine:   engine,
		session:  session,
		ledger:   ledger,
		cfg:      cfg,
		logger:   logger,
		currency: cfg.DefaultCurrency,
	}, nil
}

// State returns a copy of the current desk state.
func (d *Desk) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	records := make([]domain.MintRecord, len(d.records))
	copy(records, d.records)

	return State{
		Snapshot: d.snapshot,
		Currency: d.currency,
		Address:  d.address,
		Records:  records,
		Totals:   domain.Aggregate(records),
	}
}

// Refresh resolves a fresh snapshot and installs it. A failed resolve
// clears the held snapshot so the desk never shows stale prices. When
// refreshes overlap, whichever finishes last wins.
func (d *Desk) Refresh(ctx context.Context) error {
	snap, err := d.resolver.Resolve(ctx)

	d.mu.Lock()
	d.snapshot = snap
	d.mu.Unlock()

	if err != nil {
		return errors.Wrap(err, "refresh priced snapshot")
	}
	return nil
}

// SetCurrency switches the display currency. Setting the already active
// currency is a no-op.
func (d *Desk) SetCurrency(c domain.DisplayCurrency) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.currency == c {
		return
	}
	d.currency = c
}

// Connect establishes the wallet session and hydrates the ledger view for
// the returned address.
func (d *Desk) Connect(ctx context.Context) (string, error) {
	address, err := d.session.Connect(ctx)
	if err != nil {
		return "", errors.Wrap(err, "connect wallet")
	}

	d.adoptAddress(address)
	return address, nil
}

// Disconnect drops the active address and its ledger view. The wallet
// session itself stays usable for a later Connect.
func (d *Desk) Disconnect() {
	d.clearAddress()
}

// Quote converts a token amount against the current snapshot and currency.
func (d *Desk) Quote(amount decimal.Decimal) convert.Conversion {
	d.mu.RLock()
	snap, currency := d.snapshot, d.currency
	d.mu.RUnlock()

	return d.engine.Convert(amount, snap, currency)
}

// Mint runs the full flow: validate, price, pay the treasury in crypto,
// then append the receipt to the address ledger. A ledger persistence
// failure does not void the mint; the receipt stays in memory and the
// failure is logged.
func (d *Desk) Mint(ctx context.Context, amount decimal.Decimal) (*MintResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrMintAmountInvalid
	}

	d.mu.RLock()
	snap, currency, address := d.snapshot, d.currency, d.address
	d.mu.RUnlock()

	if address == "" {
		return nil, ErrNoWallet
	}
	if snap == nil {
		return nil, ErrQuoteUnavailable
	}

	conv := d.engine.Convert(amount, snap, currency)
	if !conv.FiatAvailable {
		return nil, ErrQuoteUnavailable
	}
	if !conv.CryptoAvailable {
		return nil, ErrPaymentUnavailable
	}

	receipt, err := d.session.SendPayment(ctx, d.cfg.TreasuryAddress, conv.CryptoValue)
	if err != nil {
		return nil, errors.Wrap(err, "treasury payment")
	}

	cryptoValue := conv.CryptoValue
	record := domain.MintRecord{
		Serial:             domain.NewSerial(d.cfg.SerialPrefix),
		TokenAmount:        amount,
		Ounces:             conv.Ounces,
		FiatValueRaw:       conv.FiatValueBase,
		CryptoValueRaw:     &cryptoValue,
		FormattedFiatValue: domain.FormatFiat(conv.FiatValue, currency),
		Timestamp:          time.Now().UTC(),
	}

	// the ledger read-modify-write stays under the write lock so overlapping
	// mints merge their receipts instead of overwriting each other
	d.mu.Lock()
	current := d.records
	sameAccount := d.address == address
	if !sameAccount {
		// the account switched while the payment settled; the receipt
		// still belongs to the address that paid
		current = d.ledger.Load(address)
	}
	updated, recordErr := d.ledger.Record(address, record, current)
	if sameAccount {
		d.records = updated
	}
	d.mu.Unlock()

	if recordErr != nil {
		d.logger.Warn("mint receipt not persisted, kept in memory only",
			zap.String("serial", record.Serial), zap.Error(recordErr))
	}

	d.logger.Info("minted tokens",
		zap.String("serial", record.Serial),
		zap.String("amount", amount.String()),
		zap.String("tx_hash", receipt.TxHash))

	result := &MintResult{Record: record, Receipt: receipt}
	if balance, err := d.session.GetBalance(ctx, address); err == nil {
		result.Balance = &balance
	}
	return result, nil
}

// Run drives the desk: hydrate prices with backoff, restore a previous
// wallet session, then keep refreshing on a ticker while reacting to
// wallet events. Blocks until ctx is done.
func (d *Desk) Run(ctx context.Context) error {
	if err := backoff.Default().Retry(ctx, d.Refresh); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.logger.Warn("initial price hydrate failed, desk starts unpriced", zap.Error(err))
	}

	if address, err := d.session.RestoreSilently(ctx); err == nil && address != "" {
		d.adoptAddress(address)
		d.logger.Info("wallet session restored", zap.String("address", address))
	}

	subID, events := d.session.Subscribe()
	defer d.session.Unsubscribe(subID)

	ticker := time.NewTicker(d.cfg.RefreshInterval)
	defer ticker.Stop()

	d.logger.Info("mint desk running", zap.Duration("refresh_interval", d.cfg.RefreshInterval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("context done, stopping mint desk")
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			switch ev.Kind {
			case wallet.EventAccountChanged:
				d.adoptAddress(ev.Address)
				d.logger.Info("active account switched", zap.String("address", ev.Address))
			case wallet.EventDisconnected:
				d.clearAddress()
				d.logger.Info("wallet disconnected")
			}
		case <-ticker.C:
			if err := d.Refresh(ctx); err != nil {
				d.logger.Error("scheduled refresh failed", zap.Error(err))
			}
		}
	}
}

func (d *Desk) adoptAddress(address string) {
	records := d.ledger.Load(address)

	d.mu.Lock()
	d.address = address
	d.records = records
	d.mu.Unlock()
}

func (d *Desk) clearAddress() {
	d.mu.Lock()
	d.address = ""
	d.records = nil
	d.mu.Unlock()
}
