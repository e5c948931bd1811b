// Package resolver orchestrates the quote sources into one priced snapshot
// per refresh cycle.
package resolver

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/silvermint/internal/domain"
	"github.com/vadiminshakov/silvermint/internal/services/quote"
)

var (
	// ErrSpotPriceUnavailable both spot sources failed; the refresh cycle aborts.
	ErrSpotPriceUnavailable = errors.New("silver spot price unavailable")
	// ErrAllSourcesExhausted every crypto source failed; the snapshot degrades
	// to null crypto fields instead of aborting.
	ErrAllSourcesExhausted = errors.New("all crypto price sources exhausted")
)

type fetcher interface {
	Fetch(ctx context.Context, src quote.Source) (decimal.Decimal, error)
}

// Resolver produces one PricedSnapshot per Resolve call.
//
// Policy per instrument:
//   - spot: primary source, then exactly one fallback; both failing aborts
//     the refresh with ErrSpotPriceUnavailable.
//   - crypto: ordered source list folded to the first success; all failing
//     leaves the crypto fields null.
//   - fx: single fetch; failure defaults the rate to 1 so currency toggling
//     never blocks metal pricing.
type Resolver struct {
	fetcher       fetcher
	spotPrimary   quote.Source
	spotFallback  quote.Source
	cryptoSources []quote.CryptoSource
	fxSource      quote.Source
	premium       decimal.Decimal
	logger        *zap.Logger
}

func New(f fetcher, spotPrimary, spotFallback quote.Source, cryptoSources []quote.CryptoSource,
	fxSource quote.Source, premium decimal.Decimal, logger *zap.Logger) (*Resolver, error) {

	if premium.LessThan(decimal.NewFromInt(1)) {
		return nil, errors.Errorf("premium multiplier must be >= 1, got %s", premium.String())
	}

	return &Resolver{
		fetcher:       f,
		spotPrimary:   spotPrimary,
		spotFallback:  spotFallback,
		cryptoSources: cryptoSources,
		fxSource:      fxSource,
		premium:       premium,
		logger:        logger,
	}, nil
}

// Resolve fetches spot, crypto and fx concurrently and assembles the
// snapshot once all three settled. Only a spot failure is fatal.
func (r *Resolver) Resolve(ctx context.Context) (*domain.PricedSnapshot, error) {
	var (
		spot   decimal.Decimal
		crypto *domain.CryptoQuote
		fxRate = decimal.NewFromInt(1)
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		price, err := r.resolveSpot(gctx)
		if err != nil {
			return err
		}
		spot = price
		return nil
	})

	g.Go(func() error {
		q, err := r.resolveCrypto(gctx)
		if err != nil {
			r.logger.Warn("crypto price degraded to unavailable", zap.Error(err))
			return nil
		}
		crypto = q
		return nil
	})

	g.Go(func() error {
		rate, err := r.fetcher.Fetch(gctx, r.fxSource)
		if err != nil {
			// fail-open: treat AUD as USD rather than blocking the cycle
			r.logger.Warn("fx rate fetch failed, defaulting to 1", zap.Error(err))
			return nil
		}
		fxRate = rate
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.NewPricedSnapshot(spot, r.premium, crypto, fxRate, time.Now()), nil
}

func (r *Resolver) resolveSpot(ctx context.Context) (decimal.Decimal, error) {
	price, primaryErr := r.fetcher.Fetch(ctx, r.spotPrimary)
	if primaryErr == nil {
		return price, nil
	}
	r.logger.Warn("primary spot feed failed, using fallback",
		zap.String("source", r.spotPrimary.Name), zap.Error(primaryErr))

	price, fallbackErr := r.fetcher.Fetch(ctx, r.spotFallback)
	if fallbackErr == nil {
		return price, nil
	}

	return decimal.Zero, errors.Wrapf(ErrSpotPriceUnavailable, "primary: %v; fallback: %v", primaryErr, fallbackErr)
}

func (r *Resolver) resolveCrypto(ctx context.Context) (*domain.CryptoQuote, error) {
	for _, src := range r.cryptoSources {
		q, err := src.Quote(ctx)
		if err != nil {
			r.logger.Warn("crypto source failed, trying next",
				zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		return &q, nil
	}
	return nil, errors.Wrapf(ErrAllSourcesExhausted, "%d sources tried", len(r.cryptoSources))
}
