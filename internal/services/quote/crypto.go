package quote

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

// CryptoSource resolves the ETH unit price. A source must yield a USD value;
// the AUD value is optional and stays nil when the source has no AUD market.
type CryptoSource interface {
	Name() string
	Quote(ctx context.Context) (domain.CryptoQuote, error)
}

// CoingeckoCryptoSource reads both USD and AUD ETH prices from the
// CoinGecko simple/price payload: {"ethereum":{"usd": n, "aud": n}}.
type CoingeckoCryptoSource struct {
	url     string
	fetcher *Fetcher
}

func NewCoingeckoCryptoSource(url string, fetcher *Fetcher) *CoingeckoCryptoSource {
	return &CoingeckoCryptoSource{url: url, fetcher: fetcher}
}

func (s *CoingeckoCryptoSource) Name() string { return "coingecko" }

func (s *CoingeckoCryptoSource) Quote(ctx context.Context) (domain.CryptoQuote, error) {
	body, err := s.fetcher.FetchBody(ctx, s.Name(), s.url)
	if err != nil {
		return domain.CryptoQuote{}, err
	}

	var payload struct {
		Ethereum struct {
			USD json.Number `json:"usd"`
			AUD json.Number `json:"aud"`
		} `json:"ethereum"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.CryptoQuote{}, errors.Wrapf(ErrPayloadInvalid, "coingecko: %v", err)
	}
	if payload.Ethereum.USD == "" {
		return domain.CryptoQuote{}, errors.Wrap(ErrPayloadInvalid, "coingecko: no usd price")
	}

	usd, err := decimal.NewFromString(payload.Ethereum.USD.String())
	if err != nil || usd.LessThanOrEqual(decimal.Zero) {
		return domain.CryptoQuote{}, errors.Wrapf(ErrPayloadInvalid, "coingecko: bad usd price %q", payload.Ethereum.USD)
	}

	q := domain.CryptoQuote{USD: usd}
	if payload.Ethereum.AUD != "" {
		if aud, err := decimal.NewFromString(payload.Ethereum.AUD.String()); err == nil && aud.GreaterThan(decimal.Zero) {
			q.AUD = &aud
		}
	}

	return q, nil
}
