package quote

import (
	"context"
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

// BinanceCryptoSource quotes ETH against USDT via the Binance spot API.
// USDT is treated as the USD value; Binance has no AUD market worth quoting,
// so the AUD side stays nil.
type BinanceCryptoSource struct {
	client *binance.Client
	symbol string
}

func NewBinanceCryptoSource(client *binance.Client) *BinanceCryptoSource {
	return &BinanceCryptoSource{client: client, symbol: "ETHUSDT"}
}

func (s *BinanceCryptoSource) Name() string { return "binance" }

func (s *BinanceCryptoSource) Quote(ctx context.Context) (domain.CryptoQuote, error) {
	prices, err := s.client.NewListPricesService().Symbol(s.symbol).Do(ctx)
	if err != nil {
		return domain.CryptoQuote{}, err
	}
	if len(prices) == 0 {
		return domain.CryptoQuote{}, fmt.Errorf("binance API returned empty prices for %s", s.symbol)
	}

	usd, err := decimal.NewFromString(prices[0].Price)
	if err != nil {
		return domain.CryptoQuote{}, err
	}

	return domain.CryptoQuote{USD: usd}, nil
}
