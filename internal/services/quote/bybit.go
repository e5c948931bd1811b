package quote

import (
	"context"
	"fmt"

	"github.com/hirokisan/bybit/v2"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

// BybitCryptoSource quotes ETH against USDT via the Bybit V5 market API.
type BybitCryptoSource struct {
	client *bybit.Client
	symbol bybit.SymbolV5
}

func NewBybitCryptoSource(client *bybit.Client) *BybitCryptoSource {
	return &BybitCryptoSource{client: client, symbol: bybit.SymbolV5("ETHUSDT")}
}

func (s *BybitCryptoSource) Name() string { return "bybit" }

func (s *BybitCryptoSource) Quote(_ context.Context) (domain.CryptoQuote, error) {
	symbol := s.symbol
	result, err := s.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
		Category: "spot",
		Symbol:   &symbol,
	})
	if err != nil {
		return domain.CryptoQuote{}, err
	}

	if len(result.Result.Spot.List) == 0 {
		return domain.CryptoQuote{}, fmt.Errorf("bybit API returned empty prices for %s", symbol)
	}

	usd, err := decimal.NewFromString(result.Result.Spot.List[0].LastPrice)
	if err != nil {
		return domain.CryptoQuote{}, err
	}

	return domain.CryptoQuote{USD: usd}, nil
}
