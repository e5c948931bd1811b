package quote

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// GoldpriceSpotSource reads the silver spot price from the goldprice.org
// dbXRates payload: {"items":[{"xagPrice": <number>, ...}]}.
func GoldpriceSpotSource(url string) Source {
	return Source{
		Name: "goldprice",
		URL:  url,
		Extract: func(payload []byte) (decimal.Decimal, error) {
			var body struct {
				Items []struct {
					XagPrice json.Number `json:"xagPrice"`
				} `json:"items"`
			}
			if err := json.Unmarshal(payload, &body); err != nil {
				return decimal.Zero, err
			}
			if len(body.Items) == 0 || body.Items[0].XagPrice == "" {
				return decimal.Zero, fmt.Errorf("no xagPrice in payload")
			}
			return decimal.NewFromString(body.Items[0].XagPrice.String())
		},
	}
}

// MetalsLiveSpotSource reads the fallback spot feed, which has shipped the
// silver price under several positional shapes over time:
// [{"price": n}, ...], [_, {"silver": n}, ...] or [_, n, ...].
func MetalsLiveSpotSource(url string) Source {
	return Source{
		Name: "metals.live",
		URL:  url,
		Extract: func(payload []byte) (decimal.Decimal, error) {
			var elements []json.RawMessage
			if err := json.Unmarshal(payload, &elements); err != nil {
				return decimal.Zero, err
			}

			if len(elements) > 0 {
				var first struct {
					Price json.Number `json:"price"`
				}
				if err := json.Unmarshal(elements[0], &first); err == nil && first.Price != "" {
					return decimal.NewFromString(first.Price.String())
				}
			}

			if len(elements) > 1 {
				var second struct {
					Silver json.Number `json:"silver"`
				}
				if err := json.Unmarshal(elements[1], &second); err == nil && second.Silver != "" {
					return decimal.NewFromString(second.Silver.String())
				}

				var raw json.Number
				if err := json.Unmarshal(elements[1], &raw); err == nil && raw != "" {
					return decimal.NewFromString(raw.String())
				}
			}

			return decimal.Zero, fmt.Errorf("no silver price in any known payload shape")
		},
	}
}

// FxRateSource reads the USD to AUD rate from an exchange-rate payload:
// {"rates":{"AUD": <number>, ...}}.
func FxRateSource(url string) Source {
	return Source{
		Name: "fx-aud",
		URL:  url,
		Extract: func(payload []byte) (decimal.Decimal, error) {
			var body struct {
				Rates map[string]json.Number `json:"rates"`
			}
			if err := json.Unmarshal(payload, &body); err != nil {
				return decimal.Zero, err
			}
			rate, ok := body.Rates["AUD"]
			if !ok || rate == "" {
				return decimal.Zero, fmt.Errorf("no AUD rate in payload")
			}
			return decimal.NewFromString(rate.String())
		},
	}
}
