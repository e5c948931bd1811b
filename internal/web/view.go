package web

import (
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/silvermint/internal/app"
	"github.com/vadiminshakov/silvermint/internal/domain"
	"github.com/vadiminshakov/silvermint/internal/services/convert"
)

// placeholder is rendered wherever a value could not be resolved.
const placeholder = "—"

// viewState is the fully formatted desk state pushed over SSE. All numbers
// arrive as display strings so the page never does money math.
type viewState struct {
	Priced      bool         `json:"priced"`
	SpotPrice   string       `json:"spot_price"`
	MintPrice   string       `json:"mint_price"`
	CryptoPrice string       `json:"crypto_price"`
	Currency    string       `json:"currency"`
	Address     string       `json:"address"`
	ResolvedAt  string       `json:"resolved_at,omitempty"`
	Records     []viewRecord `json:"records"`
	TotalOunces string       `json:"total_ounces"`
	// TotalFiat stays USD-denominated: receipts are recorded against the USD
	// base, so historical sums are not re-rated through the current fx rate.
	TotalFiat string `json:"total_fiat"`
}

type viewRecord struct {
	Serial    string `json:"serial"`
	Tokens    string `json:"tokens"`
	Ounces    string `json:"ounces"`
	Fiat      string `json:"fiat"`
	Crypto    string `json:"crypto"`
	Timestamp string `json:"ts"`
}

// viewQuote is the response to a conversion request.
type viewQuote struct {
	Ounces string `json:"ounces"`
	Fiat   string `json:"fiat"`
	Crypto string `json:"crypto"`
}

func renderState(state app.State) viewState {
	v := viewState{
		Priced:      state.Snapshot != nil,
		SpotPrice:   placeholder,
		MintPrice:   placeholder,
		CryptoPrice: placeholder,
		Currency:    string(state.Currency),
		Address:     state.Address,
		Records:     make([]viewRecord, 0, len(state.Records)),
		TotalOunces: state.Totals.TotalOunces.StringFixed(3),
		TotalFiat:   domain.FormatFiat(state.Totals.TotalFiatRaw, domain.CurrencyUSD),
	}

	if snap := state.Snapshot; snap != nil {
		fx := snap.FxMultiplier(state.Currency)
		v.SpotPrice = domain.FormatFiat(snap.SpotPricePerOunceUSD.Mul(fx), state.Currency)
		v.MintPrice = domain.FormatFiat(snap.MintPricePerOunceUSD.Mul(fx), state.Currency)
		v.ResolvedAt = snap.ResolvedAt.UTC().Format("15:04:05 MST")

		if price, matched := snap.CryptoPriceFor(state.Currency); price.GreaterThan(decimal.Zero) {
			cur := state.Currency
			if !matched {
				cur = domain.CurrencyUSD
			}
			v.CryptoPrice = domain.FormatFiat(price, cur)
		}
	}

	for _, rec := range state.Records {
		v.Records = append(v.Records, renderRecord(rec))
	}
	return v
}

func renderRecord(rec domain.MintRecord) viewRecord {
	out := viewRecord{
		Serial:    rec.Serial,
		Tokens:    rec.TokenAmount.StringFixed(0),
		Ounces:    rec.Ounces.StringFixed(3),
		Fiat:      rec.FormattedFiatValue,
		Crypto:    placeholder,
		Timestamp: rec.Timestamp.UTC().Format("2006-01-02 15:04"),
	}
	if out.Fiat == "" {
		out.Fiat = placeholder
	}
	if rec.CryptoValueRaw != nil {
		out.Crypto = rec.CryptoValueRaw.StringFixed(5) + " ETH"
	}
	return out
}

func renderQuote(conv convert.Conversion) viewQuote {
	q := viewQuote{
		Ounces: conv.Ounces.StringFixed(3),
		Fiat:   placeholder,
		Crypto: placeholder,
	}
	if conv.FiatAvailable {
		q.Fiat = domain.FormatFiat(conv.FiatValue, conv.Currency)
	}
	if conv.CryptoAvailable {
		q.Crypto = conv.CryptoValue.StringFixed(5) + " ETH"
	}
	return q
}
