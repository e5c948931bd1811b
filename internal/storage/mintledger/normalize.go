package mintledger

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/silvermint/internal/domain"
)

// flexNumber decodes a JSON number or a quoted numeric string. Early ledger
// revisions stored amounts as pre-formatted strings ("5.00", "500").
type flexNumber struct {
	value decimal.Decimal
	set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, ok := domain.ParseFormattedFiat(s); ok {
			n.value = v
			n.set = true
		}
		return nil
	}

	v, err := decimal.NewFromString(string(data))
	if err != nil {
		return nil
	}
	n.value = v
	n.set = true
	return nil
}

// rawRecord covers every shape the ledger has ever stored. The oldest
// revision used {serial, ounces, slvr, usd, ts}; later ones added raw
// numeric fields. Unknown or malformed optional fields default rather than
// dropping the record.
type rawRecord struct {
	Serial         string      `json:"serial"`
	TokenAmount    flexNumber  `json:"token_amount"`
	Slvr           flexNumber  `json:"slvr"`
	Ounces         flexNumber  `json:"ounces"`
	FiatValueRaw   flexNumber  `json:"fiat_value_raw"`
	CryptoValueRaw *flexNumber `json:"crypto_value_raw"`
	FiatFormatted  string      `json:"fiat_value"`
	USDFormatted   string      `json:"usd"`
	Timestamp      time.Time   `json:"ts"`
}

// decodeSequence is the single versioned deserialization step: every stored
// shape is mapped onto MintRecord here and normalized once, so read sites
// never need ad hoc nil checks.
func decodeSequence(payload []byte, unitsPerOunce decimal.Decimal) ([]domain.MintRecord, error) {
	var raws []rawRecord
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, errors.Wrap(err, "decode mint record sequence")
	}

	records := make([]domain.MintRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, raw.toRecord(unitsPerOunce))
	}
	return records, nil
}

func (r rawRecord) toRecord(unitsPerOunce decimal.Decimal) domain.MintRecord {
	rec := domain.MintRecord{
		Serial:    r.Serial,
		Timestamp: r.Timestamp,
	}

	switch {
	case r.TokenAmount.set:
		rec.TokenAmount = r.TokenAmount.value
	case r.Slvr.set:
		rec.TokenAmount = r.Slvr.value
	}

	if r.Ounces.set {
		rec.Ounces = r.Ounces.value
	}
	if r.FiatValueRaw.set {
		rec.FiatValueRaw = r.FiatValueRaw.value
	}
	if r.CryptoValueRaw != nil && r.CryptoValueRaw.set {
		v := r.CryptoValueRaw.value
		rec.CryptoValueRaw = &v
	}

	rec.FormattedFiatValue = r.FiatFormatted
	if rec.FormattedFiatValue == "" {
		rec.FormattedFiatValue = r.USDFormatted
	}

	return rec.Normalized(unitsPerOunce)
}
