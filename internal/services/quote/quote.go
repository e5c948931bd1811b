// Package quote fetches single prices from external HTTP feeds.
// Each source performs exactly one fetch per call; retry and fallback
// policy belongs to the resolver.
package quote

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 15 * time.Second

var (
	// ErrFeedUnreachable transport failure or non-2xx status from the feed.
	ErrFeedUnreachable = errors.New("quote feed unreachable")
	// ErrPayloadInvalid the feed answered but the payload did not yield a finite price.
	ErrPayloadInvalid = errors.New("quote payload invalid")
)

// Source describes one HTTP price feed: an endpoint plus the rule
// extracting a single numeric price from its JSON payload.
type Source struct {
	Name    string
	URL     string
	Extract func(payload []byte) (decimal.Decimal, error)
}

// Fetcher performs single uncached fetches against quote sources.
type Fetcher struct {
	httpClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{httpClient: &http.Client{Timeout: defaultTimeout}}
}

// FetchBody requests the URL once and returns the raw payload. The name
// labels errors with the calling source.
func (f *Fetcher) FetchBody(ctx context.Context, name, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(ErrFeedUnreachable, "%s: build request: %v", name, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrFeedUnreachable, "%s: %v", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(ErrFeedUnreachable, "%s: status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrFeedUnreachable, "%s: read body: %v", name, err)
	}
	return body, nil
}

// Fetch requests the source endpoint once and extracts its price.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (decimal.Decimal, error) {
	body, err := f.FetchBody(ctx, src.Name, src.URL)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := src.Extract(body)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrPayloadInvalid, "%s: %v", src.Name, err)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, errors.Wrapf(ErrPayloadInvalid, "%s: non-positive price %s", src.Name, price.String())
	}

	return price, nil
}
