package pricefeed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kydenul/bos"
)

// maxResponseSize bounds the body read from the price API
const maxResponseSize = 64 * 1024

// HTTPClient fetches BTC quotes from a CoinGecko-compatible
// /simple/price endpoint.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  bos.Logger
	retry   retrier
	monitor *bos.PerformanceMonitor
	now     func() time.Time
}

// NewHTTPClient creates a price client for baseURL.
// A nil httpClient gets a client with the configured timeout.
func NewHTTPClient(cfg *bos.PriceFeedConfig, httpClient *http.Client, logger bos.Logger) *HTTPClient {
	if cfg == nil {
		cfg = bos.DefaultPriceFeedConfig()
	}
	if logger == nil {
		logger = bos.NewSilentLogger()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		logger:  logger,
		retry: retrier{
			logger:    logger,
			attempts:  cfg.RetryAttempts,
			baseDelay: cfg.RetryInterval,
		},
		now: time.Now,
	}
}

// SetMonitor makes the client report fetches into monitor
func (c *HTTPClient) SetMonitor(monitor *bos.PerformanceMonitor) { c.monitor = monitor }

// Quote fetches the current BTC price in currency
func (c *HTTPClient) Quote(ctx context.Context, currency string) (Quote, error) {
	currency = normalizeCurrency(currency)
	if currency == "" {
		return Quote{}, bos.ErrInvalidParameters.WithDetails("empty currency")
	}

	var quote Quote
	err := c.retry.do(ctx, "fetch["+currency+"]", func() error {
		q, err := c.fetch(ctx, currency)
		if err == nil {
			quote = q
		}
		return err
	})

	if c.monitor != nil {
		c.monitor.RecordPriceFetch(err == nil)
	}
	if err != nil {
		c.logger.Error("Price fetch failed for %s: %v", currency, err)
		return Quote{}, err
	}

	c.logger.Debug("Fetched BTC/%s = %s", currency, bos.FormatFiat(quote.Cents, currency))
	return quote, nil
}

func (c *HTTPClient) priceURL(currency string) string {
	q := url.Values{}
	q.Set("ids", "bitcoin")
	q.Set("vs_currencies", strings.ToLower(currency))
	return c.baseURL + "/simple/price?" + q.Encode()
}

func (c *HTTPClient) fetch(ctx context.Context, currency string) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.priceURL(currency), nil)
	if err != nil {
		return Quote{}, bos.ErrInvalidParameters.WithCause(err).WithDetails("cannot build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, bos.ErrFeedUnavailable.WithCause(err).WithDetails(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Quote{}, bos.ErrFeedUnavailable.WithCause(err).WithDetails("reading response body")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return Quote{}, bos.ErrFeedUnavailable.WithDetailsf("status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		// 4xx other than 429 will not get better by retrying
		e := bos.ErrFeedUnavailable.WithDetailsf("status %d", resp.StatusCode)
		e.Retryable = false
		return Quote{}, e
	}

	cents, err := parseQuote(body, currency)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Currency:  currency,
		Cents:     cents,
		FetchedAt: c.now(),
		Source:    "http",
	}, nil
}

// parseQuote extracts bitcoin.<currency> from a /simple/price response as
// exact cents, rounding fractions of a cent down.
func parseQuote(body []byte, currency string) (uint64, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]map[string]json.Number
	if err := dec.Decode(&payload); err != nil {
		return 0, bos.ErrFeedMalformed.WithCause(err).WithDetails("invalid JSON")
	}

	prices, ok := payload["bitcoin"]
	if !ok {
		return 0, bos.ErrFeedMalformed.WithDetails("missing bitcoin entry")
	}
	raw, ok := prices[strings.ToLower(currency)]
	if !ok {
		return 0, bos.ErrFeedMalformed.WithDetailsf("missing %s price", currency)
	}

	cents, err := decimalToCents(raw.String())
	if err != nil {
		return 0, err
	}
	if cents == 0 {
		return 0, bos.ErrFeedZeroPrice.WithDetailsf("bitcoin/%s = %s", currency, raw)
	}
	return cents, nil
}

// decimalToCents converts a decimal string (exponent allowed) to cents
// without going through float64.
func decimalToCents(s string) (uint64, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, bos.ErrFeedMalformed.WithDetailsf("price %q is not a number", s)
	}
	if r.Sign() < 0 {
		return 0, bos.ErrFeedMalformed.WithDetailsf("negative price %q", s)
	}

	r.Mul(r, big.NewRat(100, 1))
	cents := new(big.Int).Quo(r.Num(), r.Denom())
	if !cents.IsUint64() {
		return 0, bos.ErrFeedMalformed.WithDetailsf("price %q out of range", s)
	}
	return cents.Uint64(), nil
}
