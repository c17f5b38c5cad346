// Package pricefeed acquires the BTC exchange rate the distribution is priced at.
//
// A Source answers quotes in fiat cents per bitcoin. Sources compose: the
// HTTP client is wrapped by a circuit breaker, then by a Redis cache and an
// in-process TTL cache, and finally by a Feed that can fall back to a
// configured price.
package pricefeed

import (
	"context"
	"strings"
	"time"
)

// Quote is one BTC price observation
type Quote struct {
	Currency  string    `json:"currency"`   // ISO code, upper case
	Cents     uint64    `json:"cents"`      // Price of one BTC in fiat cents
	FetchedAt time.Time `json:"fetched_at"` // When the upstream answered
	Source    string    `json:"source"`     // Which layer produced the quote
}

// Source answers BTC quotes
type Source interface {
	Quote(ctx context.Context, currency string) (Quote, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context, currency string) (Quote, error)

// Quote calls f
func (f SourceFunc) Quote(ctx context.Context, currency string) (Quote, error) {
	return f(ctx, currency)
}

// normalizeCurrency upper-cases and trims a currency code
func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
