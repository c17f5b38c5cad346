package pricefeed

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kydenul/bos"
)

// Quote sources reported by a Feed besides the upstream ones
const (
	SourceConfig   = "config"
	SourceFallback = "fallback"
)

// FeedOptions carries the optional collaborators of a Feed
type FeedOptions struct {
	HTTPClient *http.Client            // Transport for the price API, nil for a default client
	Redis      *redis.Client           // Shared quote cache, nil to skip Redis
	Logger     bos.Logger              // nil for silence
	Monitor    *bos.PerformanceMonitor // nil to skip metrics
	Upstream   Source                  // Replaces the HTTP client when set
}

// Feed answers the BTC price used for generation.
//
// When the feed is disabled the configured price is returned. When it is
// enabled the chain memory cache -> Redis cache -> circuit breaker -> HTTP is
// asked, and on failure the configured price is used if fallback is on.
type Feed struct {
	enabled  bool
	fallback bool
	price    uint64
	currency string

	source  Source
	memory  *MemoryCache
	logger  bos.Logger
	monitor *bos.PerformanceMonitor
}

// NewFeed builds the source chain described by cfg
func NewFeed(cfg *bos.Config, opts FeedOptions) *Feed {
	if cfg == nil {
		cfg = bos.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = bos.NewSilentLogger()
	}

	f := &Feed{
		enabled:  cfg.PriceFeed.Enabled,
		fallback: cfg.PriceFeed.FallbackOnError,
		price:    cfg.Generator.PriceCents,
		currency: normalizeCurrency(cfg.Generator.Currency),
		logger:   logger,
		monitor:  opts.Monitor,
	}
	if !f.enabled {
		return f
	}

	upstream := opts.Upstream
	if upstream == nil {
		client := NewHTTPClient(cfg.PriceFeed, opts.HTTPClient, logger)
		client.SetMonitor(opts.Monitor)
		upstream = client
	}

	var source Source = NewBreakerSource(upstream, cfg.CircuitBreaker, logger)

	if opts.Redis != nil {
		rc := NewRedisCacheWithRetry(source, opts.Redis, cfg.PriceFeed.CacheTTL, logger,
			cfg.PriceFeed.RetryAttempts, cfg.PriceFeed.RetryInterval)
		rc.SetMonitor(opts.Monitor)
		source = rc
	}

	f.memory = NewMemoryCache(source, cfg.PriceFeed.CacheTTL, opts.Monitor)
	f.source = f.memory

	logger.Debug("Price feed enabled: base=%s cache_ttl=%v redis=%t",
		cfg.PriceFeed.BaseURL, cfg.PriceFeed.CacheTTL, opts.Redis != nil)
	return f
}

// Price returns the BTC price in the configured currency
func (f *Feed) Price(ctx context.Context) (Quote, error) {
	return f.Quote(ctx, f.currency)
}

// Quote returns the BTC price in currency.
// The configured price can only stand in for the configured currency.
func (f *Feed) Quote(ctx context.Context, currency string) (Quote, error) {
	currency = normalizeCurrency(currency)

	if !f.enabled {
		if currency != f.currency {
			return Quote{}, bos.ErrFeedUnavailable.WithDetailsf(
				"price feed disabled and no configured price for %s", currency)
		}
		return f.configured(SourceConfig), nil
	}

	quote, err := f.source.Quote(ctx, currency)
	if err == nil {
		return quote, nil
	}

	if !f.fallback || currency != f.currency || ctx.Err() != nil {
		return Quote{}, err
	}

	f.logger.Error("Price feed failed, falling back to configured price %s: %v",
		bos.FormatFiat(f.price, f.currency), err)
	if f.monitor != nil {
		f.monitor.RecordPriceFallback()
	}
	return f.configured(SourceFallback), nil
}

func (f *Feed) configured(source string) Quote {
	return Quote{
		Currency:  f.currency,
		Cents:     f.price,
		FetchedAt: time.Now(),
		Source:    source,
	}
}

// Close releases the in-process cache
func (f *Feed) Close() {
	if f.memory != nil {
		f.memory.Close()
	}
}
