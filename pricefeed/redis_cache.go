package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kydenul/bos"
)

// RedisCache shares quotes between processes through Redis.
//
// Redis is an optimization only: any Redis failure is logged and the quote is
// taken from the inner source.
type RedisCache struct {
	inner   Source
	client  *redis.Client
	ttl     time.Duration
	logger  bos.Logger
	retry   retrier
	monitor *bos.PerformanceMonitor
}

// NewRedisCache creates a Redis-backed cache in front of inner
func NewRedisCache(inner Source, client *redis.Client, ttl time.Duration, logger bos.Logger) *RedisCache {
	return NewRedisCacheWithRetry(inner, client, ttl, logger, bos.DefaultRetryAttempts, bos.DefaultRetryInterval)
}

// NewRedisCacheWithRetry creates a Redis-backed cache with custom retry settings
func NewRedisCacheWithRetry(inner Source, client *redis.Client, ttl time.Duration, logger bos.Logger,
	retryAttempts int, retryDelay time.Duration,
) *RedisCache {
	if logger == nil {
		logger = bos.NewSilentLogger()
	}

	return &RedisCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
		retry: retrier{
			logger:    logger,
			attempts:  retryAttempts,
			baseDelay: retryDelay,
		},
	}
}

// SetMonitor makes the cache report hits and misses into monitor
func (c *RedisCache) SetMonitor(monitor *bos.PerformanceMonitor) { c.monitor = monitor }

// quoteKey returns the Redis key of a currency's quote
func quoteKey(currency string) string {
	return bos.PriceKeyPrefix + currency
}

// Quote returns the quote stored in Redis or asks inner and stores its answer
func (c *RedisCache) Quote(ctx context.Context, currency string) (Quote, error) {
	currency = normalizeCurrency(currency)

	quote, found, err := c.load(ctx, currency)
	if err != nil {
		c.logger.Error("Redis quote lookup failed for %s, asking upstream: %v", currency, err)
	}
	if found {
		c.record(true)
		return quote, nil
	}
	c.record(false)

	quote, err = c.inner.Quote(ctx, currency)
	if err != nil {
		return Quote{}, err
	}

	if err := c.store(ctx, quote); err != nil {
		c.logger.Error("Failed to cache quote for %s in Redis: %v", currency, err)
	}
	return quote, nil
}

// load reads the cached quote. A missing key is not an error.
func (c *RedisCache) load(ctx context.Context, currency string) (Quote, bool, error) {
	key := quoteKey(currency)

	var data []byte
	err := c.retry.do(ctx, "get["+key+"]", func() error {
		var getErr error
		data, getErr = c.client.Get(ctx, key).Bytes()
		if errors.Is(getErr, redis.Nil) {
			data = nil
			return nil
		}
		return getErr
	})
	if err != nil {
		return Quote{}, false, bos.ErrQuoteCacheFailure.WithCause(err).WithOperation("get")
	}
	if data == nil {
		return Quote{}, false, nil
	}

	var quote Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return Quote{}, false, bos.ErrQuoteCacheFailure.WithCause(err).WithDetailsf("corrupt entry %s", key)
	}
	if quote.Cents == 0 {
		return Quote{}, false, bos.ErrQuoteCacheFailure.WithDetailsf("zero price in %s", key)
	}
	return quote, true, nil
}

// store writes quote with the cache TTL
func (c *RedisCache) store(ctx context.Context, quote Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return bos.ErrQuoteCacheFailure.WithCause(err).WithOperation("set")
	}

	key := quoteKey(quote.Currency)
	err = c.retry.do(ctx, "set["+key+"]", func() error {
		return c.client.Set(ctx, key, data, c.ttl).Err()
	})
	if err != nil {
		return bos.ErrQuoteCacheFailure.WithCause(err).WithOperation("set")
	}

	c.logger.Debug("Cached quote %s for %v", key, c.ttl)
	return nil
}

// Invalidate removes the cached quote of currency
func (c *RedisCache) Invalidate(ctx context.Context, currency string) error {
	key := quoteKey(normalizeCurrency(currency))
	return c.retry.do(ctx, "del["+key+"]", func() error {
		return c.client.Del(ctx, key).Err()
	})
}

func (c *RedisCache) record(hit bool) {
	if c.monitor != nil {
		c.monitor.RecordPriceCache(hit)
	}
}
