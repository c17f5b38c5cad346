package pricefeed

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/kydenul/bos"
)

// MemoryCache keeps recent quotes in process for ttl.
type MemoryCache struct {
	inner   Source
	cache   *ttlcache.Cache[string, Quote]
	monitor *bos.PerformanceMonitor
}

// NewMemoryCache caches the answers of inner. Close stops the expiry goroutine.
func NewMemoryCache(inner Source, ttl time.Duration, monitor *bos.PerformanceMonitor) *MemoryCache {
	cache := ttlcache.New[string, Quote](
		ttlcache.WithTTL[string, Quote](ttl),
		ttlcache.WithDisableTouchOnHit[string, Quote](),
	)
	go cache.Start()

	return &MemoryCache{
		inner:   inner,
		cache:   cache,
		monitor: monitor,
	}
}

// Quote returns a cached quote or asks inner and stores the answer
func (m *MemoryCache) Quote(ctx context.Context, currency string) (Quote, error) {
	currency = normalizeCurrency(currency)

	if item := m.cache.Get(currency); item != nil {
		m.record(true)
		return item.Value(), nil
	}
	m.record(false)

	quote, err := m.inner.Quote(ctx, currency)
	if err != nil {
		return Quote{}, err
	}

	m.cache.Set(currency, quote, ttlcache.DefaultTTL)
	return quote, nil
}

// Invalidate drops the cached quote of currency
func (m *MemoryCache) Invalidate(currency string) {
	m.cache.Delete(normalizeCurrency(currency))
}

// Len returns the number of cached quotes
func (m *MemoryCache) Len() int { return m.cache.Len() }

// Close stops the cache's cleanup loop
func (m *MemoryCache) Close() { m.cache.Stop() }

func (m *MemoryCache) record(hit bool) {
	if m.monitor != nil {
		m.monitor.RecordPriceCache(hit)
	}
}
