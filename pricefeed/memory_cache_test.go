package pricefeed

import (
	"context"
	"testing"
	"time"

	"github.com/kydenul/bos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingSource(calls *int, cents uint64) Source {
	return SourceFunc(func(ctx context.Context, currency string) (Quote, error) {
		*calls++
		return Quote{Currency: currency, Cents: cents, Source: "http"}, nil
	})
}

func TestMemoryCache(t *testing.T) {
	monitor := bos.NewPerformanceMonitor()
	calls := 0
	cache := NewMemoryCache(countingSource(&calls, 9_649_600), time.Minute, monitor)
	defer cache.Close()

	ctx := context.Background()

	for range 3 {
		quote, err := cache.Quote(ctx, "eur")
		require.NoError(t, err)
		assert.Equal(t, uint64(9_649_600), quote.Cents)
		assert.Equal(t, "EUR", quote.Currency)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())

	_, err := cache.Quote(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	cache.Invalidate("eur")
	_, err = cache.Quote(ctx, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	metrics := monitor.GetMetrics()
	assert.Equal(t, int64(2), metrics.PriceCacheHits)
	assert.Equal(t, int64(3), metrics.PriceCacheMisses)
}

func TestMemoryCache_Expiry(t *testing.T) {
	calls := 0
	cache := NewMemoryCache(countingSource(&calls, 1), 20*time.Millisecond, nil)
	defer cache.Close()

	_, err := cache.Quote(context.Background(), "EUR")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = cache.Quote(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestMemoryCache_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	cache := NewMemoryCache(failingSource(&calls), time.Minute, nil)
	defer cache.Close()

	for range 2 {
		_, err := cache.Quote(context.Background(), "EUR")
		assert.ErrorIs(t, err, bos.ErrFeedUnavailable)
	}
	assert.Equal(t, 2, calls)
	assert.Zero(t, cache.Len())
}
