package bos

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerformanceMonitor(t *testing.T) {
	t.Run("generations", func(t *testing.T) {
		pm := NewPerformanceMonitor()

		pm.RecordGeneration(nil, 10*time.Millisecond)
		pm.RecordGeneration(ErrInvalidPrice.WithOperation("Generate"), 2*time.Millisecond)
		pm.RecordGeneration(ErrCapTooLow, 3*time.Millisecond)
		pm.RecordGeneration(errors.New("other"), 5*time.Millisecond)

		m := pm.GetMetrics()
		assert.Equal(t, int64(4), m.TotalGenerations)
		assert.Equal(t, int64(1), m.SuccessfulGenerations)
		assert.Equal(t, int64(3), m.FailedGenerations)
		assert.Equal(t, int64(1), m.InvalidPriceFailures)
		assert.Equal(t, int64(1), m.CapTooLowFailures)
		assert.Equal(t, 5*time.Millisecond, m.GetAverageGenerationTime())
		assert.InDelta(t, 25.0, m.GetSuccessRate(), 0.001)
	})

	t.Run("price feed and claims", func(t *testing.T) {
		pm := NewPerformanceMonitor()

		pm.RecordPriceFetch(true)
		pm.RecordPriceFetch(false)
		pm.RecordPriceCache(true)
		pm.RecordPriceCache(true)
		pm.RecordPriceCache(true)
		pm.RecordPriceCache(false)
		pm.RecordPriceFallback()
		pm.RecordClaims(50)
		pm.RecordClaims(0)

		m := pm.GetMetrics()
		assert.Equal(t, int64(2), m.PriceFetches)
		assert.Equal(t, int64(1), m.PriceFeedErrors)
		assert.InDelta(t, 75.0, m.GetCacheHitRate(), 0.001)
		assert.Equal(t, int64(1), m.PriceFallbacks)
		assert.Equal(t, int64(50), m.Claims)
	})

	t.Run("disabled", func(t *testing.T) {
		pm := NewPerformanceMonitor()
		pm.Disable()
		assert.False(t, pm.IsEnabled())

		pm.RecordGeneration(nil, time.Millisecond)
		pm.RecordClaims(3)
		assert.Zero(t, pm.GetMetrics().TotalGenerations)
		assert.Zero(t, pm.GetMetrics().Claims)

		pm.Enable()
		pm.RecordClaims(3)
		assert.Equal(t, int64(3), pm.GetMetrics().Claims)
	})

	t.Run("reset", func(t *testing.T) {
		pm := NewPerformanceMonitor()
		pm.RecordGeneration(nil, time.Millisecond)
		pm.ResetMetrics()

		m := pm.GetMetrics()
		assert.Zero(t, m.TotalGenerations)
		assert.Zero(t, m.GetSuccessRate())
		assert.Zero(t, m.GetCacheHitRate())
		assert.NotZero(t, m.StartTime)
	})

	t.Run("concurrent", func(t *testing.T) {
		pm := NewPerformanceMonitor()

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					pm.RecordGeneration(nil, time.Microsecond)
					pm.RecordClaims(1)
				}
			}()
		}
		wg.Wait()

		m := pm.GetMetrics()
		assert.Equal(t, int64(1000), m.TotalGenerations)
		assert.Equal(t, int64(1000), m.Claims)
	})
}
