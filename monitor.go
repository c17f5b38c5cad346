package bos

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceMetrics 性能指标快照
type PerformanceMetrics struct {
	// 生成统计
	TotalGenerations      int64 `json:"total_generations"`      // 总生成次数
	SuccessfulGenerations int64 `json:"successful_generations"` // 成功次数
	FailedGenerations     int64 `json:"failed_generations"`     // 失败次数
	InvalidPriceFailures  int64 `json:"invalid_price_failures"` // 汇率为 0 的失败次数
	CapTooLowFailures     int64 `json:"cap_too_low_failures"`   // 预算不足的失败次数

	// 耗时统计
	TotalGenerationTime   int64 `json:"total_generation_time"`   // 总生成时间(纳秒)
	AverageGenerationTime int64 `json:"average_generation_time"` // 平均生成时间(纳秒)

	// 价格源统计
	PriceFetches     int64 `json:"price_fetches"`      // 远程取价次数
	PriceFeedErrors  int64 `json:"price_feed_errors"`  // 取价失败次数
	PriceCacheHits   int64 `json:"price_cache_hits"`   // 缓存命中次数
	PriceCacheMisses int64 `json:"price_cache_misses"` // 缓存未命中次数
	PriceFallbacks   int64 `json:"price_fallbacks"`    // 使用默认价格次数

	// 领取统计
	Claims int64 `json:"claims"` // 已领取瓶数

	// 时间戳
	StartTime      int64 `json:"start_time"`       // 开始时间
	LastUpdateTime int64 `json:"last_update_time"` // 最后更新时间
}

// GetSuccessRate 获取成功率
func (pm *PerformanceMetrics) GetSuccessRate() float64 {
	total := atomic.LoadInt64(&pm.TotalGenerations)
	if total == 0 {
		return 0.0
	}
	successful := atomic.LoadInt64(&pm.SuccessfulGenerations)
	return float64(successful) / float64(total) * 100.0
}

// GetCacheHitRate 获取缓存命中率
func (pm *PerformanceMetrics) GetCacheHitRate() float64 {
	hits := atomic.LoadInt64(&pm.PriceCacheHits)
	total := hits + atomic.LoadInt64(&pm.PriceCacheMisses)
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}

// GetAverageGenerationTime 获取平均生成时间
func (pm *PerformanceMetrics) GetAverageGenerationTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&pm.AverageGenerationTime))
}

// Reset 重置性能指标
func (pm *PerformanceMetrics) Reset() {
	atomic.StoreInt64(&pm.TotalGenerations, 0)
	atomic.StoreInt64(&pm.SuccessfulGenerations, 0)
	atomic.StoreInt64(&pm.FailedGenerations, 0)
	atomic.StoreInt64(&pm.InvalidPriceFailures, 0)
	atomic.StoreInt64(&pm.CapTooLowFailures, 0)
	atomic.StoreInt64(&pm.TotalGenerationTime, 0)
	atomic.StoreInt64(&pm.AverageGenerationTime, 0)
	atomic.StoreInt64(&pm.PriceFetches, 0)
	atomic.StoreInt64(&pm.PriceFeedErrors, 0)
	atomic.StoreInt64(&pm.PriceCacheHits, 0)
	atomic.StoreInt64(&pm.PriceCacheMisses, 0)
	atomic.StoreInt64(&pm.PriceFallbacks, 0)
	atomic.StoreInt64(&pm.Claims, 0)
	atomic.StoreInt64(&pm.StartTime, time.Now().UnixNano())
	atomic.StoreInt64(&pm.LastUpdateTime, time.Now().UnixNano())
}

// ================================================================================

// PerformanceMonitor 性能监控器
type PerformanceMonitor struct {
	metrics *PerformanceMetrics
	mu      sync.RWMutex
	enabled bool
}

// NewPerformanceMonitor 创建新的性能监控器
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		metrics: &PerformanceMetrics{},
		enabled: true,
	}
	pm.metrics.Reset()
	return pm
}

// Enable 启用性能监控
func (pm *PerformanceMonitor) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = true
}

// Disable 禁用性能监控
func (pm *PerformanceMonitor) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.enabled = false
}

// IsEnabled 检查是否启用了性能监控
func (pm *PerformanceMonitor) IsEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.enabled
}

func (pm *PerformanceMonitor) touch() {
	atomic.StoreInt64(&pm.metrics.LastUpdateTime, time.Now().UnixNano())
}

// RecordGeneration 记录一次生成操作, err 为 nil 表示成功
func (pm *PerformanceMonitor) RecordGeneration(err error, duration time.Duration) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.TotalGenerations, 1)
	atomic.AddInt64(&pm.metrics.TotalGenerationTime, int64(duration))

	switch {
	case err == nil:
		atomic.AddInt64(&pm.metrics.SuccessfulGenerations, 1)
	case errors.Is(err, ErrInvalidPrice):
		atomic.AddInt64(&pm.metrics.FailedGenerations, 1)
		atomic.AddInt64(&pm.metrics.InvalidPriceFailures, 1)
	case errors.Is(err, ErrCapTooLow):
		atomic.AddInt64(&pm.metrics.FailedGenerations, 1)
		atomic.AddInt64(&pm.metrics.CapTooLowFailures, 1)
	default:
		atomic.AddInt64(&pm.metrics.FailedGenerations, 1)
	}

	// 更新平均生成时间
	total := atomic.LoadInt64(&pm.metrics.TotalGenerations)
	totalTime := atomic.LoadInt64(&pm.metrics.TotalGenerationTime)
	atomic.StoreInt64(&pm.metrics.AverageGenerationTime, totalTime/total)

	pm.touch()
}

// RecordPriceFetch 记录一次远程取价
func (pm *PerformanceMonitor) RecordPriceFetch(success bool) {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.PriceFetches, 1)
	if !success {
		atomic.AddInt64(&pm.metrics.PriceFeedErrors, 1)
	}
	pm.touch()
}

// RecordPriceCache 记录一次缓存查询
func (pm *PerformanceMonitor) RecordPriceCache(hit bool) {
	if !pm.IsEnabled() {
		return
	}

	if hit {
		atomic.AddInt64(&pm.metrics.PriceCacheHits, 1)
	} else {
		atomic.AddInt64(&pm.metrics.PriceCacheMisses, 1)
	}
	pm.touch()
}

// RecordPriceFallback 记录一次默认价格回退
func (pm *PerformanceMonitor) RecordPriceFallback() {
	if !pm.IsEnabled() {
		return
	}

	atomic.AddInt64(&pm.metrics.PriceFallbacks, 1)
	pm.touch()
}

// RecordClaims 记录领取的瓶数
func (pm *PerformanceMonitor) RecordClaims(n int) {
	if !pm.IsEnabled() || n <= 0 {
		return
	}

	atomic.AddInt64(&pm.metrics.Claims, int64(n))
	pm.touch()
}

// GetMetrics 获取性能指标的副本
func (pm *PerformanceMonitor) GetMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		TotalGenerations:      atomic.LoadInt64(&pm.metrics.TotalGenerations),
		SuccessfulGenerations: atomic.LoadInt64(&pm.metrics.SuccessfulGenerations),
		FailedGenerations:     atomic.LoadInt64(&pm.metrics.FailedGenerations),
		InvalidPriceFailures:  atomic.LoadInt64(&pm.metrics.InvalidPriceFailures),
		CapTooLowFailures:     atomic.LoadInt64(&pm.metrics.CapTooLowFailures),
		TotalGenerationTime:   atomic.LoadInt64(&pm.metrics.TotalGenerationTime),
		AverageGenerationTime: atomic.LoadInt64(&pm.metrics.AverageGenerationTime),
		PriceFetches:          atomic.LoadInt64(&pm.metrics.PriceFetches),
		PriceFeedErrors:       atomic.LoadInt64(&pm.metrics.PriceFeedErrors),
		PriceCacheHits:        atomic.LoadInt64(&pm.metrics.PriceCacheHits),
		PriceCacheMisses:      atomic.LoadInt64(&pm.metrics.PriceCacheMisses),
		PriceFallbacks:        atomic.LoadInt64(&pm.metrics.PriceFallbacks),
		Claims:                atomic.LoadInt64(&pm.metrics.Claims),
		StartTime:             atomic.LoadInt64(&pm.metrics.StartTime),
		LastUpdateTime:        atomic.LoadInt64(&pm.metrics.LastUpdateTime),
	}
}

// ResetMetrics 重置性能指标
func (pm *PerformanceMonitor) ResetMetrics() { pm.metrics.Reset() }
