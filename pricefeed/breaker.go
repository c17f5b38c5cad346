package pricefeed

import (
	"context"
	"errors"

	"github.com/kydenul/bos"
	"github.com/sony/gobreaker"
)

// BreakerSource guards a Source with a circuit breaker so a failing price API
// is not hammered on every call.
type BreakerSource struct {
	source  Source
	breaker *gobreaker.CircuitBreaker
	logger  bos.Logger
	config  *bos.CircuitBreakerConfig
}

// NewBreakerSource wraps source. A disabled config yields a pass-through wrapper.
func NewBreakerSource(source Source, config *bos.CircuitBreakerConfig, logger bos.Logger) *BreakerSource {
	if config == nil {
		config = bos.DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = bos.NewSilentLogger()
	}

	if !config.Enabled {
		return &BreakerSource{
			source: source,
			logger: logger,
			config: config,
		}
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// 调用方取消不计入失败
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange {
				logger.Info("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}

	return &BreakerSource{
		source:  source,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		config:  config,
	}
}

// Quote asks the wrapped source unless the circuit is open
func (b *BreakerSource) Quote(ctx context.Context, currency string) (Quote, error) {
	if b.breaker == nil {
		return b.source.Quote(ctx, currency)
	}

	result, err := b.breaker.Execute(func() (any, error) {
		return b.source.Quote(ctx, currency)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState):
			return Quote{}, bos.ErrCircuitBreakerOpen.WithDetails("circuit breaker is open, quotes are being rejected")
		case errors.Is(err, gobreaker.ErrTooManyRequests):
			return Quote{}, bos.ErrCircuitBreakerOpen.WithDetails("too many requests, circuit breaker is half-open")
		}
		return Quote{}, err
	}

	return result.(Quote), nil
}

// State returns the breaker state, StateClosed when disabled
func (b *BreakerSource) State() gobreaker.State {
	if b.breaker == nil {
		return gobreaker.StateClosed
	}
	return b.breaker.State()
}
