package pricefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/kydenul/bos"
)

// maxRetryDelay caps the exponential backoff
const maxRetryDelay = 5 * time.Second

// retrier runs an operation again on retryable errors with exponential backoff
type retrier struct {
	logger    bos.Logger
	attempts  int
	baseDelay time.Duration
}

// do executes fn up to attempts+1 times
func (r retrier) do(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 0; attempt <= r.attempts; attempt++ {
		if attempt > 0 {
			// baseDelay * 2^(attempt-1)
			delay := time.Duration(1<<(attempt-1)) * r.baseDelay
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}

			r.logger.Debug("Retrying %s (attempt %d/%d) after %v, total elapsed: %v",
				operation, attempt, r.attempts, delay, time.Since(startTime))

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry for %s after %v (attempt %d/%d): %w",
					operation, time.Since(startTime), attempt, r.attempts+1, ctx.Err())
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				r.logger.Info("%s succeeded after %d retries (total time: %v)",
					operation, attempt, time.Since(startTime))
			}
			return nil
		}

		lastErr = err
		if !bos.IsRetryable(err) {
			r.logger.Debug("Non-retryable error for %s (attempt %d): %v", operation, attempt+1, err)
			return err
		}

		if attempt < r.attempts {
			r.logger.Debug("Retryable error for %s (attempt %d/%d): %v",
				operation, attempt+1, r.attempts+1, err)
		} else {
			r.logger.Error("Final attempt failed for %s (attempt %d/%d): %v",
				operation, attempt+1, r.attempts+1, err)
		}
	}

	return fmt.Errorf("%s failed after %d attempts in %v: %w",
		operation, r.attempts+1, time.Since(startTime), lastErr)
}
