package bos

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("basic_error", func(t *testing.T) {
		err := NewError(ErrCodeInvalidParameters, "test error message")

		assert.Equal(t, ErrCodeInvalidParameters, err.Code)
		assert.Equal(t, "test error message", err.Message)
		assert.Equal(t, SeverityMedium, err.Severity)
		assert.False(t, err.Retryable)
		assert.Equal(t, "[BOS_2004] test error message", err.Error())
	})

	t.Run("retryable_error", func(t *testing.T) {
		err := NewRetryableError(ErrCodeRedisConnection, "connection failed")

		assert.True(t, err.Retryable)
		assert.Equal(t, ErrCodeRedisConnection, err.Code)
	})

	t.Run("critical_error", func(t *testing.T) {
		err := NewCriticalError(ErrCodeSystem, "system failure")
		assert.Equal(t, SeverityCritical, err.Severity)
	})

	t.Run("error_with_details", func(t *testing.T) {
		err := ErrCapTooLow.
			WithDetailsf("cap=%d", 57_527).
			WithOperation("Generate").
			WithMetadata("rate", uint64(testRate))

		assert.Equal(t, "cap=57527", err.Details)
		assert.Equal(t, "Generate", err.Operation)
		assert.Equal(t, uint64(testRate), err.Metadata["rate"])
		assert.Contains(t, err.Error(), "BOS_2001")
		assert.Contains(t, err.Error(), "cap=57527")
	})

	t.Run("builders_do_not_mutate_predefined", func(t *testing.T) {
		_ = ErrInvalidPrice.WithDetails("changed").WithMetadata("k", 1).WithOperation("op")

		assert.Empty(t, ErrInvalidPrice.Details)
		assert.Empty(t, ErrInvalidPrice.Operation)
		assert.Nil(t, ErrInvalidPrice.Metadata)

		a := ErrFeedMalformed.WithMetadata("a", 1)
		b := a.WithMetadata("b", 2)
		assert.NotContains(t, a.Metadata, "b")
		assert.Len(t, b.Metadata, 2)
	})

	t.Run("error_with_cause", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := NewError(ErrCodeSystem, "wrapped error").WithCause(originalErr)

		assert.Equal(t, originalErr, err.Unwrap())
		assert.True(t, errors.Is(err, originalErr))
	})

	t.Run("error_comparison", func(t *testing.T) {
		err1 := NewError(ErrCodeInvalidParameters, "error 1")
		err2 := NewError(ErrCodeInvalidParameters, "error 2")
		err3 := NewError(ErrCodeInvalidRange, "error 3")

		assert.True(t, errors.Is(err1, err2))
		assert.False(t, errors.Is(err1, err3))

		wrapped := fmt.Errorf("outer: %w", ErrCapTooLow.WithDetails("x"))
		assert.ErrorIs(t, wrapped, ErrCapTooLow)
		assert.NotErrorIs(t, wrapped, ErrInvalidPrice)
	})

	t.Run("wrap_error", func(t *testing.T) {
		assert.Nil(t, WrapError(nil, ErrCodeSystem, "nothing"))

		cause := errors.New("boom")
		err := WrapError(cause, ErrCodeFeedMalformed, "bad quote")
		assert.ErrorIs(t, err, ErrFeedMalformed)
		assert.ErrorIs(t, err, cause)
	})
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		code      ErrorCode
		retryable bool
	}{
		{"invalid price", ErrInvalidPrice, ErrCodeInvalidPrice, false},
		{"cap too low", ErrCapTooLow, ErrCodeCapTooLow, false},
		{"invalid range", ErrInvalidRange, ErrCodeInvalidRange, false},
		{"distribution invalid", ErrDistributionInvalid, ErrCodeDistributionInvalid, false},
		{"conversion out of bounds", ErrConversionOutOfBounds, ErrCodeConversionOutOfBounds, false},
		{"feed unavailable", ErrFeedUnavailable, ErrCodeFeedUnavailable, true},
		{"feed malformed", ErrFeedMalformed, ErrCodeFeedMalformed, false},
		{"feed zero price", ErrFeedZeroPrice, ErrCodeFeedZeroPrice, false},
		{"circuit breaker open", ErrCircuitBreakerOpen, ErrCodeCircuitBreakerOpen, true},
		{"quote cache failure", ErrQuoteCacheFailure, ErrCodeQuoteCacheFailure, true},
		{"redis connection", ErrRedisConnectionFailed, ErrCodeRedisConnection, true},
		{"invalid claim count", ErrInvalidClaimCount, ErrCodeInvalidClaimCount, false},
		{"nothing to claim", ErrNothingToClaim, ErrCodeNothingToClaim, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.Equal(t, tt.code, GetErrorCode(fmt.Errorf("ctx: %w", tt.err)))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}

	assert.Equal(t, ErrCodeSystem, GetErrorCode(errors.New("foreign")))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"), true},
		{errors.New("read tcp: i/o timeout"), true},
		{errors.New("redis: connection pool timeout"), true},
		{errors.New("context deadline exceeded"), true},
		{errors.New("WRONGTYPE Operation against a key"), false},
		{errors.New("invalid character 'x'"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryableError(tt.err), "%v", tt.err)
		assert.Equal(t, tt.want, IsRetryable(tt.err), "%v", tt.err)
	}

	// A structured error decides by its own flag, whatever its text says
	notRetryable := ErrFeedUnavailable.WithDetails("connection refused")
	notRetryable.Retryable = false
	assert.False(t, IsRetryable(notRetryable))
}

func BenchmarkError_Creation(b *testing.B) {
	for b.Loop() {
		_ = ErrCapTooLow.WithOperation("Generate").WithDetailsf("cap=%d", 1)
	}
}
