package bos

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 错误代码常量
const (
	// 系统级错误 (1000-1999)
	ErrCodeSystem          ErrorCode = "BOS_1000"
	ErrCodeConfigInvalid   ErrorCode = "BOS_1001"
	ErrCodeRedisConnection ErrorCode = "BOS_1002"
	ErrCodeRedisTimeout    ErrorCode = "BOS_1003"

	// 生成相关错误 (2000-2999)
	ErrCodeInvalidPrice          ErrorCode = "BOS_2000"
	ErrCodeCapTooLow             ErrorCode = "BOS_2001"
	ErrCodeInvalidRange          ErrorCode = "BOS_2002"
	ErrCodeDistributionInvalid   ErrorCode = "BOS_2003"
	ErrCodeInvalidParameters     ErrorCode = "BOS_2004"
	ErrCodeConversionOutOfBounds ErrorCode = "BOS_2005"

	// 价格源相关错误 (3000-3999)
	ErrCodeFeedUnavailable    ErrorCode = "BOS_3000"
	ErrCodeFeedMalformed      ErrorCode = "BOS_3001"
	ErrCodeFeedZeroPrice      ErrorCode = "BOS_3002"
	ErrCodeCircuitBreakerOpen ErrorCode = "BOS_3003"
	ErrCodeQuoteCacheFailure  ErrorCode = "BOS_3004"

	// 模拟相关错误 (4000-4999)
	ErrCodeInvalidClaimCount ErrorCode = "BOS_4000"
	ErrCodeNothingToClaim    ErrorCode = "BOS_4001"
)

// ErrorSeverity 错误严重程度
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical"
	SeverityHigh     ErrorSeverity = "high"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityLow      ErrorSeverity = "low"
)

// Error is the structured error returned by every package of the module.
// Two errors are considered equal by errors.Is when their codes match.
type Error struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Severity  ErrorSeverity  `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Operation string         `json:"operation,omitempty"`
	Cause     error          `json:"-"`
	Retryable bool           `json:"retryable"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap 接口
func (e *Error) Unwrap() error { return e.Cause }

// Is 实现 errors.Is 接口
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// clone returns a shallow copy so the predefined errors are never mutated.
func (e *Error) clone() *Error {
	c := *e
	c.Timestamp = time.Now()
	if e.Metadata != nil {
		c.Metadata = maps.Clone(e.Metadata)
	}
	return &c
}

// WithCause 添加原因错误
func (e *Error) WithCause(cause error) *Error {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithDetails 添加详细信息
func (e *Error) WithDetails(details string) *Error {
	c := e.clone()
	c.Details = details
	return c
}

// WithDetailsf formats and adds details
func (e *Error) WithDetailsf(format string, args ...any) *Error {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithOperation 添加操作信息
func (e *Error) WithOperation(operation string) *Error {
	c := e.clone()
	c.Operation = operation
	return c
}

// WithMetadata 添加元数据
func (e *Error) WithMetadata(key string, value any) *Error {
	c := e.clone()
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	return c
}

// NewError 创建新的错误
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Severity:  SeverityMedium,
		Timestamp: time.Now(),
	}
}

// NewRetryableError 创建可重试的错误
func NewRetryableError(code ErrorCode, message string) *Error {
	err := NewError(code, message)
	err.Retryable = true
	return err
}

// NewCriticalError 创建严重错误
func NewCriticalError(code ErrorCode, message string) *Error {
	err := NewError(code, message)
	err.Severity = SeverityCritical
	return err
}

// WrapError wraps an arbitrary error into an *Error with the given code
func WrapError(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return NewError(code, message).WithCause(err)
}

// 预定义的错误实例
var (
	// 系统级错误
	ErrSystemError           = NewCriticalError(ErrCodeSystem, "system error occurred")
	ErrConfigInvalid         = NewCriticalError(ErrCodeConfigInvalid, "configuration is invalid")
	ErrRedisConnectionFailed = NewRetryableError(ErrCodeRedisConnection, "Redis connection failed")
	ErrRedisTimeout          = NewRetryableError(ErrCodeRedisTimeout, "Redis operation timeout")

	// 生成相关错误
	ErrInvalidPrice          = NewError(ErrCodeInvalidPrice, "invalid price: exchange rate must be nonzero")
	ErrCapTooLow             = NewError(ErrCodeCapTooLow, "cap too low: budget cannot fund the minimum Tier F payouts")
	ErrInvalidRange          = NewError(ErrCodeInvalidRange, "invalid range: min must be less than or equal to max")
	ErrDistributionInvalid   = NewCriticalError(ErrCodeDistributionInvalid, "distribution violates its invariants")
	ErrInvalidParameters     = NewError(ErrCodeInvalidParameters, "invalid parameters provided")
	ErrConversionOutOfBounds = NewError(ErrCodeConversionOutOfBounds, "conversion result does not fit in 64 bits")

	// 价格源相关错误
	ErrFeedUnavailable    = NewRetryableError(ErrCodeFeedUnavailable, "price feed unavailable")
	ErrFeedMalformed      = NewError(ErrCodeFeedMalformed, "price feed returned a malformed quote")
	ErrFeedZeroPrice      = NewError(ErrCodeFeedZeroPrice, "price feed returned a zero price")
	ErrCircuitBreakerOpen = NewRetryableError(ErrCodeCircuitBreakerOpen, "circuit breaker is open")
	ErrQuoteCacheFailure  = NewRetryableError(ErrCodeQuoteCacheFailure, "quote cache operation failed")

	// 模拟相关错误
	ErrInvalidClaimCount = NewError(ErrCodeInvalidClaimCount, "invalid claim count: must be greater than 0")
	ErrNothingToClaim    = NewError(ErrCodeNothingToClaim, "every bottle has already been claimed")
)

// GetErrorCode returns the code of err, or ErrCodeSystem for foreign errors
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeSystem
}

// IsRetryable reports whether err is worth retrying
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}

	return IsRetryableError(err)
}

// IsRetryableError 检查是否为可重试的网络或 Redis 错误
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"network is unreachable",
		"temporary failure",
		"server closed",
		"broken pipe",
		"i/o timeout",
		"dial tcp",
		"read tcp",
		"write tcp",
		"connection timed out",
		"no route to host",
		"connection aborted",
		"redis: connection pool timeout",
		"redis: client is closed",
		"context deadline exceeded",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
