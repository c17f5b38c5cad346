package bos

import "errors"

// Configuration validation errors
var (
	// ErrInvalidPriceCents indicates a zero default price
	ErrInvalidPriceCents = errors.New("BOS_CFG_001: generator price_cents must be greater than 0")

	// ErrInvalidSimulationSteps indicates an out-of-range number of claiming rounds
	ErrInvalidSimulationSteps = errors.New("BOS_CFG_002: simulation steps cannot be negative")

	// ErrInvalidClaimStep indicates an out-of-range claim step
	ErrInvalidClaimStep = errors.New("BOS_CFG_003: simulation claim_step must be between 1 and 31500")

	// ErrInvalidFeedURL indicates an empty price feed URL
	ErrInvalidFeedURL = errors.New("BOS_CFG_004: price_feed base_url is required when the feed is enabled")

	// ErrInvalidFeedTimeout indicates a non-positive feed timeout
	ErrInvalidFeedTimeout = errors.New("BOS_CFG_005: price_feed timeout must be positive")

	// ErrInvalidPriceCacheTTL indicates an out-of-range quote cache TTL
	ErrInvalidPriceCacheTTL = errors.New("BOS_CFG_006: price_feed cache_ttl must be between 1s and 24h")

	// ErrInvalidCurrency indicates an empty or malformed currency code
	ErrInvalidCurrency = errors.New("BOS_CFG_007: currency must be a three letter code")

	// ErrInvalidRetryAttempts indicates invalid retry attempts configuration
	ErrInvalidRetryAttempts = errors.New("BOS_CFG_008: retry attempts must be between 0 and 10")

	// ErrInvalidRedisAddr indicates a missing Redis address
	ErrInvalidRedisAddr = errors.New("BOS_CFG_009: redis address is required when redis is enabled")

	// ErrInvalidRedisPoolSize indicates a non-positive Redis pool size
	ErrInvalidRedisPoolSize = errors.New("BOS_CFG_010: redis pool size must be positive")

	// ErrInvalidFailureRatio indicates a circuit breaker failure ratio outside (0, 1]
	ErrInvalidFailureRatio = errors.New("BOS_CFG_011: circuit_breaker failure_ratio must be in (0, 1]")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("BOS_CFG_012: log level must be one of debug, info, warn, error")
)
