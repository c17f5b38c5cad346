package bos

import "time"

const (
	// TotalBottles is the number of bottles in every distribution
	TotalBottles = 31_500

	// SatsPerBTC is the number of satoshis in one bitcoin
	SatsPerBTC = 100_000_000

	// TierFMinSats is the smallest payout a Tier F bottle may receive
	TierFMinSats = 21

	// TierFMaxSats is the largest payout a Tier F bottle may receive
	TierFMaxSats = 500

	// DefaultPriceCents is the fallback BTC price (€96,496.00) used by the simulator
	DefaultPriceCents = 9_649_600

	// DefaultCurrency is the fiat currency the price and cap are expressed in
	DefaultCurrency = "EUR"
)

const (
	// DefaultSimulationSteps is the default number of claiming rounds
	DefaultSimulationSteps = 5

	// DefaultClaimStep is the default number of bottles claimed per round
	DefaultClaimStep = 50

	// MaxClaimStep bounds a single claiming round
	MaxClaimStep = TotalBottles
)

const (
	// DefaultPriceFeedURL is the CoinGecko-compatible API root
	DefaultPriceFeedURL = "https://api.coingecko.com/api/v3"

	// DefaultPriceFeedTimeout is the HTTP timeout of a single quote request
	DefaultPriceFeedTimeout = 5 * time.Second

	// DefaultPriceCacheTTL is how long a fetched quote stays fresh
	DefaultPriceCacheTTL = 1 * time.Minute

	// MinPriceCacheTTL is the minimum quote cache TTL allowed
	MinPriceCacheTTL = 1 * time.Second

	// MaxPriceCacheTTL is the maximum quote cache TTL allowed
	MaxPriceCacheTTL = 24 * time.Hour

	// PriceKeyPrefix is the prefix for Redis quote keys
	PriceKeyPrefix = "bos:price:"

	// DefaultRetryAttempts is the default number of retry attempts
	DefaultRetryAttempts = 3

	// DefaultRetryInterval is the default interval between retry attempts
	DefaultRetryInterval = 100 * time.Millisecond

	// MaxRetryAttempts is the maximum number of retry attempts allowed
	MaxRetryAttempts = 10
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "bos-price-feed"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	DefaultRedisEnabled      = false
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 10
	DefaultRedisMinIdleConns = 2
	DefaultRedisMaxRetries   = 3
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisPoolTimeout  = 4 * time.Second
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)
