package bos

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	// 生成参数
	Generator *GeneratorConfig `mapstructure:"generator"`

	// 领取模拟参数
	Simulation *SimulationConfig `mapstructure:"simulation"`

	// 价格源配置
	PriceFeed *PriceFeedConfig `mapstructure:"price_feed"`

	// Redis 配置
	Redis *RedisConfig `mapstructure:"redis"`

	// 熔断器配置
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// 日志配置
	Log *LogConfig `mapstructure:"log"`
}

// Validate 验证所有配置段
func (c *Config) Validate() error {
	if c.Generator == nil || c.Simulation == nil || c.PriceFeed == nil ||
		c.Redis == nil || c.CircuitBreaker == nil || c.Log == nil {
		return ErrConfigInvalid.WithDetails("missing configuration section")
	}

	for _, validate := range []func() error{
		c.Generator.Validate,
		c.Simulation.Validate,
		c.PriceFeed.Validate,
		c.Redis.Validate,
		c.CircuitBreaker.Validate,
		c.Log.Validate,
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// GeneratorConfig holds the default generation inputs
type GeneratorConfig struct {
	PriceCents uint64 `mapstructure:"price_cents"` // BTC price in fiat cents
	CapCents   uint64 `mapstructure:"cap_cents"`   // Tier F budget in fiat cents, 0 = no cap
	Currency   string `mapstructure:"currency"`    // Fiat currency of price and cap
}

// DefaultGeneratorConfig returns the €96,496.00 / no cap defaults
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{
		PriceCents: DefaultPriceCents,
		CapCents:   0,
		Currency:   DefaultCurrency,
	}
}

// Validate validates the generator configuration
func (c *GeneratorConfig) Validate() error {
	if c.PriceCents == 0 {
		return ErrInvalidPriceCents
	}
	return validateCurrency(c.Currency)
}

// SimulationConfig holds the claiming simulation parameters
type SimulationConfig struct {
	Steps     int    `mapstructure:"steps"`      // Number of claiming rounds
	ClaimStep int    `mapstructure:"claim_step"` // Bottles claimed per round
	Seed      uint64 `mapstructure:"seed"`       // 0 = crypto/rand, otherwise reproducible
}

// DefaultSimulationConfig returns 5 rounds of 50 claims
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		Steps:     DefaultSimulationSteps,
		ClaimStep: DefaultClaimStep,
	}
}

// Validate validates the simulation configuration
func (c *SimulationConfig) Validate() error {
	if c.Steps < 0 {
		return ErrInvalidSimulationSteps
	}
	if c.ClaimStep < 1 || c.ClaimStep > MaxClaimStep {
		return ErrInvalidClaimStep
	}
	return nil
}

// PriceFeedConfig 价格源配置
type PriceFeedConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	FallbackOnError bool          `mapstructure:"fallback_on_error"`
	RetryAttempts   int           `mapstructure:"retry_attempts"`
	RetryInterval   time.Duration `mapstructure:"retry_interval"`
}

// DefaultPriceFeedConfig returns a disabled CoinGecko feed
func DefaultPriceFeedConfig() *PriceFeedConfig {
	return &PriceFeedConfig{
		Enabled:         false,
		BaseURL:         DefaultPriceFeedURL,
		Timeout:         DefaultPriceFeedTimeout,
		CacheTTL:        DefaultPriceCacheTTL,
		FallbackOnError: true,
		RetryAttempts:   DefaultRetryAttempts,
		RetryInterval:   DefaultRetryInterval,
	}
}

// Validate validates the price feed configuration
func (c *PriceFeedConfig) Validate() error {
	if c.Enabled && strings.TrimSpace(c.BaseURL) == "" {
		return ErrInvalidFeedURL
	}
	if c.Timeout <= 0 {
		return ErrInvalidFeedTimeout
	}
	if c.CacheTTL < MinPriceCacheTTL || c.CacheTTL > MaxPriceCacheTTL {
		return ErrInvalidPriceCacheTTL
	}
	if c.RetryAttempts < 0 || c.RetryAttempts > MaxRetryAttempts {
		return ErrInvalidRetryAttempts
	}
	return nil
}

// RedisConfig Redis 配置, 仅用于报价缓存
type RedisConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// 连接配置
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// 连接池配置
	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	// 超时配置
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// DefaultRedisConfig 返回默认的Redis配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:      DefaultRedisEnabled,
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MinIdleConns: DefaultRedisMinIdleConns,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		PoolTimeout:  DefaultRedisPoolTimeout,
	}
}

// Validate validates the Redis configuration
func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return ErrInvalidRedisAddr
	}
	if c.PoolSize <= 0 {
		return ErrInvalidRedisPoolSize
	}
	return nil
}

// NewRedisClientFromConfig 从配置创建Redis客户端
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	})
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// Validate validates the circuit breaker configuration
func (c *CircuitBreakerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		return ErrInvalidFailureRatio
	}
	return nil
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// DefaultLogConfig returns info level console logging
func DefaultLogConfig() *LogConfig {
	return &LogConfig{
		Level:  DefaultLogLevel,
		Format: DefaultLogFormat,
	}
}

// Validate validates the log configuration
func (c *LogConfig) Validate() error {
	_, err := ParseLogLevel(c.Level)
	return err
}

func validateCurrency(currency string) error {
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range currency {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return ErrInvalidCurrency
		}
	}
	return nil
}

// DefaultConfig returns the full default configuration
func DefaultConfig() *Config {
	return &Config{
		Generator:      DefaultGeneratorConfig(),
		Simulation:     DefaultSimulationConfig(),
		PriceFeed:      DefaultPriceFeedConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
		Log:            DefaultLogConfig(),
	}
}

// ================================================================================

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	config *Config
	mu     sync.RWMutex
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName("bos")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bos")
	v.AddConfigPath("$HOME/.bos")

	// 设置环境变量前缀
	v.SetEnvPrefix("BOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cm := &ConfigManager{viper: v}
	cm.setDefaults()
	return cm
}

// NewConfigManagerWithFile 创建使用指定配置文件的配置管理器
func NewConfigManagerWithFile(path string) *ConfigManager {
	cm := NewConfigManager()
	if path != "" {
		cm.viper.SetConfigFile(path)
	}
	return cm
}

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	// 读取配置文件
	if err := cm.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在时使用默认配置
	}

	config, err := cm.decode()
	if err != nil {
		return nil, err
	}

	cm.mu.Lock()
	cm.config = config
	cm.mu.Unlock()
	return config, nil
}

// decode 解析并验证当前 viper 状态
func (cm *ConfigManager) decode() (*Config, error) {
	config := DefaultConfig()
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	def := DefaultConfig()

	// 生成参数
	cm.viper.SetDefault("generator.price_cents", def.Generator.PriceCents)
	cm.viper.SetDefault("generator.cap_cents", def.Generator.CapCents)
	cm.viper.SetDefault("generator.currency", def.Generator.Currency)

	// 模拟参数
	cm.viper.SetDefault("simulation.steps", def.Simulation.Steps)
	cm.viper.SetDefault("simulation.claim_step", def.Simulation.ClaimStep)
	cm.viper.SetDefault("simulation.seed", def.Simulation.Seed)

	// 价格源
	cm.viper.SetDefault("price_feed.enabled", def.PriceFeed.Enabled)
	cm.viper.SetDefault("price_feed.base_url", def.PriceFeed.BaseURL)
	cm.viper.SetDefault("price_feed.timeout", "5s")
	cm.viper.SetDefault("price_feed.cache_ttl", "1m")
	cm.viper.SetDefault("price_feed.fallback_on_error", def.PriceFeed.FallbackOnError)
	cm.viper.SetDefault("price_feed.retry_attempts", def.PriceFeed.RetryAttempts)
	cm.viper.SetDefault("price_feed.retry_interval", "100ms")

	// Redis 默认配置
	cm.viper.SetDefault("redis.enabled", def.Redis.Enabled)
	cm.viper.SetDefault("redis.addr", def.Redis.Addr)
	cm.viper.SetDefault("redis.password", def.Redis.Password)
	cm.viper.SetDefault("redis.db", def.Redis.DB)
	cm.viper.SetDefault("redis.pool_size", def.Redis.PoolSize)
	cm.viper.SetDefault("redis.min_idle_conns", def.Redis.MinIdleConns)
	cm.viper.SetDefault("redis.max_retries", def.Redis.MaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")
	cm.viper.SetDefault("redis.pool_timeout", "4s")

	// 熔断器默认配置
	cm.viper.SetDefault("circuit_breaker.enabled", def.CircuitBreaker.Enabled)
	cm.viper.SetDefault("circuit_breaker.name", def.CircuitBreaker.Name)
	cm.viper.SetDefault("circuit_breaker.max_requests", def.CircuitBreaker.MaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", def.CircuitBreaker.FailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", def.CircuitBreaker.MinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", def.CircuitBreaker.OnStateChange)

	// 日志
	cm.viper.SetDefault("log.level", def.Log.Level)
	cm.viper.SetDefault("log.format", def.Log.Format)
}

// WatchConfig 监听配置变化, 无效的新配置会被忽略
func (cm *ConfigManager) WatchConfig(callback func(*Config), logger Logger) {
	if logger == nil {
		logger = NewSilentLogger()
	}

	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config, err := cm.decode()
		if err != nil {
			// 记录错误但不中断服务
			logger.Error("Ignoring config change from %s: %v", e.Name, err)
			return
		}

		cm.mu.Lock()
		cm.config = config
		cm.mu.Unlock()

		logger.Info("Configuration reloaded from %s (%s)", e.Name, e.Op)
		if callback != nil {
			callback(config)
		}
	})
	cm.viper.WatchConfig()
}

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return cm.config
}

// ReloadConfig 重新加载配置
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }

// Viper exposes the underlying viper instance, e.g. to bind flags
func (cm *ConfigManager) Viper() *viper.Viper { return cm.viper }
