package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name        string        `mapstructure:"name"`
	Instances   []string      `mapstructure:"instances"`
	Timeout     time.Duration `mapstructure:"timeout"`
	HealthCheck string        `mapstructure:"health_check"`
}

// RateLimitConfig bounds requests per client within a sliding window
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// CacheConfig controls the dashboard read cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// BreakerConfig tunes the per-service circuit breaker
type BreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	ServiceName    string          `mapstructure:"service_name"`
	Environment    string          `mapstructure:"environment"`
	LogLevel       string          `mapstructure:"log_level"`
	Port           string          `mapstructure:"port"`
	AllowedOrigins string          `mapstructure:"allowed_origins"`
	JWTSecret      string          `mapstructure:"jwt_secret"`
	RedisAddr      string          `mapstructure:"redis_addr"`
	RedisPassword  string          `mapstructure:"redis_password"`
	JaegerEndpoint string          `mapstructure:"jaeger_endpoint"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	Cache          CacheConfig     `mapstructure:"cache"`
	Breaker        BreakerConfig   `mapstructure:"breaker"`
	Inventory      ServiceConfig   `mapstructure:"inventory"`
}

// IsDevelopment reports whether the gateway runs in development mode
func (c *GatewayConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

var settings = []struct {
	key string
	env string
	def any
}{
	{"service_name", "OTEL_SERVICE_NAME", "api-gateway"},
	{"environment", "ENVIRONMENT", "development"},
	{"log_level", "LOG_LEVEL", "info"},
	{"port", "GATEWAY_PORT", "8000"},
	{"allowed_origins", "CORS_ALLOWED_ORIGINS", "*"},
	{"jwt_secret", "JWT_SECRET", ""},
	{"redis_addr", "REDIS_ADDR", "localhost:6379"},
	{"redis_password", "REDIS_PASSWORD", ""},
	{"jaeger_endpoint", "JAEGER_ENDPOINT", "http://localhost:14268/api/traces"},
	{"rate_limit.requests", "RATE_LIMIT_REQUESTS", 100},
	{"rate_limit.window", "RATE_LIMIT_WINDOW", "1m"},
	{"cache.enabled", "CACHE_ENABLED", true},
	{"cache.ttl", "CACHE_TTL", "30s"},
	{"breaker.max_failures", "BREAKER_MAX_FAILURES", 5},
	{"breaker.open_timeout", "BREAKER_OPEN_TIMEOUT", "30s"},
	{"inventory.name", "INVENTORY_SERVICE_NAME", "inventory"},
	{"inventory.instances", "INVENTORY_SERVICE_URLS", "http://localhost:8082"},
	{"inventory.timeout", "INVENTORY_SERVICE_TIMEOUT", "30s"},
	{"inventory.health_check", "INVENTORY_HEALTH_PATH", "/health"},
}

// LoadConfig loads the gateway configuration from .env, CONFIG_FILE and the environment
func LoadConfig() (*GatewayConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env failed: %w", err)
	}
	return load(viper.New(), os.Getenv("CONFIG_FILE"))
}

func load(v *viper.Viper, configFile string) (*GatewayConfig, error) {
	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("bind %s failed: %w", s.env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg GatewayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	instances := make([]string, 0, len(cfg.Inventory.Instances))
	for _, url := range cfg.Inventory.Instances {
		if url = strings.TrimRight(strings.TrimSpace(url), "/"); url != "" {
			instances = append(instances, url)
		}
	}
	cfg.Inventory.Instances = instances

	if len(cfg.Inventory.Instances) == 0 {
		return nil, fmt.Errorf("at least one inventory instance is required")
	}
	return &cfg, nil
}
