package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Broker    BrokerConfig
	HTTP      HTTPConfig
	Discovery DiscoveryConfig
	Stats     StatsConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL, default=168h"`

	// Leaving AdminUsername empty disables the admin console login.
	AdminUsername     string `env:"ADMIN_USERNAME"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=taskflow"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=0"`
}

// BrokerConfig: an empty URL disables event publishing.
type BrokerConfig struct {
	URL string `env:"AMQP_URL"`
}

type HTTPConfig struct {
	CORSOrigins  []string `env:"CORS_ORIGINS,   default=*"`
	RateLimitRPS float64  `env:"RATE_LIMIT_RPS, default=20"`
}

type DiscoveryConfig struct {
	LocationDedupWindow time.Duration `env:"LOCATION_DEDUP_WINDOW, default=10s"`
}

type StatsConfig struct {
	Workers int `env:"STATS_WORKERS, default=8"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.Auth.AdminUsername != "" && c.Auth.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH is required when ADMIN_USERNAME is set")
	}
	if c.Redis.PoolSize < 0 {
		return errors.New("REDIS_POOL_SIZE must not be negative")
	}
	if c.HTTP.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}
	return nil
}
