// Package discovery is the client side of nearby discovery: it reports the
// device location to the API and keeps a polled view of nearby workers and
// tasks around it.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Hyderabad city centre, used when the device location cannot be acquired.
const (
	DefaultFallbackLat = 17.3850
	DefaultFallbackLng = 78.4867
)

// Radius control bounds, in kilometres.
const (
	MinRadiusKm = 1
	MaxRadiusKm = 50
)

type Config struct {
	APIURL      string `env:"TASKFLOW_API_URL, default=http://localhost:8080"`
	Token       string `env:"TASKFLOW_TOKEN"`
	MapboxToken string `env:"MAPBOX_TOKEN"`

	RefreshInterval time.Duration `env:"DISCOVERY_REFRESH_INTERVAL, default=30s"`
	DefaultRadiusKm float64       `env:"DISCOVERY_RADIUS_KM,        default=5"`
	FallbackLat     float64       `env:"DISCOVERY_FALLBACK_LAT,     default=17.3850"`
	FallbackLng     float64       `env:"DISCOVERY_FALLBACK_LNG,     default=78.4867"`
	RequestTimeout  time.Duration `env:"DISCOVERY_REQUEST_TIMEOUT,  default=10s"`
}

// LoadConfig reads the client configuration from the environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("discovery config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("discovery config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Token == "" {
		return errors.New("TASKFLOW_TOKEN is required")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("DISCOVERY_REFRESH_INTERVAL must be positive")
	}
	if c.DefaultRadiusKm < MinRadiusKm || c.DefaultRadiusKm > MaxRadiusKm {
		return fmt.Errorf("DISCOVERY_RADIUS_KM must be within [%d,%d]", MinRadiusKm, MaxRadiusKm)
	}
	if _, err := NewPoint(c.FallbackLat, c.FallbackLng); err != nil {
		return fmt.Errorf("fallback coordinate: %w", err)
	}
	return nil
}

// Session returns the API identity derived from the config.
func (c *Config) Session() Session {
	return Session{BaseURL: strings.TrimRight(c.APIURL, "/"), Token: c.Token}
}

// Fallback is the coordinate used when the device location is unavailable.
func (c *Config) Fallback() Point {
	return Point{Lat: c.FallbackLat, Lng: c.FallbackLng}
}

// Session identifies the caller to the API. It is passed explicitly to every
// component that talks to the server.
type Session struct {
	BaseURL string
	Token   string
}
