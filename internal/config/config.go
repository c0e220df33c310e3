package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const minSessionSecret = 32

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	CatalogURL     string        `envconfig:"CATALOG_URL" default:"https://fakestoreapi.com/products"`
	CatalogTimeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"15s"`

	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"30m"`

	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	MetricsToken   string `envconfig:"METRICS_TOKEN"`

	CartRateLimit int `envconfig:"CART_RATE_LIMIT" default:"120"`
	PageRateLimit int `envconfig:"PAGE_RATE_LIMIT" default:"30"`
	MaxSessions   int `envconfig:"MAX_SESSIONS" default:"10000"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(dotenv ...string) (Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if c.CatalogTimeout < 0 {
		return Config{}, fmt.Errorf("CATALOG_TIMEOUT must not be negative")
	}
	if c.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	return c, nil
}

// ValidateServer checks the settings only the HTTP storefront needs.
func (c Config) ValidateServer() error {
	if len(c.SessionSecret) < minSessionSecret {
		return fmt.Errorf("SESSION_SECRET is required and must be at least %d chars", minSessionSecret)
	}
	if c.CartRateLimit < 0 {
		return fmt.Errorf("CART_RATE_LIMIT must not be negative")
	}
	if c.PageRateLimit < 0 {
		return fmt.Errorf("PAGE_RATE_LIMIT must not be negative")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("MAX_SESSIONS must not be negative")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
