package api

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds endpoints and transport tuning for the API client.
// Fields are read from PW_* environment variables by LoadConfig.
type Config struct {
	APIURL      string `envconfig:"API_URL" default:"https://api.pixelwalker.net"`
	GameHTTPURL string `envconfig:"GAME_HTTP_URL" default:"https://server.pixelwalker.net"`
	ClientURL   string `envconfig:"CLIENT_URL" default:"https://client.pixelwalker.net"`

	RetryMax     int           `envconfig:"API_RETRY_MAX" default:"2"`
	RetryWaitMin time.Duration `envconfig:"API_RETRY_WAIT_MIN" default:"250ms"`
	RetryWaitMax time.Duration `envconfig:"API_RETRY_WAIT_MAX" default:"2s"`
	Timeout      time.Duration `envconfig:"API_TIMEOUT" default:"30s"`

	// RequestsPerSecond and Burst pace outgoing requests.
	RequestsPerSecond float64 `envconfig:"API_RATE" default:"10"`
	Burst             int     `envconfig:"API_BURST" default:"5"`

	// CacheSize bounds the metadata cache (room types, mappings, atlases).
	CacheSize int `envconfig:"API_CACHE_SIZE" default:"32"`
}

// DefaultConfig returns the production endpoints with default tuning.
func DefaultConfig() Config {
	return Config{
		APIURL:            "https://api.pixelwalker.net",
		GameHTTPURL:       "https://server.pixelwalker.net",
		ClientURL:         "https://client.pixelwalker.net",
		RetryMax:          2,
		RetryWaitMin:      250 * time.Millisecond,
		RetryWaitMax:      2 * time.Second,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
		CacheSize:         32,
	}
}

// LoadConfig reads Config from the environment, applying defaults.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("PW", &c); err != nil {
		return c, fmt.Errorf("api: load config: %w", err)
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.APIURL == "" || c.GameHTTPURL == "" {
		return fmt.Errorf("api: APIURL and GameHTTPURL are required")
	}
	if c.RequestsPerSecond <= 0 || c.Burst <= 0 {
		return fmt.Errorf("api: request rate and burst must be positive")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("api: cache size must be positive")
	}
	return nil
}
