package pixelwalker

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// AutoHandle names an inbound packet the client answers on its own.
type AutoHandle string

const (
	// AutoPing answers every ping with a direct ping.
	AutoPing AutoHandle = "PING"
	// AutoInit answers the init packet with playerInitReceived.
	AutoInit AutoHandle = "INIT"
)

// Config holds the configuration for a game client. Zero fields fall back
// to PW_* environment variables, then to the defaults in the tags.
type Config struct {
	// GameWSURL is the base websocket endpoint of the game server.
	// Fallback: PW_GAME_WS_URL.
	GameWSURL string `envconfig:"GAME_WS_URL" default:"wss://server.pixelwalker.net"`

	// ReconnectCount is the number of connection attempts per join. Zero
	// means the default; PW_RECONNECT_COUNT=0 sets an empty budget, under
	// which joins fail without dialing.
	ReconnectCount int `envconfig:"RECONNECT_COUNT" default:"3"`

	// ReconnectInterval bounds each connection attempt.
	ReconnectInterval time.Duration `envconfig:"RECONNECT_INTERVAL" default:"5500ms"`

	// DisableReconnect stops the client from rejoining after the server
	// closes the connection.
	DisableReconnect bool `envconfig:"DISABLE_RECONNECT"`

	// HandlePackets lists the packets answered automatically.
	HandlePackets []AutoHandle `envconfig:"HANDLE_PACKETS" default:"PING"`

	SendCapacity      int           `envconfig:"SEND_CAPACITY" default:"100"`
	SendInterval      time.Duration `envconfig:"SEND_INTERVAL" default:"1s"`
	OwnerSendInterval time.Duration `envconfig:"OWNER_SEND_INTERVAL" default:"250ms"`
	ChatCapacity      int           `envconfig:"CHAT_CAPACITY" default:"10"`
	ChatInterval      time.Duration `envconfig:"CHAT_INTERVAL" default:"1s"`

	// Logger receives debug notices and warnings. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger `ignored:"true"`
}

// Settings are the connection settings that may change while the client runs.
type Settings struct {
	Reconnectable     bool
	ReconnectCount    int
	ReconnectInterval time.Duration
	HandlePackets     []AutoHandle
}

func (s Settings) handles(h AutoHandle) bool {
	for _, v := range s.HandlePackets {
		if v == h {
			return true
		}
	}
	return false
}

// resolveConfig fills empty fields from the environment and validates the result.
func resolveConfig(cfg Config) (Config, error) {
	var env Config
	if err := envconfig.Process("PW", &env); err != nil {
		return cfg, fmt.Errorf("load config from environment: %w", err)
	}

	if cfg.GameWSURL == "" {
		cfg.GameWSURL = env.GameWSURL
	}
	if cfg.ReconnectCount == 0 {
		cfg.ReconnectCount = env.ReconnectCount
	}
	if cfg.ReconnectInterval == 0 {
		cfg.ReconnectInterval = env.ReconnectInterval
	}
	cfg.DisableReconnect = cfg.DisableReconnect || env.DisableReconnect
	if cfg.HandlePackets == nil {
		cfg.HandlePackets = env.HandlePackets
	}
	if cfg.SendCapacity == 0 {
		cfg.SendCapacity = env.SendCapacity
	}
	if cfg.SendInterval == 0 {
		cfg.SendInterval = env.SendInterval
	}
	if cfg.OwnerSendInterval == 0 {
		cfg.OwnerSendInterval = env.OwnerSendInterval
	}
	if cfg.ChatCapacity == 0 {
		cfg.ChatCapacity = env.ChatCapacity
	}
	if cfg.ChatInterval == 0 {
		cfg.ChatInterval = env.ChatInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	if cfg.GameWSURL == "" {
		return cfg, fmt.Errorf("GameWSURL is required (set in Config or PW_GAME_WS_URL env)")
	}
	if cfg.ReconnectCount < 0 {
		return cfg, fmt.Errorf("ReconnectCount must not be negative, got %d", cfg.ReconnectCount)
	}
	if cfg.ReconnectInterval <= 0 {
		return cfg, fmt.Errorf("ReconnectInterval must be positive, got %s", cfg.ReconnectInterval)
	}
	for _, h := range cfg.HandlePackets {
		if h != AutoPing && h != AutoInit {
			return cfg, fmt.Errorf("unknown packet to handle: %q", h)
		}
	}

	return cfg, nil
}
