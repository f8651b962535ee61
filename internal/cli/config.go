// Package cli holds the configuration surface of the drillbot command: the
// YAML config file and the declarative graph builder.
package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the drillbot configuration file.
type Config struct {
	// Token authenticates against the Telegram Bot API. The
	// DRILLBOT_TOKEN environment variable overrides it.
	Token string `yaml:"token"`

	// Root names the state a conversation starts in.
	Root string `yaml:"root"`

	// AllowedIDs optionally restricts the bot to these user ids.
	AllowedIDs []int64 `yaml:"allowed_ids"`

	// Debug configures the /debug command.
	Debug DebugConfig `yaml:"debug"`

	// Redis enables the Redis session store; empty Addr keeps sessions
	// in memory.
	Redis RedisConfig `yaml:"redis"`

	// OpsAddr is the listen address of the operational HTTP server
	// (health, metrics). Empty disables it.
	OpsAddr string `yaml:"ops_addr"`

	// LogLevel is one of debug, info, warn, error (default info).
	LogLevel string `yaml:"log_level"`

	// KeyboardDelayMS overrides the keyboard replace debounce.
	KeyboardDelayMS int `yaml:"keyboard_delay_ms"`

	// States declares the navigation graph. Each block is decoded by the
	// graph builder according to its "type".
	States map[string]map[string]any `yaml:"states"`
}

// DebugConfig selects the state and seed data for /debug.
type DebugConfig struct {
	State string         `yaml:"state"`
	Data  map[string]any `yaml:"data"`
}

// RedisConfig points the session store at a Redis instance.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"` // Go duration, e.g. "720h"; empty means no expiry
}

// SessionTTL parses the configured session expiry.
func (r RedisConfig) SessionTTL() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(r.TTL)
}

// LoadConfig reads and validates a config file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if token := os.Getenv("DRILLBOT_TOKEN"); token != "" {
		cfg.Token = token
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("config: token is required (file or DRILLBOT_TOKEN)")
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("config: root state is required")
	}
	if len(cfg.States) == 0 {
		return nil, fmt.Errorf("config: at least one state is required")
	}
	if _, ok := cfg.States[cfg.Root]; !ok {
		return nil, fmt.Errorf("config: root state %q is not declared", cfg.Root)
	}
	if cfg.Debug.State != "" {
		if _, ok := cfg.States[cfg.Debug.State]; !ok {
			return nil, fmt.Errorf("config: debug state %q is not declared", cfg.Debug.State)
		}
	}
	return &cfg, nil
}
