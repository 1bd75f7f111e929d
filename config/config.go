package config

import (
	"fmt"
	"os"
	"time"

	"code.cloudfoundry.org/lager"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/guildhall/auction/auctiontypes"
)

type Config struct {
	Auction AuctionConfig `yaml:"auction"`
	NATS    NATSConfig    `yaml:"nats"`
	DKP     DKPConfig     `yaml:"dkp"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type AuctionConfig struct {
	Channels            []string     `yaml:"channels"`
	TickIntervalSeconds int          `yaml:"tick_interval_seconds"`
	Limits              LimitsConfig `yaml:"limits"`
}

type LimitsConfig struct {
	Minimum  int `yaml:"minimum"`
	Maximum  int `yaml:"maximum"`
	Valuable int `yaml:"valuable"`
	Member   int `yaml:"member"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type DKPConfig struct {
	URL string `yaml:"url"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | error | fatal
}

// Load reads the YAML config, layering a .env file (if present) and
// environment variables over it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Auction.TickIntervalSeconds) * time.Second
}

func (c *Config) Limits() auctiontypes.Limits {
	return auctiontypes.Limits{
		Minimum:  c.Auction.Limits.Minimum,
		Maximum:  c.Auction.Limits.Maximum,
		Valuable: c.Auction.Limits.Valuable,
		Member:   c.Auction.Limits.Member,
	}
}

func (c *Config) LagerLevel() lager.LogLevel {
	switch c.Log.Level {
	case "debug":
		return lager.DEBUG
	case "error":
		return lager.ERROR
	case "fatal":
		return lager.FATAL
	}
	return lager.INFO
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("DKP_URL"); v != "" {
		cfg.DKP.URL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Auction.TickIntervalSeconds == 0 {
		cfg.Auction.TickIntervalSeconds = 5
	}
	if cfg.Auction.Limits.Maximum == 0 {
		cfg.Auction.Limits.Maximum = 1000
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "0.0.0.0:9090"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validate(cfg *Config) error {
	if len(cfg.Auction.Channels) == 0 {
		return fmt.Errorf("config: at least one auction channel is required")
	}
	if cfg.Auction.Limits.Minimum > cfg.Auction.Limits.Maximum {
		return fmt.Errorf("config: minimum bid %d exceeds maximum %d", cfg.Auction.Limits.Minimum, cfg.Auction.Limits.Maximum)
	}
	return nil
}
