package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds settings read from the TOML config file and environment.
//
// File location: ~/.config/voice2map/config.toml (or $XDG_CONFIG_HOME).
// Environment variables override file values:
//
//	VOICE2MAP_GEMINI_API_KEY, VOICE2MAP_BRAVE_API_KEY,
//	VOICE2MAP_MONGO_URI, VOICE2MAP_REDIS_ADDR
type Config struct {
	// Gemini configures transcript structuring.
	Gemini struct {
		APIKey   string `toml:"api_key"`
		Model    string `toml:"model"`
		MaxNodes int    `toml:"max_nodes"`
		Language string `toml:"language"`
	} `toml:"gemini"`

	// Brave configures web-search link enrichment.
	Brave struct {
		APIKey string `toml:"api_key"`
		Count  int    `toml:"count"`
	} `toml:"brave"`

	// Cache tunes the response cache.
	Cache struct {
		TTLHours int `toml:"ttl_hours"`
	} `toml:"cache"`

	// Redis, when Addr is set, replaces the file cache backend.
	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"redis"`

	// Mongo, when URI is set, replaces the file document store for serve.
	Mongo struct {
		URI string `toml:"uri"`
	} `toml:"mongo"`

	// Server configures the serve command.
	Server struct {
		Addr     string `toml:"addr"`
		AllowAll bool   `toml:"allow_all_origins"`
	} `toml:"server"`
}

// defaultCacheTTLHours is used when the config file sets no TTL.
const defaultCacheTTLHours = 24

// configPath returns the location of the TOML config file.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the config file (if present) and applies environment
// overrides. A missing file is not an error; the zero config plus
// environment is a valid setup.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	path, err := configPath()
	if err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VOICE2MAP_GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("VOICE2MAP_BRAVE_API_KEY"); v != "" {
		cfg.Brave.APIKey = v
	}
	if v := os.Getenv("VOICE2MAP_MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("VOICE2MAP_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Cache.TTLHours <= 0 {
		cfg.Cache.TTLHours = defaultCacheTTLHours
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

// CacheTTL returns the configured cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}
