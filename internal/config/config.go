// Package config loads server settings from a YAML file and the environment.
// Environment variables win over the file, and the file wins over defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/evcraddock/homeview/internal/db"
)

// Snapshot store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds server configuration.
type Config struct {
	DBPath      string `yaml:"db" env:"HV_DB"`
	Store       string `yaml:"store" env:"HV_STORE"` // sqlite|redis|memory
	RedisAddr   string `yaml:"redis_addr" env:"HV_REDIS_ADDR"`
	RedisPrefix string `yaml:"redis_prefix" env:"HV_REDIS_PREFIX"`

	// Seed files. Empty means the embedded defaults.
	PropertiesFile string `yaml:"properties_file" env:"HV_PROPERTIES_FILE"`
	UsersFile      string `yaml:"users_file" env:"HV_USERS_FILE"`
	BookingsFile   string `yaml:"bookings_file" env:"HV_BOOKINGS_FILE"`

	Addr        string `yaml:"addr" env:"HV_ADDR"`
	MetricsAddr string `yaml:"metrics_addr" env:"HV_METRICS_ADDR"` // empty serves /metrics on Addr
	DevMode     bool   `yaml:"dev_mode" env:"HV_DEV_MODE"`

	SearchCacheSize int     `yaml:"search_cache_size" env:"HV_SEARCH_CACHE_SIZE"`
	LoginRate       float64 `yaml:"login_rate" env:"HV_LOGIN_RATE"` // attempts per second per IP
	LoginBurst      int     `yaml:"login_burst" env:"HV_LOGIN_BURST"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	dbPath, err := db.DefaultPath()
	if err != nil {
		dbPath = "homeview.db"
	}
	return Config{
		DBPath:          dbPath,
		Store:           StoreSQLite,
		RedisAddr:       "localhost:6379",
		RedisPrefix:     "homeview:",
		Addr:            ":8080",
		SearchCacheSize: 256,
		LoginRate:       1,
		LoginBurst:      5,
	}
}

// DefaultPath returns ~/.config/hv/server.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "server.yaml"
	}
	return filepath.Join(home, ".config", "hv", "server.yaml")
}

// Load reads path (a missing file is fine), overlays the environment and
// validates the result. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks for settings the server cannot run with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("db path is required for the sqlite store")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (use sqlite, redis or memory)", c.Store)
	}
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.SearchCacheSize < 0 {
		return fmt.Errorf("search cache size must not be negative")
	}
	if c.LoginBurst < 0 {
		return fmt.Errorf("login burst must not be negative")
	}
	return nil
}
