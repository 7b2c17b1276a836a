// Package config loads and validates application configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. FLAVORMAP_PORT.
const EnvPrefix = "FLAVORMAP"

// Store drivers.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all configuration values for the server.
// Values come from defaults, an optional config file, and FLAVORMAP_* env vars,
// in increasing order of precedence.
type Config struct {
	// Host is the interface the HTTP server binds to. Defaults to 127.0.0.1.
	Host string `mapstructure:"host"`

	// Port is the TCP port the HTTP server listens on. Defaults to 8000.
	Port int `mapstructure:"port"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// LogDevelopment switches zap to the human-readable console encoder.
	LogDevelopment bool `mapstructure:"log_development"`

	// StaticDir is the root of the front-end bundle. Defaults to "static".
	StaticDir string `mapstructure:"static_dir"`

	Store StoreConfig `mapstructure:"store"`

	// DatabaseURL is the Postgres connection string. Required when
	// Store.Driver is "postgres".
	DatabaseURL string `mapstructure:"database_url"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Empty disables CORS handling. FLAVORMAP_CORS_ORIGINS takes a
	// comma-separated list.
	CORSOrigins []string `mapstructure:"cors_origins"`

	// MaxBodyBytes caps request bodies. Defaults to 64 KiB.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes"`
}

// StoreConfig selects the spot store backend.
type StoreConfig struct {
	// Driver is "file" (default) or "postgres".
	Driver string `mapstructure:"driver"`

	// Path is the JSON file used by the file driver.
	Path string `mapstructure:"path"`
}

// Load builds a Config from the optional file at path and the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitOrigins(cfg.CORSOrigins)
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadEnvFile copies variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("static_dir", "static")
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "data/spots.json")
	v.SetDefault("database_url", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("max_body_bytes", 64<<10)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be > 0")
	}
	switch c.Store.Driver {
	case DriverFile:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path must be set for the file driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverFile, DriverPostgres, c.Store.Driver)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// splitOrigins trims entries and splits any that still hold commas,
// ignoring empty entries.
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}
