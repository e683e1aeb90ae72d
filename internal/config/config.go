package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultCatalogURL     = "https://openlibrary.org"
	DefaultCoversURL      = "https://covers.openlibrary.org"
	DefaultTimeout        = 15 * time.Second
	DefaultLogLevel       = "warn"
	DefaultCoverCacheSize = 64
	configFileName        = "config.toml"
	configDirName         = "bookfinder"
	envPrefix             = "BOOKFINDER_"
)

// Config holds the application configuration
type Config struct {
	CatalogURL     string   `toml:"catalog_url"`
	CoversURL      string   `toml:"covers_url"`
	Timeout        Duration `toml:"timeout"`
	UserAgent      string   `toml:"user_agent,omitempty"`
	DarkMode       bool     `toml:"dark_mode"`
	LogFile        string   `toml:"log_file,omitempty"`
	LogLevel       string   `toml:"log_level"`
	CoverCacheSize int      `toml:"cover_cache_size"`

	// Path to config file (not persisted)
	path string `toml:"-"`
}

// Duration is a time.Duration written as "15s" in the config file
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		CatalogURL:     DefaultCatalogURL,
		CoversURL:      DefaultCoversURL,
		Timeout:        Duration(DefaultTimeout),
		LogLevel:       DefaultLogLevel,
		CoverCacheSize: DefaultCoverCacheSize,
	}
}

// Load reads the config file at path (or the default location when path is
// empty), then applies .env and BOOKFINDER_* environment overrides. The
// result is not validated; callers apply their own overrides first and then
// call Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Config doesn't exist, keep defaults
	case err != nil:
		return nil, err
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// A missing .env is fine
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.path = path
	return cfg, nil
}

// Path returns the file this config was loaded from
func (c *Config) Path() string {
	return c.path
}

// Save persists the configuration to disk
func (c *Config) Save() error {
	// Ensure directory exists
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// Encode renders the config as TOML
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks values that would otherwise fail at request time
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.CatalogURL, "http://") && !strings.HasPrefix(c.CatalogURL, "https://") {
		return fmt.Errorf("catalog_url must be an http(s) URL, got %q", c.CatalogURL)
	}
	if !strings.HasPrefix(c.CoversURL, "http://") && !strings.HasPrefix(c.CoversURL, "https://") {
		return fmt.Errorf("covers_url must be an http(s) URL, got %q", c.CoversURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout.Std())
	}
	if c.CoverCacheSize < 1 {
		return fmt.Errorf("cover_cache_size must be at least 1, got %d", c.CoverCacheSize)
	}
	return nil
}

// applyEnv overrides fields from BOOKFINDER_* variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "CATALOG_URL"); ok && v != "" {
		c.CatalogURL = v
	}
	if v, ok := lookup(envPrefix + "COVERS_URL"); ok && v != "" {
		c.CoversURL = v
	}
	if v, ok := lookup(envPrefix + "USER_AGENT"); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := lookup(envPrefix + "LOG_FILE"); ok && v != "" {
		c.LogFile = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = Duration(d)
	}
	if v, ok := lookup(envPrefix + "DARK_MODE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDARK_MODE: %w", envPrefix, err)
		}
		c.DarkMode = b
	}
	return nil
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, configDirName, configFileName), nil
}
