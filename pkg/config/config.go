// Package config loads ownergraph settings.
//
// Settings are layered, later sources winning:
//
//  1. [Default]
//  2. the TOML file at [DefaultPath] (or an explicit path)
//  3. a .env file in the working directory
//  4. environment variables (COMPANIES_HOUSE_API_KEY, OWNERGRAPH_*)
//
// CLI flags are applied by the caller after [Load] returns. The merged
// result is checked with [Config.Validate].
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	ogerrors "github.com/matzehuels/ownergraph/pkg/errors"
)

// Config holds every tunable of the CLI and server.
type Config struct {
	APIKey      string `toml:"api_key"`
	BaseURL     string `toml:"base_url" validate:"required,url"`
	Depth       int    `toml:"depth" validate:"min=1,max=3"`
	Concurrency int    `toml:"concurrency" validate:"min=1,max=64"`
	MaxNodes    int    `toml:"max_nodes" validate:"min=1"`
	Direction   string `toml:"direction" validate:"oneof=TB LR"`
	LogLevel    string `toml:"log_level" validate:"oneof=debug info warn error"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend" validate:"oneof=file redis mongo none"`
	Dir      string   `toml:"dir" validate:"required_if=Backend file"`
	TTL      Duration `toml:"ttl"`
	RedisURL string   `toml:"redis_url" validate:"required_if=Backend redis"`
	MongoURI string   `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDB  string   `toml:"mongo_db"`
}

// ServerConfig configures `ownergraph serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr" validate:"required"`
	SessionTTL     Duration `toml:"session_ttl"`
	MaxSessions    int      `toml:"max_sessions" validate:"min=1"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Duration is a time.Duration written as "24h" or "90s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	cacheDir := ""
	if dir, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(dir, "ownergraph")
	}
	return &Config{
		BaseURL:     "https://api.company-information.service.gov.uk",
		Depth:       1,
		Concurrency: 8,
		MaxNodes:    2000,
		Direction:   "TB",
		LogLevel:    "info",
		Cache: CacheConfig{
			Backend: "file",
			Dir:     cacheDir,
			TTL:     Duration{24 * time.Hour},
			MongoDB: "ownergraph",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			SessionTTL:     Duration{2 * time.Hour},
			MaxSessions:    1000,
			RequestTimeout: Duration{2 * time.Minute},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/ownergraph/config.toml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ownergraph", "config.toml")
}

// Load builds a Config from defaults, the TOML file at path, .env and the
// environment. An empty path means [DefaultPath]; a missing default file is
// not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, ogerrors.Wrap(ogerrors.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		}
	}

	// A missing .env is the common case.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envStrings = []struct {
	key string
	dst func(*Config) *string
}{
	{"COMPANIES_HOUSE_API_KEY", func(c *Config) *string { return &c.APIKey }},
	{"OWNERGRAPH_BASE_URL", func(c *Config) *string { return &c.BaseURL }},
	{"OWNERGRAPH_DIRECTION", func(c *Config) *string { return &c.Direction }},
	{"OWNERGRAPH_LOG_LEVEL", func(c *Config) *string { return &c.LogLevel }},
	{"OWNERGRAPH_CACHE_BACKEND", func(c *Config) *string { return &c.Cache.Backend }},
	{"OWNERGRAPH_CACHE_DIR", func(c *Config) *string { return &c.Cache.Dir }},
	{"OWNERGRAPH_REDIS_URL", func(c *Config) *string { return &c.Cache.RedisURL }},
	{"OWNERGRAPH_MONGO_URI", func(c *Config) *string { return &c.Cache.MongoURI }},
	{"OWNERGRAPH_MONGO_DB", func(c *Config) *string { return &c.Cache.MongoDB }},
	{"OWNERGRAPH_ADDR", func(c *Config) *string { return &c.Server.Addr }},
}

var envInts = []struct {
	key string
	dst func(*Config) *int
}{
	{"OWNERGRAPH_DEPTH", func(c *Config) *int { return &c.Depth }},
	{"OWNERGRAPH_CONCURRENCY", func(c *Config) *int { return &c.Concurrency }},
	{"OWNERGRAPH_MAX_NODES", func(c *Config) *int { return &c.MaxNodes }},
}

func (c *Config) applyEnv() error {
	for _, e := range envStrings {
		if v, ok := os.LookupEnv(e.key); ok && v != "" {
			*e.dst(c) = v
		}
	}
	for _, e := range envInts {
		v, ok := os.LookupEnv(e.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return ogerrors.New(ogerrors.ErrCodeInvalidConfig, "%s: not an integer: %q", e.key, v)
		}
		*e.dst(c) = n
	}
	if v, ok := os.LookupEnv("OWNERGRAPH_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ogerrors.New(ogerrors.ErrCodeInvalidConfig, "OWNERGRAPH_CACHE_TTL: %v", err)
		}
		c.Cache.TTL = Duration{d}
	}
	return nil
}

var validate = validator.New()

// Validate checks every field constraint and returns the first violation
// as an INVALID_CONFIG error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ogerrors.Wrap(ogerrors.ErrCodeInvalidConfig, err, "invalid config")
	}

	e := verrs[0]
	field := e.Namespace()
	var msg string
	switch e.Tag() {
	case "required", "required_if":
		msg = "field is required"
	case "min":
		msg = "must be at least " + e.Param()
	case "max":
		msg = "must not exceed " + e.Param()
	case "oneof":
		msg = "must be one of: " + e.Param()
	case "url":
		msg = "must be a URL"
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return ogerrors.New(ogerrors.ErrCodeInvalidConfig, "%s: %s, got %v", field, msg, e.Value())
}
