// Package config loads tether's TOML configuration.
//
// A missing file is not an error: every field has a default, so
//
//	cfg, err := config.Load(path)
//
// always yields a usable [Config] unless the file exists and is malformed.
// The default location is $XDG_CONFIG_HOME/tether/config.toml (see [Path]).
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/grid"
)

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the root configuration document.
type Config struct {
	Engine Engine `toml:"engine"`
	Render Render `toml:"render"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Engine tunes the routing engine.
type Engine struct {
	// MaxCells caps the lattice size of a single search. Zero or negative
	// disables the cap.
	MaxCells int `toml:"max_cells"`
}

// Render holds connection and document rendering defaults.
type Render struct {
	Style       string  `toml:"style"`
	Color       string  `toml:"color"`
	StrokeWidth float64 `toml:"stroke_width"`
	Scale       float64 `toml:"scale"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`

	// KeyPrefix namespaces every key, so deployments can share one Redis.
	KeyPrefix string `toml:"key_prefix"`
}

// Server configures the HTTP service.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration that decodes from TOML strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: Engine{MaxCells: grid.DefaultMaxCells},
		Render: Render{
			Style:       "curved",
			Color:       "#3b82f6",
			StrokeWidth: 2,
			Scale:       1,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads the configuration at path on top of [Default]. An empty path or
// a file that does not exist yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Render.Style {
	case "straight", "orthogonal", "curved":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "render.style %q must be straight, orthogonal or curved", c.Render.Style)
	}
	if err := errors.ValidateColor(c.Render.Color); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.color")
	}
	if c.Render.StrokeWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.stroke_width must be positive")
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must be positive")
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// Path returns the default config file location, honoring XDG_CONFIG_HOME.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tether", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tether", "config.toml")
	}
	return filepath.Join(home, ".config", "tether", "config.toml")
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}
