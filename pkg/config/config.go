// Package config loads graphwidget settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/graphwidget/config.toml (or
// ~/.config/graphwidget/config.toml). Missing files and missing keys fall
// back to [Default]:
//
//	[server]
//	addr = ":8090"
//
//	[engine]
//	url = "https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"
//	timeout = "30s"
//	retries = 3
//
//	[cache]
//	backend = "file"   # "file", "redis" or "none"
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//
//	[log]
//	level = "info"
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphwidget/pkg/cache"
	"github.com/matzehuels/graphwidget/pkg/engine"
	"github.com/matzehuels/graphwidget/pkg/errors"
	"github.com/matzehuels/graphwidget/pkg/httputil"
)

const appName = "graphwidget"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds graphwidget configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Engine EngineConfig `toml:"engine"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// EngineConfig controls where the rendering engine bundle comes from.
type EngineConfig struct {
	URL     string   `toml:"url"`
	File    string   `toml:"file"` // local bundle; overrides url when set
	Timeout Duration `toml:"timeout"`
	Retries int      `toml:"retries"`
}

// CacheConfig controls the engine bundle cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct{ time.Duration }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8090"},
		Engine: EngineConfig{
			URL:     engine.DefaultURL,
			Timeout: Duration{httputil.DefaultTimeout},
			Retries: 3,
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{engine.DefaultTTL},
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{Level: "info"},
	}
}

// ConfigDir returns the graphwidget config directory.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// CacheDir returns the default file cache directory.
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path, or at [Path] when path is empty.
// A missing file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, or to [Path] when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "log level")
	}
	if c.Engine.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "engine retries must not be negative")
	}
	return nil
}

// LogLevel returns the configured log level, info when unparsable.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// OpenCache opens the configured cache backend. When noCache is set, or the
// file cache directory cannot be determined, a null cache is returned.
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "open redis cache")
		}
		return rc, nil
	default:
		dir := c.Cache.Dir
		if dir == "" {
			d, err := CacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// Fetcher returns the engine bundle source: the local file when one is
// configured, otherwise an HTTP fetcher reading through c.
func (c *Config) Fetcher(bundleCache cache.Cache) engine.Fetcher {
	if c.Engine.File != "" {
		return engine.FileFetcher{Path: c.Engine.File}
	}
	f := engine.NewHTTPFetcher()
	if c.Engine.URL != "" {
		f.URL = c.Engine.URL
	}
	f.Client = httputil.NewClient(c.Engine.Timeout.Duration)
	f.Cache = bundleCache
	f.TTL = c.Cache.TTL.Duration
	f.Attempts = c.Engine.Retries
	return f
}
