package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphwidget/pkg/cache"
	"github.com/matzehuels/graphwidget/pkg/engine"
	"github.com/matzehuels/graphwidget/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8090" {
		t.Errorf("expected addr :8090, got %q", cfg.Server.Addr)
	}
	if cfg.Engine.URL != engine.DefaultURL {
		t.Errorf("expected engine url %q, got %q", engine.DefaultURL, cfg.Engine.URL)
	}
	if cfg.Engine.Timeout.Duration != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Engine.Timeout)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("expected file backend, got %q", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("expected info level, got %v", cfg.LogLevel())
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := ConfigDir(); dir != "/tmp/test-xdg/graphwidget" {
		t.Errorf("expected /tmp/test-xdg/graphwidget, got %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "graphwidget")
	if dir := ConfigDir(); dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/test-cache")
	dir, err := CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/test-cache/graphwidget" {
		t.Errorf("got %q", dir)
	}
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8090" {
		t.Error("missing file should yield defaults")
	}
}

func TestLoad_Partial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
addr = "127.0.0.1:9000"

[engine]
timeout = "5s"

[cache]
backend = "none"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Engine.Timeout.Duration != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Engine.Timeout)
	}
	if cfg.Engine.URL != engine.DefaultURL {
		t.Error("unset keys should keep defaults")
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("level = %v", cfg.LogLevel())
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[server\naddr = 1"},
		{"bad duration", "[engine]\ntimeout = \"soon\""},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"negative retries", "[engine]\nretries = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(path, []byte(tt.data), 0o644)
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Engine.Retries = 5
	cfg.Cache.TTL = Duration{time.Hour}
	if err := Save(cfg, ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Engine.Retries != 5 {
		t.Errorf("expected retries 5, got %d", loaded.Engine.Retries)
	}
	if loaded.Cache.TTL.Duration != time.Hour {
		t.Errorf("expected ttl 1h, got %v", loaded.Cache.TTL)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	cfg := Default()

	c, err := cfg.OpenCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("noCache: got %T", c)
	}

	cfg.Cache.Backend = BackendNone
	c, _ = cfg.OpenCache(ctx, false)
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend: got %T", c)
	}

	cfg.Cache.Backend = BackendFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend: got %T", c)
	}
}

func TestOpenCache_RedisUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}
	cfg := Default()
	cfg.Cache.Backend = BackendRedis
	cfg.Cache.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := cfg.OpenCache(ctx, false); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}

func TestFetcher(t *testing.T) {
	cfg := Default()
	cfg.Engine.URL = "https://example.com/vis.js"
	cfg.Engine.Retries = 2

	f, ok := cfg.Fetcher(cache.NewNullCache()).(*engine.HTTPFetcher)
	if !ok {
		t.Fatal("expected HTTP fetcher")
	}
	if f.URL != "https://example.com/vis.js" || f.Attempts != 2 || f.Client.Timeout != 30*time.Second {
		t.Errorf("fetcher = %+v", f)
	}

	cfg.Engine.File = "/tmp/vis.js"
	if ff, ok := cfg.Fetcher(nil).(engine.FileFetcher); !ok || ff.Path != "/tmp/vis.js" {
		t.Errorf("expected file fetcher, got %#v", cfg.Fetcher(nil))
	}
}
