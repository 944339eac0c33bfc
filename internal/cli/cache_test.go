package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/graphwidget/pkg/cache"
	"github.com/matzehuels/graphwidget/pkg/config"
)

func TestFileCacheDir_Configured(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.cfg.Cache.Dir = "/tmp/graphwidget-test"

	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if dir != "/tmp/graphwidget-test" {
		t.Errorf("fileCacheDir() = %q, want configured dir", dir)
	}
}

func TestFileCacheDir_Default(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.cfg.Cache.Dir = ""

	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	want, err := config.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	if dir != want {
		t.Errorf("fileCacheDir() = %q, want %q", dir, want)
	}
}

func TestRunCacheClear_File(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	ctx := context.Background()
	key := cache.BundleKey("https://example.com/vis.js")
	if err := fc.Set(ctx, key, []byte("script"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	c := New(os.Stderr, LogInfo)
	c.cfg.Cache.Backend = config.BackendFile
	c.cfg.Cache.Dir = dir
	if err := c.runCacheClear(ctx); err != nil {
		t.Fatalf("runCacheClear() error: %v", err)
	}

	if _, ok, _ := fc.Get(ctx, key); ok {
		t.Error("bundle still cached after clear")
	}
}

func TestRunCacheClear_MissingDir(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.cfg.Cache.Backend = config.BackendFile
	c.cfg.Cache.Dir = filepath.Join(t.TempDir(), "missing")

	if err := c.runCacheClear(context.Background()); err != nil {
		t.Fatalf("runCacheClear() error: %v", err)
	}
	if _, err := os.Stat(c.cfg.Cache.Dir); !os.IsNotExist(err) {
		t.Error("clear should not create the cache dir")
	}
}

func TestRunCacheClear_Disabled(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.cfg.Cache.Backend = config.BackendNone

	if err := c.runCacheClear(context.Background()); err != nil {
		t.Errorf("runCacheClear() error: %v", err)
	}
}
