package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/graphwidget/pkg/cache"
	"github.com/matzehuels/graphwidget/pkg/errors"
)

const script = "/* vis-network */ var vis = {Network: function(){}};"

func TestHTTPFetcher_CachesBundle(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(script))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := &HTTPFetcher{URL: srv.URL + "/vis-network.min.js", Client: srv.Client(), Cache: fc}

	ctx := context.Background()
	b, err := f.Fetch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if b.Cached {
		t.Error("first fetch reported as cached")
	}
	if string(b.Script) != script {
		t.Errorf("script = %q", b.Script)
	}
	if b.Digest != cache.Hash([]byte(script)) {
		t.Error("digest mismatch")
	}

	b, err = f.Fetch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Cached {
		t.Error("second fetch not served from cache")
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestHTTPFetcher_NotFound(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := &HTTPFetcher{URL: srv.URL, Client: srv.Client(), Attempts: 3, Delay: time.Millisecond}
	_, err := f.Fetch(context.Background())
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1 (404 is not retried)", hits.Load())
	}
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(script))
	}))
	defer srv.Close()

	f := &HTTPFetcher{URL: srv.URL, Client: srv.Client(), Attempts: 3, Delay: time.Millisecond}
	b, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.Size() != len(script) {
		t.Errorf("size = %d", b.Size())
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3", hits.Load())
	}
}

func TestHTTPFetcher_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f := &HTTPFetcher{URL: srv.URL, Client: srv.Client()}
	if _, err := f.Fetch(context.Background()); !errors.Is(err, errors.ErrCodeEngineUnavailable) {
		t.Errorf("err = %v, want ENGINE_UNAVAILABLE", err)
	}
}

func TestNewHTTPFetcher(t *testing.T) {
	f := NewHTTPFetcher()
	if f.Source() != DefaultURL {
		t.Errorf("Source() = %q", f.Source())
	}
	if (&HTTPFetcher{}).Source() != DefaultURL {
		t.Error("empty URL should fall back to DefaultURL")
	}
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vis-network.min.js")
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := FileFetcher{Path: path}.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if string(b.Script) != script {
		t.Errorf("script = %q", b.Script)
	}

	_, err = FileFetcher{Path: filepath.Join(t.TempDir(), "missing.js")}.Fetch(context.Background())
	if !errors.Is(err, errors.ErrCodeEngineUnavailable) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestLoader_WithFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vis.js")
	os.WriteFile(path, []byte(script), 0o644)

	l := NewLoader(FileFetcher{Path: path}, nil)
	b, err := l.Bundle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.URL != "file://"+path {
		t.Errorf("URL = %q", b.URL)
	}
}
