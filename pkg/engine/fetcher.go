package engine

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/matzehuels/graphwidget/pkg/cache"
	"github.com/matzehuels/graphwidget/pkg/errors"
	"github.com/matzehuels/graphwidget/pkg/httputil"
	"github.com/matzehuels/graphwidget/pkg/observability"
)

// DefaultURL is the standalone UMD build of vis-network.
const DefaultURL = "https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"

// DefaultTTL is how long a downloaded bundle stays cached.
const DefaultTTL = 7 * 24 * time.Hour

// HTTPFetcher downloads the engine bundle, consulting a cache first.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
	Cache  cache.Cache
	TTL    time.Duration
	// Attempts bounds retries on network errors. Zero means 3.
	Attempts int
	// Delay is the initial backoff between attempts. Zero means 1s.
	Delay time.Duration
}

// NewHTTPFetcher creates a fetcher for DefaultURL with a null cache.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		URL:    DefaultURL,
		Client: httputil.NewClient(httputil.DefaultTimeout),
		Cache:  cache.NewNullCache(),
		TTL:    DefaultTTL,
	}
}

// Source returns the bundle URL.
func (f *HTTPFetcher) Source() string { return f.url() }

func (f *HTTPFetcher) url() string {
	if f.URL == "" {
		return DefaultURL
	}
	return f.URL
}

// Fetch returns the cached bundle if present, otherwise downloads and caches it.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*Bundle, error) {
	src := f.url()
	key := cache.BundleKey(src)
	c := f.Cache
	if c == nil {
		c = cache.NewNullCache()
	}

	if data, ok, err := c.Get(ctx, key); err == nil && ok && len(data) > 0 {
		observability.Cache().OnCacheHit(ctx, "engine")
		return newBundle(src, data, true), nil
	}
	observability.Cache().OnCacheMiss(ctx, "engine")

	data, err := f.download(ctx, src)
	if err != nil {
		return nil, err
	}

	ttl := f.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "engine", len(data))
	}
	return newBundle(src, data, false), nil
}

func (f *HTTPFetcher) download(ctx context.Context, src string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = httputil.NewClient(httputil.DefaultTimeout)
	}
	attempts := f.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := f.Delay
	if delay <= 0 {
		delay = time.Second
	}

	host, path := src, ""
	if u, err := url.Parse(src); err == nil {
		host, path = u.Host, u.Path
	}

	var data []byte
	err := httputil.Retry(ctx, attempts, delay, func() error {
		observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
		start := time.Now()
		body, status, err := httputil.Get(ctx, client, src)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
			return err
		}
		observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, status, time.Since(start))
		data = body
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", src)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", src)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeEngineUnavailable, "empty bundle from %s", src)
	}
	return data, nil
}

// FileFetcher reads the engine bundle from a local file.
type FileFetcher struct {
	Path string
}

// Source returns the file path.
func (f FileFetcher) Source() string { return f.Path }

// Fetch reads the file.
func (f FileFetcher) Fetch(context.Context) (*Bundle, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineUnavailable, err, "read bundle %s", f.Path)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeEngineUnavailable, "bundle %s is empty", f.Path)
	}
	return newBundle("file://"+f.Path, data, false), nil
}

func newBundle(src string, data []byte, cached bool) *Bundle {
	return &Bundle{
		URL:       src,
		Script:    data,
		Digest:    cache.Hash(data),
		FetchedAt: time.Now(),
		Cached:    cached,
	}
}
