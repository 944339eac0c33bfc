package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/graphwidget/pkg/errors"
	"github.com/matzehuels/graphwidget/pkg/observability"
)

// State is the availability of the rendering engine.
type State int

const (
	NotRequested State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case NotRequested:
		return "not requested"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Bundle is a loaded copy of the engine's standalone script.
type Bundle struct {
	URL       string    `json:"url"`
	Script    []byte    `json:"-"`
	Digest    string    `json:"digest"`
	FetchedAt time.Time `json:"fetched_at"`
	Cached    bool      `json:"cached"`
}

// Size returns the script length in bytes.
func (b *Bundle) Size() int { return len(b.Script) }

// Fetcher obtains the engine bundle.
type Fetcher interface {
	Fetch(ctx context.Context) (*Bundle, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context) (*Bundle, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) (*Bundle, error) { return f(ctx) }

const loadKey = "engine"

// Loader guarantees the engine bundle is loaded before use, fetching it at
// most once while loads succeed. It is safe for concurrent use.
type Loader struct {
	fetcher Fetcher
	logger  *log.Logger
	group   singleflight.Group

	mu     sync.Mutex
	state  State
	bundle *Bundle
}

// NewLoader creates a loader in the NotRequested state. A nil logger
// falls back to log.Default().
func NewLoader(f Fetcher, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{fetcher: f, logger: logger}
}

// State returns the current engine availability.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// EnsureReady waits until the engine is loaded and then calls onReady with
// the bundle. When the engine is already Ready, onReady runs immediately
// without fetching. If loading fails or ctx ends first, onReady is not
// called and the error is returned.
func (l *Loader) EnsureReady(ctx context.Context, onReady func(*Bundle)) error {
	b, err := l.Bundle(ctx)
	if err != nil {
		return err
	}
	if onReady != nil {
		onReady(b)
	}
	return nil
}

// Bundle returns the loaded bundle, loading it first if necessary.
//
// Cancelling ctx abandons the wait but not the shared load, which keeps
// running for the other callers.
func (l *Loader) Bundle(ctx context.Context) (*Bundle, error) {
	l.mu.Lock()
	if l.state == Ready {
		b := l.bundle
		l.mu.Unlock()
		return b, nil
	}
	l.mu.Unlock()

	ch := l.group.DoChan(loadKey, func() (any, error) {
		return l.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Bundle), nil
	}
}

// load runs inside the single flight.
func (l *Loader) load(ctx context.Context) (*Bundle, error) {
	l.mu.Lock()
	if l.state == Ready {
		b := l.bundle
		l.mu.Unlock()
		return b, nil
	}
	l.state = Loading
	l.mu.Unlock()

	l.logger.Debug("loading rendering engine")
	observability.Engine().OnLoadStart(ctx, l.fetcherURL())
	start := time.Now()

	b, err := l.fetcher.Fetch(ctx)
	if err == nil && b == nil {
		err = errors.New(errors.ErrCodeEngineUnavailable, "fetcher returned no bundle")
	}

	size := 0
	if b != nil {
		size = b.Size()
	}
	observability.Engine().OnLoadComplete(ctx, l.fetcherURL(), size, time.Since(start), err)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = NotRequested
		l.logger.Warn("rendering engine load failed", "err", err)
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeEngineUnavailable, err, "load rendering engine")
	}
	l.state = Ready
	l.bundle = b
	l.logger.Info("rendering engine ready", "url", b.URL, "bytes", b.Size(), "cached", b.Cached)
	return b, nil
}

func (l *Loader) fetcherURL() string {
	if u, ok := l.fetcher.(interface{ Source() string }); ok {
		return u.Source()
	}
	return ""
}
