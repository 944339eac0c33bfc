// Package pkg provides the core libraries for graphwidget.
//
// # Overview
//
// graphwidget turns node/edge graphs (typically citation graphs, where each
// node id is a paper title) into interactive vis-network widgets. Every node
// starts with a truncated title; double-clicking it swaps in the full,
// word-wrapped title and back. The pkg directory is organized into:
//
//  1. [textfmt] and [label] - Label text and the per-widget node store
//  2. [engine] - Single-flight loading of the vis-network script bundle
//  3. [widget] - Widget controller, mount registry and network instances
//  4. [server] - HTTP pages, JSON API and server-sent events
//  5. [graphio] and [render] - Graph files, file watching and static export
//
// # Architecture
//
// The typical data flow:
//
//	graph file (JSON/YAML)
//	         ↓
//	    [graphio] package (decode, tier colors, degree stats)
//	         ↓
//	    [widget] package (wait for [engine], prepare labels, mount)
//	         ↓
//	    [server] package (page + SSE) or [render/nodelink] (SVG/DOT)
//
// # Quick Start
//
// Mount a widget once the engine is available:
//
//	import (
//	    "github.com/matzehuels/graphwidget/pkg/engine"
//	    "github.com/matzehuels/graphwidget/pkg/graphio"
//	    "github.com/matzehuels/graphwidget/pkg/widget"
//	)
//
//	loader := engine.NewLoader(engine.NewHTTPFetcher(), logger)
//	c := widget.New(loader, nil, logger)
//
//	g, _ := graphio.Load("papers.json")
//	h, _ := c.Init(ctx, "#graph", g.Nodes, g.Edges)
//	defer h.Close()
//
// # Supporting Packages
//
// [cache] - Engine bundle caches: filesystem, Redis and a no-op cache.
//
// [config] - TOML configuration for the server, engine, cache and logging.
//
// [errors] - Coded errors with HTTP status and user-facing messages.
//
// [httputil] - HTTP client helpers with retries.
//
// [observability] - Hooks for engine loads, cache lookups and toggles.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test -short ./pkg/...   # Skip Graphviz and file watcher tests
//
// [textfmt]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/textfmt
// [label]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/label
// [engine]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/engine
// [widget]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/widget
// [server]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/server
// [graphio]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/graphio
// [render]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphwidget/pkg/buildinfo
package pkg
