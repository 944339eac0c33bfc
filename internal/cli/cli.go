// Package cli implements the graphwidget command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwidget/pkg/buildinfo"
	"github.com/matzehuels/graphwidget/pkg/cache"
	"github.com/matzehuels/graphwidget/pkg/config"
	"github.com/matzehuels/graphwidget/pkg/engine"
	"github.com/matzehuels/graphwidget/pkg/graphio"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "graphwidget"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	noCache    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "graphwidget serves interactive citation graphs",
		Long: `graphwidget prepares node/edge graphs for the vis-network engine and serves
them as interactive widgets. Double-clicking a node toggles between its
truncated title and the full, word-wrapped title.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the engine bundle cache")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.labelsCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.engineCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Engine Factory
// =============================================================================

// newLoader creates the engine loader from the config. The returned cache
// must be closed by the caller.
func (c *CLI) newLoader(ctx context.Context) (*engine.Loader, cache.Cache, error) {
	bundleCache, err := c.cfg.OpenCache(ctx, c.noCache)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewLoader(c.cfg.Fetcher(bundleCache), c.Logger), bundleCache, nil
}

// =============================================================================
// Graph Input
// =============================================================================

// loadGraph reads a graph file, logging its size.
func loadGraph(ctx context.Context, path string, degreeStats bool) (*graphio.Graph, error) {
	var opts []graphio.Option
	if degreeStats {
		opts = append(opts, graphio.WithDegreeStats())
	}
	g, err := graphio.Load(path, opts...)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded graph", "path", path, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}
