package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwidget/pkg/graphio"
	"github.com/matzehuels/graphwidget/pkg/server"
	"github.com/matzehuels/graphwidget/pkg/widget"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string // listen address, overrides [server] addr
	watch       bool   // reload the graph when the file changes
	degreeStats bool   // derive missing labels from edge counts
	preload     bool   // load the engine before accepting requests
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve a graph file as an interactive widget",
		Long: `Serve a graph file as an interactive widget.

Without a file the server starts empty; widgets can be created through the
API (POST /api/widgets) and the page reloads when one is mounted on #graph.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.addr == "" {
				opts.addr = c.cfg.Server.Addr
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runServe(cmd.Context(), path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (default from config, :8090)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the graph file changes")
	cmd.Flags().BoolVar(&opts.degreeStats, "degree-stats", false, "label nodes without a label with their citation counts")
	cmd.Flags().BoolVar(&opts.preload, "preload", true, "fetch the engine bundle before serving")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	loader, bundleCache, err := c.newLoader(ctx)
	if err != nil {
		return err
	}
	defer bundleCache.Close()

	if opts.preload {
		prog := newProgress(logger)
		spinner := newLoadSpinner(ctx, os.Stderr, "Loading engine bundle", loader.State)
		spinner.Start()
		_, err := loader.Bundle(ctx)
		spinner.Stop()
		if err != nil {
			logger.Warn("engine not available yet, pages will retry", "err", err)
		} else {
			prog.done("Engine ready")
		}
	}

	controller := widget.New(loader, nil, logger)
	defer controller.Registry().Close()
	srv := server.New(controller, loader, logger)

	if path != "" {
		if err := c.serveGraph(ctx, srv, path, opts.degreeStats); err != nil {
			return err
		}
		if opts.watch {
			w, err := graphio.NewWatcher(path, func() {
				if err := c.serveGraph(ctx, srv, path, opts.degreeStats); err != nil {
					logger.Error("reload failed", "path", path, "err", err)
				}
			}, logger)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()
			logger.Info("watching for changes", "path", w.Path())
		}
	}

	return srv.ListenAndServe(ctx, opts.addr)
}

// serveGraph loads path and mounts it on the page widget.
func (c *CLI) serveGraph(ctx context.Context, srv *server.Server, path string, degreeStats bool) error {
	g, err := loadGraph(ctx, path, degreeStats)
	if err != nil {
		return err
	}
	h, err := srv.Load(ctx, g)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Info("mounted graph", "widget", h.ID, "nodes", h.Nodes.Len(), "edges", len(h.Edges))
	return nil
}
