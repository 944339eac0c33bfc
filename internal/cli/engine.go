package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwidget/pkg/cache"
)

// engineCommand creates the engine management command.
func (c *CLI) engineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "engine",
		Short: "Manage the vis-network engine bundle",
	}

	cmd.AddCommand(c.engineFetchCommand())
	cmd.AddCommand(c.engineStatusCommand())

	return cmd
}

// engineFetchCommand creates the "engine fetch" subcommand.
func (c *CLI) engineFetchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the engine bundle into the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEngineFetch(cmd.Context())
		},
	}
}

func (c *CLI) runEngineFetch(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	loader, bundleCache, err := c.newLoader(ctx)
	if err != nil {
		return err
	}
	defer bundleCache.Close()

	spinner := newLoadSpinner(ctx, os.Stderr, "Fetching engine bundle", loader.State)
	spinner.Start()
	b, err := loader.Bundle(ctx)
	if err != nil {
		spinner.StopWithError("Engine unavailable")
		return err
	}
	spinner.StopWithSuccess("Engine ready")

	printKeyValue("Source", b.URL)
	printKeyValue("Size", formatBytes(b.Size()))
	printKeyValue("Digest", b.Digest[:min(12, len(b.Digest))])
	printKeyValue("Cache", cacheStatus(b.Cached))
	return nil
}

// engineStatusCommand creates the "engine status" subcommand.
func (c *CLI) engineStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the engine bundle comes from and whether it is cached",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEngineStatus(cmd.Context())
		},
	}
}

func (c *CLI) runEngineStatus(ctx context.Context) error {
	if c.cfg.Engine.File != "" {
		printKeyValue("Source", c.cfg.Engine.File)
		printKeyValue("Cache", "not used for local bundles")
		return nil
	}

	printKeyValue("Source", c.cfg.Engine.URL)
	printKeyValue("Backend", c.cfg.Cache.Backend)

	bundleCache, err := c.cfg.OpenCache(ctx, c.noCache)
	if err != nil {
		printWarning("Cache unavailable: %v", err)
		return nil
	}
	defer bundleCache.Close()

	data, ok, err := bundleCache.Get(ctx, cache.BundleKey(c.cfg.Engine.URL))
	switch {
	case err != nil:
		printWarning("Cache read failed: %v", err)
	case ok:
		printKeyValue("Cache", cacheStatus(true)+" "+StyleDim.Render(formatBytes(len(data))))
	default:
		printKeyValue("Cache", StyleDim.Render("empty"))
		printNextStep("Fetch it now", appName+" engine fetch")
	}
	printKeyValue("TTL", c.cfg.Cache.TTL.Duration.String())
	return nil
}

// fetchTimeout bounds engine fetches started from the CLI.
const fetchTimeout = 2 * time.Minute

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
