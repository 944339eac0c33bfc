package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwidget/pkg/engine"
	"github.com/matzehuels/graphwidget/pkg/widget"
)

// previewTarget is the mount point name of the terminal preview.
const previewTarget = "preview"

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var degreeStats bool

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Toggle node labels in a terminal list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), args[0], degreeStats)
		},
	}

	cmd.Flags().BoolVar(&degreeStats, "degree-stats", false, "label nodes without a label with their citation counts")

	return cmd
}

// terminalEngine stands in for the browser engine bundle: the terminal
// list needs no script.
func terminalEngine(context.Context) (*engine.Bundle, error) {
	return &engine.Bundle{URL: "terminal://" + previewTarget, FetchedAt: time.Now()}, nil
}

// newPreview mounts g's nodes on a terminal network.
func newPreview(ctx context.Context, path string, degreeStats bool) (*widget.Handle, error) {
	logger := loggerFromContext(ctx)
	g, err := loadGraph(ctx, path, degreeStats)
	if err != nil {
		return nil, err
	}
	loader := engine.NewLoader(engine.FetcherFunc(terminalEngine), logger)
	controller := widget.New(loader, widget.FactoryFunc(newTermNetwork), logger)
	return controller.Init(ctx, previewTarget, g.Nodes, g.Edges)
}

func runPreview(ctx context.Context, path string, degreeStats bool) error {
	h, err := newPreview(ctx, path, degreeStats)
	if err != nil {
		return err
	}
	defer h.Close()

	_, err = tea.NewProgram(newNodeListModel(h), tea.WithContext(ctx)).Run()
	return err
}
