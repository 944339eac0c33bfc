package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwidget/pkg/graphio"
	"github.com/matzehuels/graphwidget/pkg/label"
	"github.com/matzehuels/graphwidget/pkg/render/nodelink"
)

// Export formats.
const (
	formatSVG  = "svg"
	formatDOT  = "dot"
	formatJSON = "json"
)

var validFormats = map[string]bool{formatSVG: true, formatDOT: true, formatJSON: true}

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output      string // output file; stdout when empty
	format      string // svg, dot or json
	expanded    bool   // draw long labels
	degreeStats bool   // derive missing labels from edge counts
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a static SVG, DOT or JSON rendering of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			if !validFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be svg, dot or json)", opts.format)
			}
			return runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot, json")
	cmd.Flags().BoolVar(&opts.expanded, "expanded", false, "draw every node with its full title")
	cmd.Flags().BoolVar(&opts.degreeStats, "degree-stats", false, "label nodes without a label with their citation counts")

	return cmd
}

// formatFromPath infers the export format from the output file extension.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if validFormats[ext] {
		return ext
	}
	return formatSVG
}

func runExport(ctx context.Context, input string, opts exportOpts) error {
	logger := loggerFromContext(ctx)

	g, err := loadGraph(ctx, input, opts.degreeStats)
	if err != nil {
		return err
	}
	data, err := exportGraph(ctx, g, opts)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}

	if opts.output != "" {
		logger.Infof("Generated %s", opts.output)
		printFile(opts.output)
	}
	return nil
}

// exportGraph renders g in the requested format.
func exportGraph(ctx context.Context, g *graphio.Graph, opts exportOpts) ([]byte, error) {
	switch opts.format {
	case formatJSON:
		var buf bytes.Buffer
		if err := graphio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT, formatSVG:
		dot := nodelink.ToDOT(label.Prepare(g.Nodes), g.Edges, nodelink.Options{Expanded: opts.expanded})
		if opts.format == formatDOT {
			return []byte(dot), nil
		}
		return nodelink.RenderSVG(ctx, dot)
	default:
		return nil, fmt.Errorf("invalid format: %s", opts.format)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for an empty path.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
