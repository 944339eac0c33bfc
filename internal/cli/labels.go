package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphwidget/pkg/label"
)

// labelsOpts holds the command-line flags for the labels command.
type labelsOpts struct {
	json        bool // print prepared nodes as JSON
	degreeStats bool // derive missing labels from edge counts
}

// labelsCommand creates the labels command.
func (c *CLI) labelsCommand() *cobra.Command {
	var opts labelsOpts

	cmd := &cobra.Command{
		Use:   "labels [file]",
		Short: "Print the short and long label of every node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabels(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print prepared nodes as JSON")
	cmd.Flags().BoolVar(&opts.degreeStats, "degree-stats", false, "label nodes without a label with their citation counts")

	return cmd
}

func runLabels(ctx context.Context, path string, opts labelsOpts) error {
	g, err := loadGraph(ctx, path, opts.degreeStats)
	if err != nil {
		return err
	}
	nodes := label.Prepare(g.Nodes)

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	}

	fmt.Println(labelsTable(nodes))
	printStats(len(nodes), len(g.Edges))
	return nil
}

// labelsTable renders one row per node with both label forms.
func labelsTable(nodes []label.DisplayNode) string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{n.ID.String(), n.ShortLabel, n.LongLabel}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		BorderRow(true).
		Headers("ID", "Short", "Long").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 1 && strings.Contains(rows[row][1], "…"):
				return StyleWarning
			}
			return StyleValue
		}).
		Render()
}
