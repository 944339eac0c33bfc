package graphio

import (
	"fmt"

	"github.com/matzehuels/graphwidget/pkg/label"
)

// Degree counts a node's incoming and outgoing edges.
type Degree struct {
	In  int
	Out int
}

// Degrees counts edges per node id. Edge endpoints are read from the
// "from" and "to" keys and matched on their textual form, so the number 7
// and the string "7" refer to the same node.
func Degrees(edges []label.RawEdge) map[string]Degree {
	out := make(map[string]Degree)
	for _, e := range edges {
		from, okFrom := e.From()
		to, okTo := e.To()
		if !okFrom || !okTo {
			continue
		}
		d := out[from]
		d.Out++
		out[from] = d
		d = out[to]
		d.In++
		out[to] = d
	}
	return out
}

// StatsLabel formats a node label with its citation counts.
func StatsLabel(title string, d Degree) string {
	return fmt.Sprintf("%s\n(cited by: %d, cites: %d)", title, d.In, d.Out)
}

func applyDegreeStats(g *Graph) {
	degrees := Degrees(g.Edges)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Label != nil {
			continue
		}
		l := StatsLabel(n.ID.String(), degrees[n.ID.String()])
		n.Label = &l
	}
}
