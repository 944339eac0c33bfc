package label

import (
	"strings"

	"github.com/matzehuels/graphwidget/pkg/textfmt"
)

// Label budgets, in characters.
const (
	ShortLimit = 48
	WrapWidth  = 32
)

// DefaultShape is the vis-network shape given to every node.
const DefaultShape = "circle"

// Prepare derives one [DisplayNode] per raw node, in input order.
// Every node starts with its short label displayed.
func Prepare(raw []RawNode) []DisplayNode {
	out := make([]DisplayNode, len(raw))
	for i, n := range raw {
		out[i] = prepareNode(n)
	}
	return out
}

func prepareNode(n RawNode) DisplayNode {
	title := n.ID.String()
	stats := statsLine(n.Label)
	short := withStats(textfmt.Truncate(title, ShortLimit), stats)

	var color any = DefaultColor
	if n.Color != nil {
		color = n.Color
	}

	return DisplayNode{
		ID:         n.ID,
		Label:      short,
		Title:      title,
		StatsLine:  stats,
		ShortLabel: short,
		LongLabel:  withStats(textfmt.WrapByWords(title, WrapWidth), stats),
		IsShort:    true,
		Shape:      DefaultShape,
		Color:      color,
	}
}

// statsLine returns every line of label after the first.
func statsLine(label *string) string {
	if label == nil {
		return ""
	}
	_, rest, ok := strings.Cut(*label, "\n")
	if !ok {
		return ""
	}
	return rest
}

func withStats(head, stats string) string {
	if stats == "" {
		return head
	}
	return head + "\n" + stats
}

// Toggle swaps the displayed label of n between its two precomputed forms.
func Toggle(n *DisplayNode) {
	next := n.ShortLabel
	if n.IsShort {
		next = n.LongLabel
	}
	n.Label = next
	n.IsShort = !n.IsShort
}
