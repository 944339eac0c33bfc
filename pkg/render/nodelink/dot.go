package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphwidget/pkg/label"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Expanded draws every node with its long label regardless of its
	// current display state.
	Expanded bool
}

// ToDOT converts displayed nodes and their edges to Graphviz DOT.
// Edges whose endpoints are missing are skipped; edges to unknown nodes are
// kept and Graphviz draws the endpoint as a plain node.
func ToDOT(nodes []label.DisplayNode, edges []label.RawEdge, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=false, fontsize=12, penwidth=2];\n")
	buf.WriteString("  edge [penwidth=3, arrowsize=1.2];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		text := n.Label
		if opts.Expanded {
			text = n.LongLabel
		}
		attrs := append([]string{fmt.Sprintf("label=%q", text)}, colorAttrs(n.Color)...)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		from, okFrom := e.From()
		to, okTo := e.To()
		if !okFrom || !okTo {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func colorAttrs(c any) []string {
	switch v := c.(type) {
	case string:
		return []string{fmt.Sprintf("fillcolor=%q", v), fmt.Sprintf("color=%q", v)}
	case label.Color:
		return []string{fmt.Sprintf("fillcolor=%q", v.Background), fmt.Sprintf("color=%q", v.Border)}
	case *label.Color:
		if v != nil {
			return colorAttrs(*v)
		}
	case map[string]any:
		var attrs []string
		if bg, ok := v["background"].(string); ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", bg))
		}
		if border, ok := v["border"].(string); ok {
			attrs = append(attrs, fmt.Sprintf("color=%q", border))
		}
		if len(attrs) > 0 {
			return attrs
		}
	}
	return colorAttrs(label.DefaultColor)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element so the diagram scales
// to its container from a zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
