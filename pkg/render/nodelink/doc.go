// Package nodelink renders widget graphs as Graphviz node-link diagrams.
//
// # Usage
//
// Convert the displayed nodes and their edges to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(store.All(), edges, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Each node shows its current label, so a diagram taken after a node was
// expanded shows the wrapped title. Set [Options.Expanded] to draw every
// node with its long label instead.
//
// # Colours
//
// Node fill and outline come from the node colour: a string colour fills
// the node, a {background, border} object sets both. Nodes without a colour
// use the widget default green.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
