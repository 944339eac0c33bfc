// Package render holds static renderers for widget graphs.
//
// The interactive widget is drawn by the browser engine. The renderers here
// produce fixed images of the same data for export and for clients without
// JavaScript:
//
//   - [nodelink]: Graphviz node-link diagrams rendered to SVG
//
// [nodelink]: github.com/matzehuels/graphwidget/pkg/render/nodelink
package render
