// Package server serves interactive graph widgets over HTTP.
//
// The browser renders with vis-network; the server owns the node data. A
// double-click in the page is posted back, the server toggles the node
// label, and the change is pushed to every open page over Server-Sent
// Events.
//
// # Routes
//
//	GET    /                              page with the widget mounted on #graph
//	GET    /static/graph.js               widget client script
//	GET    /engine/vis-network.min.js     engine bundle (loaded once, cached)
//	GET    /events                        server-wide SSE stream (reload)
//	GET    /healthz                       engine state and widget count
//	POST   /api/widgets                   create a widget from {target, nodes, edges}
//	GET    /api/widgets                   list widget ids
//	GET    /api/widgets/{id}              widget nodes, edges and engine options
//	DELETE /api/widgets/{id}              destroy a widget
//	POST   /api/widgets/{id}/doubleclick  dispatch {nodes: [...]} to the widget
//	GET    /api/widgets/{id}/events       SSE stream of node updates
//	GET    /api/widgets/{id}/graph.svg    static Graphviz rendering
//
// Errors are JSON objects {"code", "error"} with the status derived from
// the error code.
package server
