// Package graphio reads widget graphs from JSON and YAML files.
//
// # File Format
//
// A graph file has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "paper-a", "label": "Paper A\n(cited by: 2, cites: 1)", "tier": "base"},
//	    {"id": 7, "color": "#123456"}
//	  ],
//	  "edges": [
//	    {"from": "paper-a", "to": 7, "arrows": "to"}
//	  ]
//	}
//
// The YAML form uses the same keys. Node fields:
//
//   - id: string or number, required and unique
//   - label: optional display text; the part after the first newline is
//     treated as the statistics line
//   - color: optional engine colour (a string or a {background, border} object)
//   - tier: optional citation tier ("base", "first", "second"), used to pick a
//     colour when none is given
//
// Edge objects are passed to the engine unchanged.
//
// # Derived Labels
//
// [WithDegreeStats] fills in missing labels as the node id followed by a
// "(cited by: N, cites: M)" line computed from the edges.
//
// # Watching
//
// [Watcher] reports changes to a graph file so a server can reload it.
package graphio
