package graphio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphwidget/pkg/errors"
	"github.com/matzehuels/graphwidget/pkg/label"
)

// Graph is a decoded graph file, ready for the widget controller.
type Graph struct {
	Nodes []label.RawNode `json:"nodes" yaml:"nodes"`
	Edges []label.RawEdge `json:"edges" yaml:"edges"`
}

type fileGraph struct {
	Nodes []fileNode      `json:"nodes" yaml:"nodes"`
	Edges []label.RawEdge `json:"edges" yaml:"edges"`
}

type fileNode struct {
	ID    label.NodeID `json:"id" yaml:"id"`
	Label *string      `json:"label,omitempty" yaml:"label,omitempty"`
	Color any          `json:"color,omitempty" yaml:"color,omitempty"`
	Tier  Tier         `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// Option adjusts a graph after decoding.
type Option func(*Graph)

// WithDegreeStats labels nodes that have no label with their id and a
// "(cited by: N, cites: M)" line counted from the edges.
func WithDegreeStats() Option {
	return func(g *Graph) { applyDegreeStats(g) }
}

// ReadJSON decodes a JSON graph from r.
//
// ReadJSON returns an INVALID_GRAPH error if the JSON is malformed, a node
// has no id, or two nodes share an id. Nodes with a tier but no colour get
// the tier colour. ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ...Option) (*Graph, error) {
	var data fileGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode json")
	}
	return build(data, opts)
}

// ReadYAML decodes a YAML graph from r, with the same rules as [ReadJSON].
func ReadYAML(r io.Reader, opts ...Option) (*Graph, error) {
	var data fileGraph
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		if err == io.EOF {
			return build(data, opts)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode yaml")
	}
	return build(data, opts)
}

// Load reads the graph file at path, choosing the decoder by extension:
// .yaml and .yml are YAML, anything else is JSON.
func Load(path string, opts ...Option) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}

	var g *Graph
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		g, err = ReadYAML(bytes.NewReader(data), opts...)
	default:
		g, err = ReadJSON(bytes.NewReader(data), opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteJSON encodes g as indented JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func build(data fileGraph, opts []Option) (*Graph, error) {
	g := &Graph{
		Nodes: make([]label.RawNode, 0, len(data.Nodes)),
		Edges: data.Edges,
	}
	if g.Edges == nil {
		g.Edges = []label.RawEdge{}
	}

	seen := make(map[label.NodeID]bool, len(data.Nodes))
	for i, n := range data.Nodes {
		if n.ID.IsZero() {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "node %d: missing id", i)
		}
		if seen[n.ID] {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID.String())
		}
		seen[n.ID] = true

		color := n.Color
		if color == nil && n.Tier != "" {
			color = n.Tier.Color()
		}
		g.Nodes = append(g.Nodes, label.RawNode{ID: n.ID, Label: n.Label, Color: color})
	}

	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}
