package widget

import (
	"sync"

	"github.com/matzehuels/graphwidget/pkg/errors"
	"github.com/matzehuels/graphwidget/pkg/label"
)

// Network is a mounted engine instance.
type Network interface {
	// Container returns the mount point selector.
	Container() string
	// OnNodeDoubleClick registers a handler called with the id of each
	// double-clicked node.
	OnNodeDoubleClick(handler DoubleClickHandler)
	// Destroy releases the instance. Later events are dropped.
	Destroy()
}

// DoubleClickHandler reacts to a node double-click. It returns the node
// record the click produced, or false when the click changed nothing.
type DoubleClickHandler func(id label.NodeID) (label.DisplayNode, bool)

// Factory constructs a Network on a mount point.
type Factory interface {
	New(container string, nodes *label.Store, edges []label.RawEdge, opts Options) (Network, error)
}

// FactoryFunc adapts a function to the [Factory] interface.
type FactoryFunc func(container string, nodes *label.Store, edges []label.RawEdge, opts Options) (Network, error)

// New calls f.
func (f FactoryFunc) New(container string, nodes *label.Store, edges []label.RawEdge, opts Options) (Network, error) {
	return f(container, nodes, edges, opts)
}

// ClickParams is the payload of an engine click event. Nodes lists the ids
// under the pointer, empty when the background was hit.
type ClickParams struct {
	Nodes []label.NodeID `json:"nodes"`
}

// VisNetwork mirrors a vis-network instance running in the browser.
type VisNetwork struct {
	container string
	nodes     *label.Store
	edges     []label.RawEdge
	opts      Options

	mu        sync.RWMutex
	handlers  []DoubleClickHandler
	destroyed bool
}

// Container returns the mount point selector.
func (n *VisNetwork) Container() string { return n.container }

// Nodes returns the node data set the instance renders.
func (n *VisNetwork) Nodes() *label.Store { return n.nodes }

// Edges returns the edge list the instance renders.
func (n *VisNetwork) Edges() []label.RawEdge { return n.edges }

// Options returns the engine configuration.
func (n *VisNetwork) Options() Options { return n.opts }

// OnNodeDoubleClick registers handler for double-click events.
func (n *VisNetwork) OnNodeDoubleClick(handler DoubleClickHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, handler)
}

// DoubleClick dispatches a double-click event. Only the first node under the
// pointer is reported; events with no node are ignored. The result is the
// record returned by the last handler that produced one, so callers see the
// state their own click caused.
func (n *VisNetwork) DoubleClick(p ClickParams) (label.DisplayNode, bool) {
	if len(p.Nodes) == 0 {
		return label.DisplayNode{}, false
	}
	n.mu.RLock()
	if n.destroyed {
		n.mu.RUnlock()
		return label.DisplayNode{}, false
	}
	handlers := append([]DoubleClickHandler{}, n.handlers...)
	n.mu.RUnlock()

	var (
		result label.DisplayNode
		found  bool
	)
	for _, h := range handlers {
		if node, ok := h(p.Nodes[0]); ok {
			result, found = node, true
		}
	}
	return result, found
}

// Destroy detaches all handlers.
func (n *VisNetwork) Destroy() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destroyed = true
	n.handlers = nil
}

// Destroyed reports whether Destroy was called.
func (n *VisNetwork) Destroyed() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.destroyed
}

// VisFactory creates [VisNetwork] instances.
type VisFactory struct{}

// New mounts a VisNetwork on container.
func (VisFactory) New(container string, nodes *label.Store, edges []label.RawEdge, opts Options) (Network, error) {
	if container == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mount target is empty")
	}
	if nodes == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node data set is nil")
	}
	return &VisNetwork{container: container, nodes: nodes, edges: edges, opts: opts}, nil
}
