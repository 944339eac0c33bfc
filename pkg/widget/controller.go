package widget

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/matzehuels/graphwidget/pkg/engine"
	"github.com/matzehuels/graphwidget/pkg/label"
	"github.com/matzehuels/graphwidget/pkg/observability"
)

// Loader makes the rendering engine available. [engine.Loader] implements it.
type Loader interface {
	EnsureReady(ctx context.Context, onReady func(*engine.Bundle)) error
}

// Handle is a live widget.
type Handle struct {
	ID        uuid.UUID
	Target    string
	Network   Network
	Nodes     *label.Store
	Edges     []label.RawEdge
	Options   Options
	Bundle    *engine.Bundle
	CreatedAt time.Time
}

// Close destroys the engine instance and ends node update subscriptions.
func (h *Handle) Close() {
	h.Network.Destroy()
	h.Nodes.Close()
}

// MarshalJSON renders the debug view of the widget: its live nodes, edges
// and engine options.
func (h *Handle) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        uuid.UUID           `json:"id"`
		Target    string              `json:"target"`
		Nodes     []label.DisplayNode `json:"nodes"`
		Edges     []label.RawEdge     `json:"edges"`
		Options   Options             `json:"options"`
		CreatedAt time.Time           `json:"created_at"`
	}{h.ID, h.Target, h.Nodes.All(), h.Edges, h.Options, h.CreatedAt})
}

// Controller creates widgets once the engine is ready.
type Controller struct {
	loader   Loader
	factory  Factory
	logger   *log.Logger
	registry *Registry

	mu     sync.Mutex
	mounts map[string]*sync.Mutex
}

// New creates a controller. A nil factory means [VisFactory]; a nil logger
// falls back to log.Default().
func New(loader Loader, factory Factory, logger *log.Logger) *Controller {
	if factory == nil {
		factory = VisFactory{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{loader: loader, factory: factory, logger: logger, registry: NewRegistry(), mounts: make(map[string]*sync.Mutex)}
}

// Registry returns the handles created by this controller.
func (c *Controller) Registry() *Registry { return c.registry }

// Init mounts a widget on target once the engine is loaded.
//
// Nothing is built before the engine is ready; when loading fails the error
// is returned and no widget exists. Nil edges are treated as empty. A widget
// already mounted on the same target is destroyed before its replacement is
// constructed, so a target never carries two engine instances. If the
// replacement cannot be built the target is left empty.
func (c *Controller) Init(ctx context.Context, target string, nodes []label.RawNode, edges []label.RawEdge) (*Handle, error) {
	var bundle *engine.Bundle
	err := c.loader.EnsureReady(ctx, func(b *engine.Bundle) { bundle = b })

	var h *Handle
	if err == nil {
		h, err = c.mount(ResolveTarget(target), nodes, edges, bundle)
	}

	id := ""
	if h != nil {
		id = h.ID.String()
	}
	observability.Widget().OnInit(ctx, id, len(nodes), len(edges), err)
	if err != nil {
		c.logger.Warn("widget init failed", "target", target, "err", err)
		return nil, err
	}

	c.logger.Info("widget ready", "widget", h.ID, "target", h.Target, "nodes", len(nodes), "edges", len(h.Edges))
	return h, nil
}

// mount replaces whatever is mounted on target. Mounts on one target run
// one at a time.
func (c *Controller) mount(target string, nodes []label.RawNode, edges []label.RawEdge, b *engine.Bundle) (*Handle, error) {
	lock := c.mountLock(target)
	lock.Lock()
	defer lock.Unlock()

	if old := c.registry.Release(target); old != nil {
		c.logger.Debug("replaced widget", "target", target, "old", old.ID)
	}
	h, err := c.build(target, nodes, edges, b)
	if err != nil {
		return nil, err
	}
	c.registry.Add(h)
	return h, nil
}

func (c *Controller) mountLock(target string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.mounts[target]
	if !ok {
		lock = &sync.Mutex{}
		c.mounts[target] = lock
	}
	return lock
}

func (c *Controller) build(target string, raw []label.RawNode, edges []label.RawEdge, b *engine.Bundle) (*Handle, error) {
	if edges == nil {
		edges = []label.RawEdge{}
	}
	store := label.NewStore(label.Prepare(raw))
	opts := DefaultOptions()

	nw, err := c.factory.New(target, store, edges, opts)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		ID:        uuid.New(),
		Target:    target,
		Network:   nw,
		Nodes:     store,
		Edges:     edges,
		Options:   opts,
		Bundle:    b,
		CreatedAt: time.Now(),
	}
	widgetID := h.ID.String()
	nw.OnNodeDoubleClick(func(id label.NodeID) (label.DisplayNode, bool) {
		n, ok := store.Toggle(id)
		if !ok {
			return n, false
		}
		observability.Widget().OnToggle(context.Background(), widgetID, id.String(), n.IsShort)
		c.logger.Debug("toggled node", "widget", widgetID, "node", id, "short", n.IsShort)
		return n, true
	})
	return h, nil
}

// ResolveTarget turns a bare element id into a selector. Selectors and the
// empty string are returned as given.
func ResolveTarget(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || strings.ContainsAny(target[:1], "#.[") {
		return target
	}
	return "#" + target
}
