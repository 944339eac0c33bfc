package widget

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/graphwidget/pkg/errors"
)

// Registry tracks live widgets by id, at most one per mount point.
type Registry struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*Handle
	byTarget map[string]uuid.UUID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[uuid.UUID]*Handle),
		byTarget: make(map[string]uuid.UUID),
	}
}

// Add registers h. A widget previously mounted on h.Target is closed,
// removed and returned.
func (r *Registry) Add(h *Handle) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var old *Handle
	if id, ok := r.byTarget[h.Target]; ok && id != h.ID {
		old = r.byID[id]
		delete(r.byID, id)
		old.Close()
	}
	r.byID[h.ID] = h
	r.byTarget[h.Target] = h.ID
	return old
}

// Release closes and forgets the widget mounted on target, returning it.
// It returns nil when the target is free.
func (r *Registry) Release(target string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byTarget[target]
	if !ok {
		return nil
	}
	h := r.byID[id]
	delete(r.byID, id)
	delete(r.byTarget, target)
	h.Close()
	return h
}

// Get returns the widget with the given id.
func (r *Registry) Get(id uuid.UUID) (*Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byID[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeWidgetNotFound, "widget %s not found", id)
	}
	return h, nil
}

// Lookup parses id and returns the matching widget.
func (r *Registry) Lookup(id string) (*Handle, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWidgetNotFound, err, "widget %q not found", id)
	}
	return r.Get(u)
}

// ByTarget returns the widget mounted on target.
func (r *Registry) ByTarget(target string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byTarget[target]
	if !ok {
		return nil, false
	}
	return r.byID[id], true
}

// Remove closes and forgets the widget with the given id.
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return errors.New(errors.ErrCodeWidgetNotFound, "widget %s not found", id)
	}
	delete(r.byID, id)
	if r.byTarget[h.Target] == id {
		delete(r.byTarget, h.Target)
	}
	h.Close()
	return nil
}

// List returns all widgets, oldest first.
func (r *Registry) List() []*Handle {
	r.mu.RLock()
	out := make([]*Handle, 0, len(r.byID))
	for _, h := range r.byID {
		out = append(out, h)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of live widgets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Close closes every widget.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.byID {
		h.Close()
		delete(r.byID, id)
	}
	clear(r.byTarget)
}
