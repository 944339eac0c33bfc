package label

import "sync"

// subscriberBuffer is the per-subscriber update backlog. Subscribers that
// fall further behind miss updates.
const subscriberBuffer = 64

// Store is the live node collection of one widget.
//
// Records keep their input order. All methods are safe for concurrent use;
// a toggle is applied and published atomically with respect to other
// store operations.
type Store struct {
	mu     sync.RWMutex
	order  []NodeID
	nodes  map[NodeID]*DisplayNode
	subs   map[chan Update]struct{}
	closed bool
}

// NewStore builds a store from prepared nodes. Later duplicates of an id
// replace earlier ones in place.
func NewStore(nodes []DisplayNode) *Store {
	s := &Store{
		order: make([]NodeID, 0, len(nodes)),
		nodes: make(map[NodeID]*DisplayNode, len(nodes)),
		subs:  make(map[chan Update]struct{}),
	}
	for i := range nodes {
		n := nodes[i]
		if _, ok := s.nodes[n.ID]; !ok {
			s.order = append(s.order, n.ID)
		}
		s.nodes[n.ID] = &n
	}
	return s
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get returns a copy of the node with the given id.
func (s *Store) Get(id NodeID) (DisplayNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return DisplayNode{}, false
	}
	return *n, true
}

// All returns copies of every node in input order.
func (s *Store) All() []DisplayNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DisplayNode, len(s.order))
	for i, id := range s.order {
		out[i] = *s.nodes[id]
	}
	return out
}

// Toggle flips the displayed label of the node with the given id and
// returns the updated record. Unknown ids are a no-op and report false.
func (s *Store) Toggle(id NodeID) (DisplayNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return DisplayNode{}, false
	}
	Toggle(n)
	s.publish(Update{ID: n.ID, Label: n.Label, IsShort: n.IsShort})
	return *n, true
}

// publish must be called with mu held.
func (s *Store) publish(u Update) {
	for ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Subscribe returns a channel receiving every subsequent toggle, and a
// function that unsubscribes and closes it. On a closed store the channel
// is returned already closed.
func (s *Store) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, subscriberBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Close ends every subscription. Reads and toggles keep working.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
}
