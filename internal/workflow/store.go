package workflow

import "sync"

// Store holds the registered workflow graphs, keyed by registration id.
//
// Bus handlers look the graph up on every event rather than capturing a
// snapshot, so replacing a graph under the same id takes effect on the
// next event without re-registration.
//
// Thread-safety: all methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	graphs map[string]*Graph
}

// NewStore creates an empty workflow store.
func NewStore() *Store {
	return &Store{graphs: make(map[string]*Graph)}
}

// Put registers or replaces the graph under the given id.
func (s *Store) Put(id string, g *Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[id] = g
}

// Get returns the current graph for an id.
func (s *Store) Get(id string) (*Graph, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[id]
	return g, ok
}

// Delete removes a graph. Missing ids are a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, id)
}

// Len returns the number of registered graphs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.graphs)
}
