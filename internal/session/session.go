// Package session caches built symbol graphs per project root so
// repeated MCP tool calls against the same project skip the scan.
package session

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/groundkit/ground/pkg/analyzer/symbolgraph"
	"github.com/groundkit/ground/pkg/config"
)

type entry struct {
	graph   *symbolgraph.Graph
	builtAt time.Time
}

// Store holds one built graph per project root.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*entry
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires cached graphs after d. Zero means no expiry; callers
// invalidate explicitly when they know the tree changed.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Graph returns the cached graph for root, building it on first use.
// Path aliases come from the project's tsconfig when present.
func (s *Store) Graph(root string) (*symbolgraph.Graph, error) {
	key, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	key = filepath.Clean(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		if s.ttl == 0 || time.Since(e.builtAt) < s.ttl {
			return e.graph, nil
		}
		delete(s.entries, key)
	}

	aliases, err := config.LoadTsconfigAliases(key)
	if err != nil {
		// A broken tsconfig should not block analysis; the graph just
		// resolves without aliases.
		aliases = nil
	}

	graph, err := symbolgraph.NewBuilder(symbolgraph.WithAliases(aliases)).Build(key)
	if err != nil {
		return nil, err
	}
	s.entries[key] = &entry{graph: graph, builtAt: time.Now()}
	return graph, nil
}

// Invalidate drops the cached graph for root, if any.
func (s *Store) Invalidate(root string) {
	key, err := filepath.Abs(root)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, filepath.Clean(key))
}

// Roots lists the project roots currently cached, sorted.
func (s *Store) Roots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	roots := make([]string, 0, len(s.entries))
	for k := range s.entries {
		roots = append(roots, k)
	}
	sort.Strings(roots)
	return roots
}

// Len reports how many graphs are cached.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
