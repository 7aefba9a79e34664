package importgraph

import (
	"context"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]FileNode
	order []string // file insertion order
	edges []ImportEdge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		files: make(map[string]FileNode),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddFile stores a file node keyed by its path.
func (m *MemStore) AddFile(_ context.Context, node FileNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.files[node.Path]; !exists {
		m.order = append(m.order, node.Path)
	}
	m.files[node.Path] = node
	return nil
}

// AddEdge appends an edge to the internal slice.
func (m *MemStore) AddEdge(_ context.Context, edge ImportEdge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
	return nil
}

// GetFile returns the file node for the given path, or nil if not found.
func (m *MemStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// Files returns all file nodes in insertion order.
func (m *MemStore) Files(_ context.Context) ([]FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FileNode, 0, len(m.order))
	for _, path := range m.order {
		out = append(out, m.files[path])
	}
	return out, nil
}

// Edges returns all import edges.
func (m *MemStore) Edges(_ context.Context) ([]ImportEdge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ImportEdge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// Dependents walks reverse import edges breadth-first from path.
func (m *MemStore) Dependents(_ context.Context, path string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		maxDepth = 10
	}

	m.mu.RLock()
	importers := make(map[string][]string)
	for _, e := range m.edges {
		importers[e.To] = append(importers[e.To], e.From)
	}
	m.mu.RUnlock()

	type bfsEntry struct {
		path  string
		depth int
	}
	visited := map[string]bool{path: true}
	queue := []bfsEntry{{path: path, depth: 0}}
	var out []string

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, dep := range importers[cur.path] {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			out = append(out, dep)
			queue = append(queue, bfsEntry{path: dep, depth: cur.depth + 1})
		}
	}
	return out, nil
}

// Stats returns counts of stored files and edges.
func (m *MemStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Stats{
		FileCount: len(m.files),
		EdgeCount: len(m.edges),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
