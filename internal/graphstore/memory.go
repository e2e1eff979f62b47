package graphstore

import (
	"context"
	"sync"

	"github.com/Snickdx/project-graph/internal/ragerrors"
)

// MemoryStore is a deterministic in-process QueryStore holding canned results
// per query text. It is selected explicitly by configuration (GRAPH_STORE=
// memory) for demos, or constructed directly in tests. It is never swapped in
// at runtime when the live store fails.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]Result
	errs    map[string]string
}

var _ QueryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store. Unknown queries return an
// empty result, not an error.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]Result),
		errs:    make(map[string]string),
	}
}

// Add registers a canned result for the exact query text.
func (s *MemoryStore) Add(query string, result Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[query] = result
}

// AddError makes the exact query text fail with an ExecutionError.
func (s *MemoryStore) AddError(query, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[query] = message
}

// Run returns the canned result for the query, an ExecutionError if one was
// registered, or an empty result for unknown queries.
func (s *MemoryStore) Run(_ context.Context, query string) (Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if msg, ok := s.errs[query]; ok {
		return Result{}, ragerrors.NewExecutionError(query, msg)
	}

	if result, ok := s.results[query]; ok {
		return result, nil
	}

	return Result{}, nil
}
