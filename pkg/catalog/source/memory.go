package source

import (
	"context"
	"sync"

	"bcsb-lending/conditions-matrix/pkg/catalog"
)

// MemorySource compiles a catalog from an in-memory document (for testing).
type MemorySource struct {
	mu  sync.RWMutex
	doc []byte
}

// NewMemorySource creates a source for the given YAML document.
func NewMemorySource(doc []byte) *MemorySource {
	return &MemorySource{doc: append([]byte(nil), doc...)}
}

// Load parses and compiles the stored document.
func (s *MemorySource) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Parse(s.doc)
}

// SetDocument replaces the stored document. Catalogs already loaded are not
// affected.
func (s *MemorySource) SetDocument(doc []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = append([]byte(nil), doc...)
}

func (s *MemorySource) String() string {
	return "memory"
}
