package source

import (
	"context"
	"log/slog"

	"bcsb-lending/conditions-matrix/pkg/catalog"
)

// Source loads a rule catalog.
type Source interface {
	// Load reads and compiles the catalog.
	Load(ctx context.Context) (*catalog.Catalog, error)

	// String names the source for logs and error messages.
	String() string
}

// New returns a FileSource for path, or the embedded default catalog when
// path is empty.
func New(path string, logger *slog.Logger) Source {
	if path == "" {
		return NewEmbeddedSource()
	}
	return NewFileSource(path, logger)
}

// EmbeddedSource serves the default catalog compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource creates a source for the default catalog.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

// Load returns the shared default catalog.
func (s *EmbeddedSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return catalog.Default()
}

func (s *EmbeddedSource) String() string {
	return "embedded:default"
}
