package catalog

import (
	_ "embed"
	"slices"
	"sync"
)

//go:embed default.yaml
var defaultDocument []byte

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultDocument)
})

// Default returns the built-in commercial lending catalog. The catalog is
// compiled on first use and the same instance is returned afterwards.
func Default() (*Catalog, error) {
	return loadDefault()
}

// DefaultDocument returns a copy of the built-in catalog document.
func DefaultDocument() []byte {
	return slices.Clone(defaultDocument)
}
