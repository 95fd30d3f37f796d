package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bcsb-lending/conditions-matrix/pkg/catalog"
)

// FileSource loads a catalog document from a YAML file on disk.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a new file-based catalog source.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads, validates and compiles the catalog file.
func (s *FileSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog %q: %w", s.path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("catalog path %q is a directory", s.path)
	}

	cat, err := catalog.ParseFile(s.path)
	if err != nil {
		return nil, err
	}

	s.logger.Info("loaded catalog from file",
		"path", s.path,
		"name", cat.Name(),
		"version", cat.Version(),
		"loan_types", len(cat.Codes(catalog.TableLoanTypes)),
		"amount_buckets", len(cat.Codes(catalog.TableAmountBuckets)),
	)

	return cat, nil
}

func (s *FileSource) String() string {
	return "file:" + s.path
}
