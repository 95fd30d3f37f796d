package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodeDocument decodes a YAML catalog document. Unknown fields are
// rejected so that misspelled table names surface as errors instead of
// silently empty tables.
func DecodeDocument(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("failed to decode catalog document: %w", err)
	}
	return &doc, nil
}

// Parse decodes and compiles a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// ReadDocument reads and decodes a catalog document from disk.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}
	return doc, nil
}

// ParseFile reads, decodes and compiles a catalog document from disk.
func ParseFile(path string) (*Catalog, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	cat, err := Compile(doc)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}
	return cat, nil
}
