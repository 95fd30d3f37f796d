// Package source provides catalog sources.
//
// A source loads a compiled rule catalog. The catalog is loaded once at
// startup and is never reloaded into a running engine.
//
// # Embedded Source
//
// The embedded source returns the default commercial lending policy
// compiled into the binary:
//
//	src := source.NewEmbeddedSource()
//	cat, err := src.Load(ctx)
//
// # File Source
//
// The file source loads a catalog document from a local YAML file:
//
//	src := source.NewFileSource("policy/catalog.yaml", logger)
//	cat, err := src.Load(ctx)
//
// New picks the file source for a non-empty path and the embedded source
// otherwise.
//
// # Watching
//
// Watcher re-runs a callback when a catalog file changes on disk. It backs
// the lint tool's watch mode, which re-validates a document while it is
// being edited:
//
//	w, err := source.NewWatcher(&source.WatcherConfig{Path: path}, logger)
//	err = w.Watch(ctx, func() error { return lint(path) })
//
// # In-Memory Source
//
// The in-memory source is useful for testing:
//
//	src := source.NewMemorySource(doc)
//	cat, err := src.Load(ctx)
package source
