package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bcsb-lending/conditions-matrix/pkg/catalog"
	"bcsb-lending/conditions-matrix/pkg/catalog/source"
	"bcsb-lending/conditions-matrix/pkg/cli"
	"bcsb-lending/conditions-matrix/pkg/config"
	"bcsb-lending/conditions-matrix/pkg/rules"
	"bcsb-lending/conditions-matrix/pkg/telemetry/logging"
)

// loadConfig loads the config file named by --config. The default file is
// optional; an explicitly named one must exist. --catalog overrides the
// configured catalog path.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == defaultConfigFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	return cfg, nil
}

// newLogger builds the command logger. --verbose forces debug level.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	lc := logging.FromConfig(cfg.Telemetry.Logging, w)
	if verbose {
		lc.Level = "debug"
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}

// loadCatalog loads the configured catalog. In strict mode a file catalog
// with lint warnings is rejected.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	src := source.New(cfg.Catalog.Path, logger)
	cat, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", src, err)
	}

	if cfg.Catalog.Strict && cfg.Catalog.Path != "" {
		doc, err := catalog.ReadDocument(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		if issues := catalog.Lint(doc); len(issues) > 0 {
			return nil, fmt.Errorf("%w: catalog %s has %d lint issues in strict mode (first: %s)",
				cli.ErrInvalid, cfg.Catalog.Path, len(issues), issues[0].Error())
		}
	}

	logger.Debug("catalog loaded", "source", src.String(), "name", cat.Name(), "version", cat.Version())
	return cat, nil
}

// newEngine loads config, logger, catalog and engine for one-shot commands.
func newEngine(cmd *cobra.Command) (*rules.Engine, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(commandContext(cmd), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	engine, err := rules.NewEngine(cat, cfg.Rules.EngineConfig(), logger, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create rules engine: %w", err)
	}
	return engine, logger, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
