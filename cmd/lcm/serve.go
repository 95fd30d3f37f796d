package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"bcsb-lending/conditions-matrix/pkg/cli"
	"bcsb-lending/conditions-matrix/pkg/config"
	"bcsb-lending/conditions-matrix/pkg/questionnaire"
	"bcsb-lending/conditions-matrix/pkg/rules"
	"bcsb-lending/conditions-matrix/pkg/server"
	"bcsb-lending/conditions-matrix/pkg/telemetry/health"
	"bcsb-lending/conditions-matrix/pkg/telemetry/metrics"
	"bcsb-lending/conditions-matrix/pkg/telemetry/tracing"
)

// tracerFlushTimeout bounds the final span export on shutdown.
const tracerFlushTimeout = 5 * time.Second

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Start the HTTP API with questionnaire sessions, one-shot evaluation,
health probes and Prometheus metrics. Requests are traced with
OpenTelemetry when telemetry.tracing.enabled is set.

Idle sessions are expired by a background sweep. The server drains
in-flight requests on SIGINT or SIGTERM.

Examples:
  # Start with default config
  lcm serve

  # Override listen address
  lcm serve --listen 0.0.0.0:8080

  # Validate config and catalog without starting the server
  lcm serve --dry-run`,
	RunE: serveAPI,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and catalog without starting the server")
}

// app is the set of components behind the HTTP API.
type app struct {
	server  *server.Server
	sweeper *questionnaire.Sweeper
	tracer  *tracing.Tracer
	logger  *slog.Logger
}

// close flushes spans that are still buffered.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), tracerFlushTimeout)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

func serveAPI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("flags", err.Error())
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := cli.WithSignals(commandContext(cmd))
	defer stop()

	a, err := buildApp(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "lcm %s listening on %s\n", Version, cfg.Server.ListenAddress)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Start(ctx)
	})
	g.Go(func() error {
		if err := a.sweeper.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		a.sweeper.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

// buildApp wires catalog, engine, session store, metrics, tracing and health
// checks into a server.
func buildApp(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*app, error) {
	cat, err := loadCatalog(commandContext(cmd), cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		collector   *metrics.Collector
		rulesObs    rules.Observer
		sessionsObs questionnaire.Observer
	)
	if cfg.MetricsEnabled() {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		collector.RegisterRuntime()
		rulesObs, sessionsObs = collector, collector
	}

	engine, err := rules.NewEngine(cat, cfg.Rules.EngineConfig(), logger, rulesObs)
	if err != nil {
		return nil, fmt.Errorf("failed to create rules engine: %w", err)
	}

	store := questionnaire.NewStore(questionnaire.DefaultQuestions(), logger, sessionsObs)
	store.SetLimit(cfg.Session.MaxSessions)
	if collector != nil {
		collector.WatchSessions(store.Len)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	checker := health.New(0)
	checker.RegisterCheck("catalog", health.CatalogCheck(cat))
	checker.RegisterCheck("sessions", health.SessionCapacityCheck(store.Len, cfg.Session.MaxSessions))

	srv, err := server.NewServer(&cfg.Server, server.Deps{
		Engine:      engine,
		Store:       store,
		Health:      checker,
		Metrics:     collector,
		Tracer:      tracer,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	}, logger)
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		return nil, err
	}

	return &app{
		server:  srv,
		sweeper: questionnaire.NewSweeper(store, cfg.Session.SweeperConfig(), logger),
		tracer:  tracer,
		logger:  logger,
	}, nil
}
