package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"bcsb-lending/conditions-matrix/pkg/config"
	"bcsb-lending/conditions-matrix/pkg/questionnaire"
	"bcsb-lending/conditions-matrix/pkg/rules"
	"bcsb-lending/conditions-matrix/pkg/telemetry/health"
	"bcsb-lending/conditions-matrix/pkg/telemetry/metrics"
	"bcsb-lending/conditions-matrix/pkg/telemetry/tracing"
)

// BuildInfo is reported by the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Deps are the components the server exposes. Engine and Store are
// required; a nil Metrics disables the metrics endpoint and request
// instrumentation, a nil Tracer records nothing, and a nil Health gets an
// empty checker.
type Deps struct {
	Engine  *rules.Engine
	Store   *questionnaire.Store
	Health  *health.Checker
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer

	MetricsPath string
	Build       BuildInfo
}

// Server is the HTTP front end of the conditions matrix.
type Server struct {
	config     *config.ServerConfig
	deps       Deps
	logger     *slog.Logger
	handler    http.Handler
	httpServer *http.Server

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
}

// NewServer creates a server. A nil logger selects slog.Default.
func NewServer(cfg *config.ServerConfig, deps Deps, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	if deps.Engine == nil {
		return nil, errors.New("rules engine is required")
	}
	if deps.Store == nil {
		return nil, errors.New("session store is required")
	}
	if deps.Health == nil {
		deps.Health = health.New(0)
	}
	if deps.Tracer == nil {
		deps.Tracer = tracing.Noop()
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = config.DefaultMetricsPath
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:       cfg,
		deps:         deps,
		logger:       logger.With("component", "server"),
		shutdownChan: make(chan struct{}),
	}
	s.handler = s.setupRoutes()
	return s, nil
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is
// cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.addr = listener.Addr()
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", listener.Addr().String())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.shutdown()
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		return s.shutdown()
	}
}

// Shutdown asks a running Start to drain and return. It is safe to call
// more than once and before Start.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
	})
}

func (s *Server) shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	var err error
	if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
		s.logger.Error("error during server shutdown", "error", shutdownErr)
		err = fmt.Errorf("server shutdown error: %w", shutdownErr)
	}

	s.isRunning = false
	s.logger.Info("server stopped")
	return err
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listener address once Start is serving, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
