package config

import "time"

// Config is the root configuration.
type Config struct {
	// Catalog selects the rule catalog.
	Catalog CatalogConfig `yaml:"catalog"`

	// Server contains HTTP API settings.
	Server ServerConfig `yaml:"server"`

	// Session contains questionnaire session settings.
	Session SessionConfig `yaml:"session"`

	// Rules contains rule engine tunables.
	Rules RulesConfig `yaml:"rules"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CatalogConfig selects the rule catalog.
type CatalogConfig struct {
	// Path is a catalog YAML file. Empty selects the embedded default
	// catalog.
	Path string `yaml:"path"`

	// Strict makes catalog lint warnings fatal at load time.
	// Default: false
	Strict bool `yaml:"strict"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the host:port the API listens on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits request bodies.
	// Default: 65536
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// SessionConfig contains questionnaire session settings.
type SessionConfig struct {
	// Timeout is how long a session may stay idle before it expires.
	// Default: 30m
	Timeout time.Duration `yaml:"timeout"`

	// SweepInterval is how often idle sessions are removed.
	// Default: 1m
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// MaxSessions caps concurrently stored sessions (0 = unlimited).
	// Default: 0
	MaxSessions int `yaml:"max_sessions"`
}

// RulesConfig contains rule engine tunables.
type RulesConfig struct {
	// UnsecuredCode is the collateral code that marks a loan as unsecured.
	// Default: "unsecured"
	UnsecuredCode string `yaml:"unsecured_code"`

	// UnsecuredWarningThreshold is the amount above which an unsecured
	// loan draws a warning.
	// Default: 250000
	UnsecuredWarningThreshold float64 `yaml:"unsecured_warning_threshold"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "lcm"
	Namespace string `yaml:"namespace"`
}

// MetricsEnabled reports whether metrics are enabled.
func (c *Config) MetricsEnabled() bool {
	return c.Telemetry.Metrics.Enabled == nil || *c.Telemetry.Metrics.Enabled
}

// TracingConfig contains OpenTelemetry settings. Spans are exported over
// OTLP/gRPC.
type TracingConfig struct {
	// Enabled controls whether spans are recorded and exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler is the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP collector address (host:port).
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "lcm"
	ServiceName string `yaml:"service_name"`
}
