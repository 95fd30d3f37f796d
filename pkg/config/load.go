package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "LCM_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// Load is LoadConfigWithEnvOverrides for a non-empty path. For an empty
// path it starts from defaults and applies only environment overrides.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}

	cfg := Default()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies LCM_SECTION_FIELD overrides. Unparseable values
// are reported as field errors rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	str := func(name string, dst *string) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			*dst = val
		}
	}
	boolean := func(name, field string, set func(bool)) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("invalid boolean %q in %s%s", val, EnvPrefix, name)})
				return
			}
			set(b)
		}
	}
	duration := func(name, field string, dst *time.Duration) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("invalid duration %q in %s%s", val, EnvPrefix, name)})
				return
			}
			*dst = d
		}
	}
	integer := func(name, field string, dst *int) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("invalid integer %q in %s%s", val, EnvPrefix, name)})
				return
			}
			*dst = i
		}
	}

	// Catalog overrides
	str("CATALOG_PATH", &cfg.Catalog.Path)
	boolean("CATALOG_STRICT", "catalog.strict", func(b bool) { cfg.Catalog.Strict = b })

	// Server overrides
	str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	duration("SERVER_READ_TIMEOUT", "server.read_timeout", &cfg.Server.ReadTimeout)
	duration("SERVER_WRITE_TIMEOUT", "server.write_timeout", &cfg.Server.WriteTimeout)
	duration("SERVER_IDLE_TIMEOUT", "server.idle_timeout", &cfg.Server.IdleTimeout)
	duration("SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout", &cfg.Server.ShutdownTimeout)

	// Session overrides
	duration("SESSION_TIMEOUT", "session.timeout", &cfg.Session.Timeout)
	duration("SESSION_SWEEP_INTERVAL", "session.sweep_interval", &cfg.Session.SweepInterval)
	integer("SESSION_MAX_SESSIONS", "session.max_sessions", &cfg.Session.MaxSessions)

	// Rules overrides
	str("RULES_UNSECURED_CODE", &cfg.Rules.UnsecuredCode)
	if val := os.Getenv(EnvPrefix + "RULES_UNSECURED_WARNING_THRESHOLD"); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			errs = append(errs, FieldError{Field: "rules.unsecured_warning_threshold", Message: fmt.Sprintf("invalid number %q in %sRULES_UNSECURED_WARNING_THRESHOLD", val, EnvPrefix)})
		} else {
			cfg.Rules.UnsecuredWarningThreshold = f
		}
	}

	// Telemetry overrides
	str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	boolean("TELEMETRY_LOGGING_ADD_SOURCE", "telemetry.logging.add_source", func(b bool) { cfg.Telemetry.Logging.AddSource = b })
	boolean("TELEMETRY_METRICS_ENABLED", "telemetry.metrics.enabled", func(b bool) { cfg.Telemetry.Metrics.Enabled = &b })
	str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	boolean("TELEMETRY_TRACING_ENABLED", "telemetry.tracing.enabled", func(b bool) { cfg.Telemetry.Tracing.Enabled = b })
	str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment override: %w", ValidationError{Errors: errs})
	}
	return nil
}
