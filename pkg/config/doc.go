// Package config provides configuration management for the loan conditions
// matrix service and CLI.
//
// Configuration is loaded from a YAML file, completed with defaults,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// The file is optional when Load is given an empty path; defaults and
// environment overrides still apply.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LCM_SECTION_FIELD:
//
//   - LCM_CATALOG_PATH overrides catalog.path
//   - LCM_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - LCM_SESSION_TIMEOUT overrides session.timeout
//   - LCM_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - LCM_TELEMETRY_TRACING_ENABLED overrides telemetry.tracing.enabled
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// There is no global configuration instance; callers pass *Config to the
// components that need it.
//
// # Validation
//
// All problems are collected and reported together with their field paths:
//
//	configuration validation failed with 2 errors:
//	  - server.listen_address: must be in host:port format
//	  - session.timeout: must be positive
//
// # Example Configuration
//
//	catalog:
//	  path: "./policy/catalog.yaml"
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	session:
//	  timeout: "30m"
//	  sweep_interval: "1m"
//
//	rules:
//	  unsecured_code: "unsecured"
//	  unsecured_warning_threshold: 250000
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//	  tracing:
//	    enabled: true
//	    sampler: "ratio"
//	    sample_ratio: 0.1
//	    endpoint: "localhost:4317"
//	    insecure: true
package config
