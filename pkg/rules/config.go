package rules

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Default values for Config.
const (
	DefaultUnsecuredCode             = "unsecured"
	DefaultUnsecuredWarningThreshold = 250000
)

// Config contains tunables for the engine.
type Config struct {
	// UnsecuredCode is the collateral code that marks a loan as unsecured.
	// Default: "unsecured".
	UnsecuredCode string

	// UnsecuredWarningThreshold is the amount above which an unsecured loan
	// draws a validation warning.
	// Default: 250000.
	UnsecuredWarningThreshold decimal.Decimal
}

// DefaultConfig returns the engine configuration for the standard commercial
// lending policy.
func DefaultConfig() *Config {
	return &Config{
		UnsecuredCode:             DefaultUnsecuredCode,
		UnsecuredWarningThreshold: decimal.NewFromInt(DefaultUnsecuredWarningThreshold),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.UnsecuredCode == "" {
		return fmt.Errorf("unsecured code must not be empty")
	}
	if c.UnsecuredWarningThreshold.IsNegative() {
		return fmt.Errorf("unsecured warning threshold must not be negative (got %s)", c.UnsecuredWarningThreshold)
	}
	return nil
}
