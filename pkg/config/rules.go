package config

import (
	"github.com/shopspring/decimal"

	"bcsb-lending/conditions-matrix/pkg/questionnaire"
	"bcsb-lending/conditions-matrix/pkg/rules"
)

// EngineConfig converts the rules section for rules.NewEngine.
func (c RulesConfig) EngineConfig() *rules.Config {
	return &rules.Config{
		UnsecuredCode:             c.UnsecuredCode,
		UnsecuredWarningThreshold: decimal.NewFromFloat(c.UnsecuredWarningThreshold),
	}
}

// SweeperConfig converts the session section for questionnaire.NewSweeper.
func (c SessionConfig) SweeperConfig() questionnaire.SweeperConfig {
	return questionnaire.SweeperConfig{
		Timeout:  c.Timeout,
		Interval: c.SweepInterval,
	}
}
