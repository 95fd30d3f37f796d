package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the lcm command.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
	ExitInvalid = 3
)

// ConfigError represents an error in configuration or flags.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ErrInvalid reports that a command ran but its subject failed validation,
// such as a catalog with lint errors or an answer set outside policy limits.
var ErrInvalid = errors.New("validation failed")

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var configErr *ConfigError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &configErr):
		return ExitConfig
	case errors.Is(err, ErrInvalid):
		return ExitInvalid
	default:
		return ExitFailure
	}
}
