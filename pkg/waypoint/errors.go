package waypoint

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration problems.
var (
	// ErrUnknownButton indicates a binding names a button that does not exist.
	ErrUnknownButton = errors.New("unknown virtual button")

	// ErrUnknownKey indicates a configuration file contains a key waypoint
	// does not read, usually a typo.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// ConfigError reports a configuration that could not be loaded or applied.
// These errors happen at startup, before any dispatch.
type ConfigError struct {
	Op  string // Operation that failed (e.g., "load_config", "bindings")
	Err error  // Underlying error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("waypoint: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("waypoint: %s", e.Op)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error.
func NewConfigError(op string, err error) *ConfigError {
	return &ConfigError{Op: op, Err: err}
}

// IsConfigError checks if an error is a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
