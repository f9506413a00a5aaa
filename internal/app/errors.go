package app

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by Service operations that need an open pool.
var ErrNotConnected = errors.New("not connected to a database")

// ConfigError represents a configuration error.
type ConfigError struct {
	Cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
