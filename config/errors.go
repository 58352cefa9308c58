package config

import (
	"errors"
	"fmt"
)

// Invariants a Config can violate.
var (
	ErrNotPowerOfTwo            = errors.New("must be a positive power of two")
	ErrUnsupportedAssociativity = errors.New("associativity must be 1 or 2")
	ErrBlockLargerThanCache     = errors.New("block size must not exceed cache size")
	ErrCacheLargerThanMemory    = errors.New("cache size must not exceed memory size")
	ErrNotDivisible             = errors.New(
		"cache size must be divisible by associativity times block size")
)

// ConfigurationError reports a configuration value that breaks one of the
// geometry invariants. No simulation is attempted once one is returned.
type ConfigurationError struct {
	Field string
	Value int
	Err   error
}

// NewConfigurationError creates a ConfigurationError.
func NewConfigurationError(field string, value int, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Err: err}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
