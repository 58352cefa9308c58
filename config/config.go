// Package config describes the cache geometry a simulation runs against.
//
// A Config is created once per simulation run and is treated as immutable
// afterwards. Values can be built in code, loaded from a JSON file, or derived
// from the mapping selector strings the interactive front end offers.
package config

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
	"strings"
)

// Associativity values supported by the simulator.
const (
	DirectMapped         = 1
	TwoWaySetAssociative = 2
)

// Config holds the cache geometry parameters.
type Config struct {
	// CacheSize is the total cache capacity in bytes. Default: 16.
	CacheSize int `json:"cache_size"`

	// MemorySize is the size of the addressable memory in bytes. Default: 256.
	MemorySize int `json:"memory_size"`

	// BlockSize is the size of a cache line in bytes. Default: 4.
	BlockSize int `json:"block_size"`

	// Associativity is the number of lines per set, 1 (direct mapped) or 2.
	// Default: 1.
	Associativity int `json:"associativity"`
}

// Default returns the configuration the interactive tool starts with.
func Default() *Config {
	return &Config{
		CacheSize:     16,
		MemorySize:    256,
		BlockSize:     4,
		Associativity: DirectMapped,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse cache config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cache config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache config file: %w", err)
	}

	return nil
}

// Validate checks the geometry invariants. The returned error, if any, is a
// *ConfigurationError naming the offending field.
func (c *Config) Validate() error {
	if !IsPowerOfTwo(c.CacheSize) {
		return NewConfigurationError("cache_size", c.CacheSize, ErrNotPowerOfTwo)
	}
	if !IsPowerOfTwo(c.MemorySize) {
		return NewConfigurationError("memory_size", c.MemorySize, ErrNotPowerOfTwo)
	}
	if !IsPowerOfTwo(c.BlockSize) {
		return NewConfigurationError("block_size", c.BlockSize, ErrNotPowerOfTwo)
	}
	if c.Associativity != DirectMapped && c.Associativity != TwoWaySetAssociative {
		return NewConfigurationError("associativity", c.Associativity,
			ErrUnsupportedAssociativity)
	}
	if c.BlockSize > c.CacheSize {
		return NewConfigurationError("block_size", c.BlockSize, ErrBlockLargerThanCache)
	}
	if c.CacheSize > c.MemorySize {
		return NewConfigurationError("cache_size", c.CacheSize, ErrCacheLargerThanMemory)
	}
	if c.CacheSize%(c.Associativity*c.BlockSize) != 0 {
		return NewConfigurationError("cache_size", c.CacheSize, ErrNotDivisible)
	}
	return nil
}

// NumSets returns the number of sets (lines, for a direct-mapped cache).
func (c *Config) NumSets() int {
	return c.CacheSize / (c.Associativity * c.BlockSize)
}

// MappingName returns the display name of the configured mapping.
func (c *Config) MappingName() string {
	switch c.Associativity {
	case DirectMapped:
		return "Direct Mapping"
	case TwoWaySetAssociative:
		return "2-Way Set Associative"
	default:
		return fmt.Sprintf("%d-Way Set Associative", c.Associativity)
	}
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	return &Config{
		CacheSize:     c.CacheSize,
		MemorySize:    c.MemorySize,
		BlockSize:     c.BlockSize,
		Associativity: c.Associativity,
	}
}

// ParseMapping converts a mapping selector into an associativity. It accepts
// the front end's combobox labels as well as short forms.
func ParseMapping(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct mapping", "direct", "dm", "1", "1-way":
		return DirectMapped, nil
	case "2-way set associative", "2-way", "2way", "set-associative", "2":
		return TwoWaySetAssociative, nil
	}
	return 0, fmt.Errorf("unknown cache mapping %q", s)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns the base-2 logarithm of a positive power of two.
func Log2(n int) int {
	return bits.TrailingZeros64(uint64(n))
}
