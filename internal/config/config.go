// Package config holds the tunable knobs that sit above the core parser
// layers: block size, sanity caps on xref size, and the concurrency width
// of a directory sweep. None of these affect the parser's wire-level
// semantics; they bound resource use and driver policy.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config validates with go-playground/validator struct tags, the same
// pattern used for the parsing knobs of the source this package's xref
// size cap and worker-count defaults are modeled on.
type Config struct {
	// BlockSize is the I/O block size internal/bytesource reads in.
	BlockSize int `validate:"min=256"`

	// MaxXRefEntries caps the total number of xref entries a single
	// classic xref section or xref stream may populate, guarding against
	// a corrupt /Size driving unbounded allocation.
	MaxXRefEntries int `validate:"min=1"`

	// MaxConcurrentFiles bounds the worker pool width of `pdflayer scan`.
	MaxConcurrentFiles int `validate:"min=1,max=64"`

	// StrictMode, when true, makes the CLI driver abort a walk on the
	// first Token/PdfObject error value instead of logging and
	// continuing. It is a driver-level policy, not a core parser
	// behavior change.
	StrictMode bool
}

// NewDefaultConfig returns the parser's default operating parameters.
func NewDefaultConfig() *Config {
	return &Config{
		BlockSize:          8192,
		MaxXRefEntries:     10_000_000,
		MaxConcurrentFiles: 5,
		StrictMode:         false,
	}
}

// Validate checks the configuration against its struct-tag constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}
