// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSkipCount is the sentinel error wrapped by InvalidSkipCountError.
	ErrInvalidSkipCount = errors.New("invalid skip count")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config holds the driver configuration.
	Config struct {
		// SkipBeginProfiles is the number of leading profile entries
		// discarded as warm-up when parsing a log.
		SkipBeginProfiles int `json:"skip_begin_profiles" mapstructure:"skip_begin_profiles"`
		// ProjectRoot pins the fusion-blossom checkout; empty means
		// "discover via git".
		ProjectRoot string `json:"project_root" mapstructure:"project_root"`
		// Build configures the compilation step.
		Build BuildConfig `json:"build" mapstructure:"build"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// BuildConfig configures the release build of the decoder.
	BuildConfig struct {
		// ManuallyCompiled marks the executable as built out-of-band, so the
		// driver never compiles. Set by MANUALLY_COMPILE_QEC=TRUE.
		ManuallyCompiled bool `json:"manually_compiled" mapstructure:"manually_compiled"`
		// EnableUnsafePointer builds with the unsafe_pointer feature.
		// Set by FUSION_BLOSSOM_ENABLE_UNSAFE_POINTER=TRUE.
		EnableUnsafePointer bool `json:"enable_unsafe_pointer" mapstructure:"enable_unsafe_pointer"`
		// ExtraArgs are appended to every build invocation.
		ExtraArgs []string `json:"extra_args" mapstructure:"extra_args"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// InvalidSkipCountError is returned when skip_begin_profiles is negative.
	// It wraps ErrInvalidSkipCount for errors.Is() compatibility.
	InvalidSkipCountError struct {
		Value int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface for InvalidSkipCountError.
func (e *InvalidSkipCountError) Error() string {
	return fmt.Sprintf("invalid skip count %d (must be >= 0)", e.Value)
}

// Unwrap returns ErrInvalidSkipCount for errors.Is() compatibility.
func (e *InvalidSkipCountError) Unwrap() error { return ErrInvalidSkipCount }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the Config has valid fields, and a list of
// validation errors if it does not. Bool and string fields need no
// validation; the skip count must be non-negative.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.SkipBeginProfiles < 0 {
		errs = append(errs, &InvalidSkipCountError{Value: c.SkipBeginProfiles})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SkipBeginProfiles: 5,
		ProjectRoot:       "", // discovered via git when empty
		Build: BuildConfig{
			ManuallyCompiled:    false,
			EnableUnsafePointer: false,
			ExtraArgs:           []string{},
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}
