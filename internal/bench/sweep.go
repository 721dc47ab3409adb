// SPDX-License-Identifier: MPL-2.0

package bench

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrEmptySweep is returned when a sweep definition has no distances or
	// no error rates: the cartesian product would be empty.
	ErrEmptySweep = errors.New("sweep must list at least one distance and one error rate")
)

// Sweep is a parametrized benchmark sweep: every code distance is run
// against every error probability, with shared round/measurement settings.
// Definitions live in TOML files:
//
//	name = "surface-code-scaling"
//	out_dir = "logs"
//	distances = [3, 5, 7]
//	error_rates = [0.005, 0.01]
//	total_rounds = 1000
//	noisy_measurements = 3
type Sweep struct {
	// Name labels the sweep in logs.
	Name string `toml:"name"`
	// OutDir is where per-point log files are written. Defaults to ".".
	OutDir string `toml:"out_dir"`
	// Distances are the code distances to sweep.
	Distances []int `toml:"distances"`
	// ErrorRates are the physical error probabilities to sweep.
	ErrorRates []float64 `toml:"error_rates"`
	// TotalRounds, if set, is passed as -r to every point.
	TotalRounds *int `toml:"total_rounds"`
	// NoisyMeasurements, if set, is passed as -n to every point.
	NoisyMeasurements *int `toml:"noisy_measurements"`
}

// LoadSweep reads and validates a TOML sweep definition.
func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sweep definition: %w", err)
	}

	var s Sweep
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sweep definition %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("sweep definition %s: %w", path, err)
	}
	if s.OutDir == "" {
		s.OutDir = "."
	}
	return &s, nil
}

// Validate checks the sweep can produce at least one point with valid
// parameters.
func (s *Sweep) Validate() error {
	if len(s.Distances) == 0 || len(s.ErrorRates) == 0 {
		return ErrEmptySweep
	}
	for _, d := range s.Distances {
		if d <= 0 {
			return fmt.Errorf("distances: %d: %w", d, ErrMissingDistance)
		}
	}
	for _, p := range s.ErrorRates {
		if p <= 0 {
			return fmt.Errorf("error_rates: %v: %w", p, ErrMissingErrorRate)
		}
	}
	return nil
}

// Points expands the sweep into its cartesian product, distances outer and
// error rates inner, in definition order.
func (s *Sweep) Points() []Params {
	points := make([]Params, 0, len(s.Distances)*len(s.ErrorRates))
	for _, d := range s.Distances {
		for _, p := range s.ErrorRates {
			points = append(points, Params{
				D:                 d,
				P:                 p,
				TotalRounds:       s.TotalRounds,
				NoisyMeasurements: s.NoisyMeasurements,
			})
		}
	}
	return points
}

// LogFileName names the per-point profile log, e.g. "d5-p0.01.log".
func LogFileName(p Params) string {
	return fmt.Sprintf("d%d-p%s.log", p.D, FormatErrorRate(p.P))
}
