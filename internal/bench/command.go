// SPDX-License-Identifier: MPL-2.0

// Package bench assembles benchmark command lines and parametrized sweep
// definitions for the fusion-blossom decoder.
package bench

import (
	"errors"
	"strconv"
)

var (
	// ErrMissingDistance is returned when a command is built without a code
	// distance. D is a precondition, not a defaultable parameter.
	ErrMissingDistance = errors.New("benchmark params: d (code distance) is required")

	// ErrMissingErrorRate is returned when a command is built without an
	// error probability.
	ErrMissingErrorRate = errors.New("benchmark params: p (error probability) is required")
)

// Params are the inputs of one benchmark invocation. D and P are required;
// the optional pairs mirror the executable's -r and -n flags, with the long
// name taking priority over its short alias when both are set.
type Params struct {
	// D is the code distance.
	D int
	// P is the physical error probability.
	P float64
	// TotalRounds is the number of benchmark rounds (-r). Wins over R.
	TotalRounds *int
	// R is the short alias for TotalRounds.
	R *int
	// NoisyMeasurements is the noisy measurement count (-n). Wins over N.
	NoisyMeasurements *int
	// N is the short alias for NoisyMeasurements.
	N *int
}

// Command assembles the argument vector for one benchmark invocation:
//
//	<exe> benchmark <d> <p> [-r <rounds>] [-n <noisy_measurements>]
func (p Params) Command(exePath string) ([]string, error) {
	if p.D <= 0 {
		return nil, ErrMissingDistance
	}
	if p.P <= 0 {
		return nil, ErrMissingErrorRate
	}

	command := []string{exePath, "benchmark", strconv.Itoa(p.D), FormatErrorRate(p.P)}

	switch {
	case p.TotalRounds != nil:
		command = append(command, "-r", strconv.Itoa(*p.TotalRounds))
	case p.R != nil:
		command = append(command, "-r", strconv.Itoa(*p.R))
	}

	switch {
	case p.NoisyMeasurements != nil:
		command = append(command, "-n", strconv.Itoa(*p.NoisyMeasurements))
	case p.N != nil:
		command = append(command, "-n", strconv.Itoa(*p.N))
	}

	return command, nil
}

// FormatErrorRate renders an error probability the way it appears on the
// command line and in log file names (0.01 stays "0.01", never "1e-02").
func FormatErrorRate(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}
