// SPDX-License-Identifier: MPL-2.0

package profile

import "errors"

var (
	// ErrNoEntries is returned by the per-entry averages when the profile
	// retained no entries. "No data" must surface as an error, never as a
	// zero latency.
	ErrNoEntries = errors.New("profile has no entries")

	// ErrNoSyndromes is returned by AverageDecodingTimePerSyndrome when the
	// retained entries decoded zero syndromes in total.
	ErrNoSyndromes = errors.New("profile entries decoded no syndromes")
)

// SumDecodingTime returns the total decoding latency across all retained
// entries, in seconds.
func (p *Profile) SumDecodingTime() float64 {
	var total float64
	for _, entry := range p.Entries {
		total += entry.DecodingTime
	}
	return total
}

// AverageDecodingTime returns the mean decoding latency per round.
func (p *Profile) AverageDecodingTime() (float64, error) {
	if len(p.Entries) == 0 {
		return 0, ErrNoEntries
	}
	return p.SumDecodingTime() / float64(len(p.Entries)), nil
}

// SumSyndromeNum returns the total number of syndromes decoded across all
// retained entries.
func (p *Profile) SumSyndromeNum() int64 {
	var total int64
	for _, entry := range p.Entries {
		total += entry.SyndromeNum
	}
	return total
}

// AverageDecodingTimePerSyndrome returns the mean decoding latency per
// decoded syndrome.
func (p *Profile) AverageDecodingTimePerSyndrome() (float64, error) {
	syndromes := p.SumSyndromeNum()
	if syndromes == 0 {
		return 0, ErrNoSyndromes
	}
	return p.SumDecodingTime() / float64(syndromes), nil
}

// SumComputationCPUSeconds returns the total CPU time spent in the solver's
// primal phase: the sum of (end - start) over every event-time interval in
// every retained entry. Intervals are summed as-is; negative or overlapping
// intervals are not detected.
func (p *Profile) SumComputationCPUSeconds() float64 {
	var total float64
	for _, entry := range p.Entries {
		total += entry.computationCPUSeconds()
	}
	return total
}

// AverageComputationCPUSeconds returns the mean primal-phase CPU time per
// round.
func (p *Profile) AverageComputationCPUSeconds() (float64, error) {
	if len(p.Entries) == 0 {
		return 0, ErrNoEntries
	}
	return p.SumComputationCPUSeconds() / float64(len(p.Entries)), nil
}

func (e *Entry) computationCPUSeconds() float64 {
	var total float64
	for _, event := range e.SolverProfile.Primal.EventTimeVec {
		total += event.End - event.Start
	}
	return total
}
