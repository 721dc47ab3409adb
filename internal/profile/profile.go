// SPDX-License-Identifier: MPL-2.0

package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultSkipBegin is the number of leading entries Parse discards.
// The first few benchmark rounds are usually not yet representative
// (caches are cold, the solver's pools are still growing).
const DefaultSkipBegin = 5

// ErrMissingHeader is wrapped by the ParseError returned when a log has
// fewer than two non-blank lines and therefore no partition or benchmark
// configuration to parse.
var ErrMissingHeader = errors.New("profile log is missing its header lines")

type (
	// Profile is the parsed view of one benchmark run's log file.
	// It is created once from a file path and read-only afterwards.
	Profile struct {
		// PartitionConfig is decoded from line 1.
		PartitionConfig PartitionConfig
		// BenchmarkConfig is line 2, kept verbatim: the driver never
		// interprets the parameters the run was started with.
		BenchmarkConfig json.RawMessage
		// Entries are the per-round records from lines 3+, in file order,
		// after the warm-up skip.
		Entries []Entry
	}

	// Entry is one benchmark round's recorded metrics.
	Entry struct {
		// DecodingTime is the round's wall-clock decoding latency in seconds.
		DecodingTime float64
		// SyndromeNum counts the defects decoded in the round.
		SyndromeNum int64
		// SolverProfile holds the solver's internal timing breakdown.
		SolverProfile SolverProfile
	}

	// SolverProfile is the solver section of an entry.
	SolverProfile struct {
		Primal PrimalProfile
	}

	// PrimalProfile records the primal phase's CPU-busy intervals.
	PrimalProfile struct {
		EventTimeVec []EventTime
	}

	// EventTime marks one CPU-busy interval within the solver's primal
	// phase. Timestamps are in seconds.
	EventTime struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	}

	// ParseError reports a malformed or missing line in a profile log.
	ParseError struct {
		// Path is the log file being parsed.
		Path string
		// Line is the offending 1-based line number.
		Line int
		// Err is the underlying decode error.
		Err error
	}

	// Option configures Parse.
	Option func(*parseOptions)

	parseOptions struct {
		skipBegin int
	}
)

// WithSkipBegin overrides the number of leading entries discarded as
// warm-up. Zero keeps every entry.
func WithSkipBegin(n int) Option {
	return func(o *parseOptions) { o.skipBegin = n }
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse profile log %s: line %d: %v", e.Path, e.Line, e.Err)
}

// Unwrap returns the underlying decode error for errors.Is/As.
func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads the newline-delimited JSON profile log at path.
//
// Line 1 must be a partition config object and line 2 the benchmark config;
// a log with fewer than two non-blank lines fails with ErrMissingHeader
// rather than yielding a half-built Profile. Iteration stops at the first
// blank line; anything after it is ignored. The first skip-begin entry
// lines (default DefaultSkipBegin) are syntax-checked and discarded; if the
// log holds fewer entry lines than the skip count the result is an empty,
// valid entry set.
func Parse(path string, opts ...Option) (*Profile, error) {
	o := parseOptions{skipBegin: DefaultSkipBegin}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile log: %w", err)
	}

	p := &Profile{}
	headerLines := 0
	skipped := 0
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.Trim(line, " \r\n")
		if line == "" {
			break
		}
		switch i {
		case 0:
			if err := json.Unmarshal([]byte(line), &p.PartitionConfig); err != nil {
				return nil, &ParseError{Path: path, Line: i + 1, Err: err}
			}
			headerLines++
		case 1:
			var cfg json.RawMessage
			if err := json.Unmarshal([]byte(line), &cfg); err != nil {
				return nil, &ParseError{Path: path, Line: i + 1, Err: err}
			}
			p.BenchmarkConfig = cfg
			headerLines++
		default:
			if skipped < o.skipBegin {
				// Warm-up lines are discarded but must still be valid JSON.
				if !json.Valid([]byte(line)) {
					return nil, &ParseError{Path: path, Line: i + 1, Err: errors.New("invalid JSON")}
				}
				skipped++
				continue
			}
			var entry Entry
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				return nil, &ParseError{Path: path, Line: i + 1, Err: err}
			}
			p.Entries = append(p.Entries, entry)
		}
	}

	if headerLines < 2 {
		return nil, &ParseError{Path: path, Line: headerLines + 1, Err: ErrMissingHeader}
	}
	return p, nil
}

// UnmarshalJSON decodes an entry, requiring the three fields the reducers
// depend on. A round record missing any of them is a structural error with
// line context added by Parse; silently defaulting to zero would let "no
// data" masquerade as "zero latency".
func (e *Entry) UnmarshalJSON(data []byte) error {
	var aux struct {
		DecodingTime  *float64 `json:"decoding_time"`
		SyndromeNum   *int64   `json:"syndrome_num"`
		SolverProfile *struct {
			Primal *struct {
				EventTimeVec *[]EventTime `json:"event_time_vec"`
			} `json:"primal"`
		} `json:"solver_profile"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.DecodingTime == nil:
		return fmt.Errorf("entry: missing key %q", "decoding_time")
	case aux.SyndromeNum == nil:
		return fmt.Errorf("entry: missing key %q", "syndrome_num")
	case aux.SolverProfile == nil:
		return fmt.Errorf("entry: missing key %q", "solver_profile")
	case aux.SolverProfile.Primal == nil:
		return fmt.Errorf("entry: missing key %q", "solver_profile.primal")
	case aux.SolverProfile.Primal.EventTimeVec == nil:
		return fmt.Errorf("entry: missing key %q", "solver_profile.primal.event_time_vec")
	}
	e.DecodingTime = *aux.DecodingTime
	e.SyndromeNum = *aux.SyndromeNum
	e.SolverProfile = SolverProfile{Primal: PrimalProfile{EventTimeVec: *aux.SolverProfile.Primal.EventTimeVec}}
	return nil
}
