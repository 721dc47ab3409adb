// SPDX-License-Identifier: MPL-2.0

// Package profile parses the newline-delimited JSON telemetry logs written
// by the fusion-blossom benchmark executable and reduces them into summary
// statistics (decoding latency, per-syndrome latency, primal-phase CPU time).
//
// A profile log has a fixed shape: line 1 is the partition configuration,
// line 2 is the benchmark configuration used for the run, and every further
// line is one benchmark round's metrics. Parsing stops at the first blank
// line. A configurable number of leading rounds is discarded as warm-up.
package profile
