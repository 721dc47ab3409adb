// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context for the benchmark driver:
// ActionableError carries the failed operation, the resource involved, and
// fix suggestions; Issue cards are longer markdown troubleshooting guides
// rendered in the terminal for the failure classes that halt a sweep.
package issue
