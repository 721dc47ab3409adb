// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds shared helpers for working with CUE configuration
// files: user-friendly error formatting and input-size guarding.
package cueutil
