// SPDX-License-Identifier: MPL-2.0

// Package config loads the fbbench configuration: defaults, an optional CUE
// config file validated against an embedded schema, and the environment
// toggles the benchmark scripts have always honored
// (MANUALLY_COMPILE_QEC, FUSION_BLOSSOM_ENABLE_UNSAFE_POINTER).
package config
