// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a hookwire build:
//   - configuration loading and CUE schema validation
//   - numeral base conversion for variable identifiers
//   - specifier resolution and hook loading with marker splicing
//   - an incremental esbuild rebuild through the plugin
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run='^$' -bench=. -cpuprofile=default.pgo
package benchmark
