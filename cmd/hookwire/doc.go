// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for hookwire.
//
// This package implements the Cobra command hierarchy: bundling with
// injection (build, watch), inspection of the injection engine (resolve,
// load, hooks), numeral base conversion, and configuration management.
package cmd
