// SPDX-License-Identifier: MPL-2.0

// Package config loads the project configuration using Viper, with CUE as
// the primary file format and TOML as an alternative.
//
// The file is looked up as hookwire.cue, then hookwire.toml, in the project
// directory unless a path is given explicitly. Both formats are validated
// against the embedded #Config schema (config_schema.cue). HOOKWIRE_*
// environment variables override file values, e.g. HOOKWIRE_OUTDIR or
// HOOKWIRE_WATCH_DEBOUNCE.
package config
