// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// decodes them into Go values.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.Decode[map[string]any](schema, data, "#Config",
//	    cueutil.WithFilename("hookwire.cue"),
//	    cueutil.WithConcrete(false),
//	)
//
// Errors carry the file name and the offending field in dotted notation
// with array indices, e.g. "hookwire.cue: watch.patterns[1]: ...".
package cueutil
