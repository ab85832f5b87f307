// SPDX-License-Identifier: MPL-2.0

// Package themes produces the injection hooks for a Sass theme layout: an
// aggregation hook that wires every skin into a $themes map, and a
// variables hook that assigns each theme variable a compact identifier.
package themes
