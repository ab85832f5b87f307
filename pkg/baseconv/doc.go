// SPDX-License-Identifier: MPL-2.0

// Package baseconv converts arbitrary-precision unsigned integers between
// positional numeral systems described by symbol alphabets.
//
// A value is a digit string over a source alphabet; Convert re-expresses the
// same integer as a digit string over a destination alphabet. All arithmetic
// is done on math/big integers, so there is no upper bound on value length.
// Zero is always rendered as the single first symbol of the destination
// alphabet.
package baseconv
