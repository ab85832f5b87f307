// SPDX-License-Identifier: MPL-2.0

package baseconv

import (
	"math/big"
	"slices"
	"strings"
)

// Convert re-expresses value, a big-endian numeral over from, as a numeral
// over to. An empty value is zero.
func Convert(value string, from, to Alphabet) (string, error) {
	if from.Len() < minAlphabetSize || to.Len() < minAlphabetSize {
		return "", &AlphabetContentError{Reason: "too few symbols"}
	}

	digits, err := from.digits(value)
	if err != nil {
		return "", err
	}

	n := new(big.Int)
	fromBase := big.NewInt(int64(from.Len()))
	for _, d := range digits {
		n.Mul(n, fromBase)
		n.Add(n, big.NewInt(int64(d)))
	}

	if n.Sign() == 0 {
		return to.symbols[0], nil
	}

	toBase := big.NewInt(int64(to.Len()))
	rem := new(big.Int)
	var out []string
	for n.Sign() > 0 {
		n.DivMod(n, toBase, rem)
		out = append(out, to.symbols[rem.Int64()])
	}
	slices.Reverse(out)
	return strings.Join(out, ""), nil
}

// ConvertAny is Convert for loosely typed alphabets: each of from and to may
// be a string, a []string, a []rune, or an Alphabet. Both alphabets are
// validated independently before the value is read.
func ConvertAny(value string, from, to any) (string, error) {
	src, err := New(from)
	if err != nil {
		return "", err
	}
	dst, err := New(to)
	if err != nil {
		return "", err
	}
	return Convert(value, src, dst)
}
