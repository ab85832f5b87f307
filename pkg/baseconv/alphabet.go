// SPDX-License-Identifier: MPL-2.0

package baseconv

import (
	"errors"
	"fmt"
	"strings"
)

// minAlphabetSize is the smallest alphabet that can express a positional
// numeral system.
const minAlphabetSize = 2

var (
	// ErrAlphabetType is the sentinel error wrapped by AlphabetTypeError.
	ErrAlphabetType = errors.New("invalid alphabet type")
	// ErrAlphabetContent is the sentinel error wrapped by AlphabetContentError.
	ErrAlphabetContent = errors.New("invalid alphabet content")
)

type (
	// Alphabet is an ordered set of unique symbols. The index of a symbol is
	// its digit value. The zero value is not usable; build alphabets with
	// New, FromString, or FromSymbols.
	Alphabet struct {
		symbols []string
		index   map[string]int
		// widest is the byte length of the longest symbol, used to tokenize
		// values over alphabets with multi-rune symbols.
		widest int
	}

	// AlphabetTypeError is returned when an alphabet is given as something
	// other than a string or a list of symbols.
	AlphabetTypeError struct {
		Value any
	}

	// AlphabetContentError is returned when an alphabet has duplicate symbols
	// or too few symbols, or when a value uses a symbol the alphabet lacks.
	AlphabetContentError struct {
		Reason string
		Symbol string
	}
)

// Error implements the error interface.
func (e *AlphabetTypeError) Error() string {
	return fmt.Sprintf("invalid alphabet type %T: must be a string or a list of symbols", e.Value)
}

// Unwrap returns ErrAlphabetType for errors.Is() compatibility.
func (e *AlphabetTypeError) Unwrap() error { return ErrAlphabetType }

// Error implements the error interface.
func (e *AlphabetContentError) Error() string {
	if e.Symbol == "" {
		return "invalid alphabet content: " + e.Reason
	}
	return fmt.Sprintf("invalid alphabet content: %s %q", e.Reason, e.Symbol)
}

// Unwrap returns ErrAlphabetContent for errors.Is() compatibility.
func (e *AlphabetContentError) Unwrap() error { return ErrAlphabetContent }

// New builds an Alphabet from a string (split by code point), a []string of
// symbols, or a []rune. Any other type fails with *AlphabetTypeError.
func New(v any) (Alphabet, error) {
	switch a := v.(type) {
	case Alphabet:
		if len(a.symbols) < minAlphabetSize {
			return Alphabet{}, &AlphabetContentError{Reason: "too few symbols"}
		}
		return a, nil
	case string:
		return FromString(a)
	case []string:
		return FromSymbols(a)
	case []rune:
		return FromString(string(a))
	default:
		return Alphabet{}, &AlphabetTypeError{Value: v}
	}
}

// FromString builds an Alphabet whose symbols are the code points of s.
func FromString(s string) (Alphabet, error) {
	symbols := make([]string, 0, len(s))
	for _, r := range s {
		symbols = append(symbols, string(r))
	}
	return FromSymbols(symbols)
}

// FromSymbols builds an Alphabet from an explicit symbol list.
func FromSymbols(symbols []string) (Alphabet, error) {
	if len(symbols) < minAlphabetSize {
		return Alphabet{}, &AlphabetContentError{Reason: "too few symbols"}
	}

	a := Alphabet{
		symbols: make([]string, len(symbols)),
		index:   make(map[string]int, len(symbols)),
	}
	for i, s := range symbols {
		if s == "" {
			return Alphabet{}, &AlphabetContentError{Reason: "empty symbol"}
		}
		if _, dup := a.index[s]; dup {
			return Alphabet{}, &AlphabetContentError{Reason: "duplicate symbol", Symbol: s}
		}
		a.symbols[i] = s
		a.index[s] = i
		a.widest = max(a.widest, len(s))
	}
	return a, nil
}

// MustFromString is like FromString but panics on error. Use it only for
// package-level alphabets built from literals.
func MustFromString(s string) Alphabet {
	a, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the numeral base of the alphabet.
func (a Alphabet) Len() int { return len(a.symbols) }

// Symbols returns a copy of the alphabet's symbols in digit order.
func (a Alphabet) Symbols() []string {
	out := make([]string, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// String returns the symbols concatenated in digit order.
func (a Alphabet) String() string { return strings.Join(a.symbols, "") }

// digits tokenizes value into digit values, preferring the longest symbol at
// each position.
func (a Alphabet) digits(value string) ([]int, error) {
	out := make([]int, 0, len(value))
	for rest := value; rest != ""; {
		matched := false
		for width := min(a.widest, len(rest)); width > 0; width-- {
			if d, ok := a.index[rest[:width]]; ok {
				out = append(out, d)
				rest = rest[width:]
				matched = true
				break
			}
		}
		if !matched {
			r := []rune(rest)[0]
			return nil, &AlphabetContentError{Reason: "value has symbol not in alphabet", Symbol: string(r)}
		}
	}
	return out, nil
}
