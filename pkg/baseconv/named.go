// SPDX-License-Identifier: MPL-2.0

package baseconv

import "strings"

// base96Denylist holds printable ASCII characters that are unsafe in URLs or
// quoting contexts and are therefore left out of Base96.
const base96Denylist = "\"'\\<>?%#&+@=`"

var (
	// Decimal is the digits 0-9.
	Decimal = MustFromString("0123456789")
	// Base32 is the RFC 4648 base32 alphabet.
	Base32 = MustFromString("ABCDEFGHIJKLMNOPQRSTUVWXYZ234567")
	// Base62 is digits, then upper case, then lower case letters.
	Base62 = MustFromString("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	// Base64URL is the RFC 4648 URL and filename safe alphabet.
	Base64URL = MustFromString("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_")
	// Base96 is printable ASCII 33-126 without the characters in base96Denylist.
	Base96 = MustFromString(buildBase96())

	named = map[string]Alphabet{
		"decimal":   Decimal,
		"base32":    Base32,
		"base62":    Base62,
		"base64url": Base64URL,
		"base96":    Base96,
	}
)

type (
	wrapperOptions struct {
		other Alphabet
	}

	// Option configures the fixed-alphabet wrappers.
	Option func(*wrapperOptions)
)

// WithAlphabet overrides the non-fixed side of a wrapper conversion, which
// defaults to Decimal.
func WithAlphabet(a Alphabet) Option {
	return func(o *wrapperOptions) {
		o.other = a
	}
}

// Lookup returns the named alphabet for name (decimal, base32, base62,
// base64url, base96). Lookup is case-insensitive.
func Lookup(name string) (Alphabet, bool) {
	a, ok := named[strings.ToLower(name)]
	return a, ok
}

// Names returns the names accepted by Lookup.
func Names() []string {
	return []string{"decimal", "base32", "base62", "base64url", "base96"}
}

// ToBase32 converts value (decimal unless overridden) to Base32.
func ToBase32(value string, opts ...Option) (string, error) {
	return Convert(value, other(opts), Base32)
}

// FromBase32 converts a Base32 value to decimal unless overridden.
func FromBase32(value string, opts ...Option) (string, error) {
	return Convert(value, Base32, other(opts))
}

// ToBase62 converts value (decimal unless overridden) to Base62.
func ToBase62(value string, opts ...Option) (string, error) {
	return Convert(value, other(opts), Base62)
}

// FromBase62 converts a Base62 value to decimal unless overridden.
func FromBase62(value string, opts ...Option) (string, error) {
	return Convert(value, Base62, other(opts))
}

// ToBase64URL converts value (decimal unless overridden) to Base64URL.
func ToBase64URL(value string, opts ...Option) (string, error) {
	return Convert(value, other(opts), Base64URL)
}

// FromBase64URL converts a Base64URL value to decimal unless overridden.
func FromBase64URL(value string, opts ...Option) (string, error) {
	return Convert(value, Base64URL, other(opts))
}

// ToBase96 converts value (decimal unless overridden) to Base96.
func ToBase96(value string, opts ...Option) (string, error) {
	return Convert(value, other(opts), Base96)
}

// FromBase96 converts a Base96 value to decimal unless overridden.
func FromBase96(value string, opts ...Option) (string, error) {
	return Convert(value, Base96, other(opts))
}

func other(opts []Option) Alphabet {
	o := wrapperOptions{other: Decimal}
	for _, opt := range opts {
		opt(&o)
	}
	return o.other
}

func buildBase96() string {
	var sb strings.Builder
	for c := byte(33); c <= 126; c++ {
		if strings.IndexByte(base96Denylist, c) >= 0 {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
