// SPDX-License-Identifier: MPL-2.0

package baseconv

import (
	"errors"
	"strings"
	"testing"
)

func TestConvert_KnownValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		from  string
		to    string
		want  string
	}{
		{"zero to binary", "0", "0123456789", "01", "0"},
		{"decimal to hex", "255", "0123456789", "0123456789ABCDEF", "FF"},
		{"hex to binary", "FF", "0123456789ABCDEF", "01", "11111111"},
		{"leading zeros dropped", "000255", "0123456789", "0123456789ABCDEF", "FF"},
		{"all zero symbols", "0000", "0123456789", "ab", "a"},
		{"empty value is zero", "", "0123456789", "xyz", "x"},
		{"unicode alphabet", "12", "0123456789", "○●", "●●○○"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ConvertAny(tt.value, tt.from, tt.to)
			if err != nil {
				t.Fatalf("ConvertAny() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ConvertAny(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestConvert_LargeValueIsExact(t *testing.T) {
	t.Parallel()

	// 2^200 has 61 decimal digits, far beyond any float64 mantissa.
	binary := "1" + strings.Repeat("0", 200)
	dec, err := ConvertAny(binary, "01", Decimal)
	if err != nil {
		t.Fatalf("ConvertAny() error = %v", err)
	}
	want := "1606938044258990275541962092341162602522202993782792835301376"
	if dec != want {
		t.Errorf("2^200 = %s, want %s", dec, want)
	}

	back, err := ConvertAny(dec, Decimal, "01")
	if err != nil {
		t.Fatalf("ConvertAny() error = %v", err)
	}
	if back != binary {
		t.Errorf("round trip = %s, want %s", back, binary)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	t.Parallel()

	alphabets := []Alphabet{Decimal, Base32, Base62, Base64URL, Base96, MustFromString("01")}
	values := []string{"1", "7", "42", "1000000", "18446744073709551616", "98765432109876543210987654321"}

	for _, a := range alphabets {
		for _, b := range alphabets {
			for _, v := range values {
				encoded, err := Convert(v, Decimal, a)
				if err != nil {
					t.Fatalf("Convert(%q, Decimal, %s) error = %v", v, a, err)
				}
				converted, err := Convert(encoded, a, b)
				if err != nil {
					t.Fatalf("Convert(%q, %s, %s) error = %v", encoded, a, b, err)
				}
				back, err := Convert(converted, b, a)
				if err != nil {
					t.Fatalf("Convert(%q, %s, %s) error = %v", converted, b, a, err)
				}
				if back != encoded {
					t.Errorf("round trip %q via %s = %q, want %q", encoded, b, back, encoded)
				}
			}
		}
	}
}

func TestConvert_DuplicateSymbol(t *testing.T) {
	t.Parallel()

	if _, err := ConvertAny("a", "aab", "01"); !errors.Is(err, ErrAlphabetContent) {
		t.Errorf("duplicate source alphabet: error = %v, want ErrAlphabetContent", err)
	}
	if _, err := ConvertAny("1", "01", "aab"); !errors.Is(err, ErrAlphabetContent) {
		t.Errorf("duplicate destination alphabet: error = %v, want ErrAlphabetContent", err)
	}

	_, err := FromString("aab")
	var contentErr *AlphabetContentError
	if !errors.As(err, &contentErr) {
		t.Fatalf("FromString(aab) error = %T, want *AlphabetContentError", err)
	}
	if contentErr.Symbol != "a" {
		t.Errorf("Symbol = %q, want %q", contentErr.Symbol, "a")
	}
}

func TestConvert_SymbolNotInAlphabet(t *testing.T) {
	t.Parallel()

	_, err := ConvertAny("9", "01", Decimal)
	if !errors.Is(err, ErrAlphabetContent) {
		t.Fatalf("error = %v, want ErrAlphabetContent", err)
	}
	if !strings.Contains(err.Error(), `"9"`) {
		t.Errorf("error %q should name the offending symbol", err)
	}
}

func TestConvert_InvalidAlphabetType(t *testing.T) {
	t.Parallel()

	for _, bad := range []any{42, nil, map[string]int{}, []int{0, 1}} {
		_, err := ConvertAny("1", bad, Decimal)
		if !errors.Is(err, ErrAlphabetType) {
			t.Errorf("ConvertAny(from=%T) error = %v, want ErrAlphabetType", bad, err)
		}
		_, err = ConvertAny("1", Decimal, bad)
		if !errors.Is(err, ErrAlphabetType) {
			t.Errorf("ConvertAny(to=%T) error = %v, want ErrAlphabetType", bad, err)
		}
	}
}

func TestConvert_TooFewSymbols(t *testing.T) {
	t.Parallel()

	if _, err := FromString("x"); !errors.Is(err, ErrAlphabetContent) {
		t.Errorf("single-symbol alphabet error = %v, want ErrAlphabetContent", err)
	}
	if _, err := Convert("1", Alphabet{}, Decimal); !errors.Is(err, ErrAlphabetContent) {
		t.Errorf("zero Alphabet error = %v, want ErrAlphabetContent", err)
	}
}

func TestFromSymbols_MultiRuneSymbols(t *testing.T) {
	t.Parallel()

	a, err := FromSymbols([]string{"zero", "one"})
	if err != nil {
		t.Fatalf("FromSymbols() error = %v", err)
	}
	got, err := Convert("oneonezero", a, Decimal)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != "6" {
		t.Errorf("Convert(oneonezero) = %q, want %q", got, "6")
	}
}
