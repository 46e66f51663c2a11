package lfn

import (
	"testing"
)

func TestUTF8ToUCS2RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"ascii", "README.TXT"},
		{"empty", ""},
		{"accented", "Café.txt"},
		{"cjk", "日本語.txt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			units := make([]uint16, len(tc.in))
			n, nonconv := UTF8ToUCS2(units, tc.in)
			if nonconv != 0 {
				t.Fatalf("unexpected non-convertible count %d for %q", nonconv, tc.in)
			}
			units = units[:n]
			dst := make([]byte, 3*len(units))
			m := UCS2ToUTF8(dst, units)
			if got := string(dst[:m]); got != tc.in {
				t.Fatalf("round trip mismatch: got %q want %q", got, tc.in)
			}
		})
	}
}

func TestUTF8ToUCS2AstralNonConvertible(t *testing.T) {
	const s = "a\U0001F600b" // emoji requires a surrogate pair, outside the BMP.
	units := make([]uint16, len(s))
	n, nonconv := UTF8ToUCS2(units, s)
	if nonconv != 4 { // len(UTF-8 encoding of U+1F600) == 4
		t.Fatalf("nonconv = %d, want 4", nonconv)
	}
	units = units[:n]
	dst := make([]byte, 3*len(units))
	m := UCS2ToUTF8(dst, units)
	if got := string(dst[:m]); got != "ab" {
		t.Fatalf("got %q, want the astral scalar dropped: %q", got, "ab")
	}
}

func TestASCIIConversions(t *testing.T) {
	const s = "HELLO~1.TXT"
	if got := ASCIIToUTF8([]byte(s)); got != s {
		t.Fatalf("ASCIIToUTF8 = %q, want %q", got, s)
	}
	dst := make([]byte, len(s))
	n, nonconv := UTF8ToASCII(dst, s)
	if nonconv != 0 || string(dst[:n]) != s {
		t.Fatalf("UTF8ToASCII = %q, nonconv=%d", dst[:n], nonconv)
	}

	dst2 := make([]byte, len("café"))
	n2, nonconv2 := UTF8ToASCII(dst2, "café")
	if nonconv2 != 2 { // é is two UTF-8 bytes, each counted.
		t.Fatalf("nonconv2 = %d, want 2", nonconv2)
	}
	if string(dst2[:n2]) != "caf" {
		t.Fatalf("dst2 = %q, want %q", dst2[:n2], "caf")
	}
}

func TestUTF8Cmp(t *testing.T) {
	tests := []struct{ a, b string; want int }{
		{"abc", "abc", 0},
		{"abc", "abd", -1},
		{"abd", "abc", 1},
		{"ab", "abc", -1},
		{"abc", "ab", 1},
		{"", "", 0},
	}
	for _, tc := range tests {
		got := UTF8Cmp(tc.a, tc.b)
		if sign(got) != tc.want {
			t.Errorf("UTF8Cmp(%q, %q) = %d, want sign %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestUTF8CaseCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want bool // true if folds equal
	}{
		{"README.TXT", "readme.txt", true},
		{"Straße", "STRASSE", true}, // full case-fold expands ß to "ss".
		{"abc", "abd", false},
		{"ABC", "abc", true},
	}
	for _, tc := range tests {
		got := UTF8CaseCmp(tc.a, tc.b) == 0
		if got != tc.want {
			t.Errorf("UTF8CaseCmp(%q, %q) == 0 -> %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func FuzzUTF8UCS2RoundTrip(f *testing.F) {
	f.Add("README.TXT")
	f.Add("")
	f.Add("日本語")
	f.Add("a\U0001F600b")
	f.Fuzz(func(t *testing.T, s string) {
		units := make([]uint16, len(s))
		n, nonconv := UTF8ToUCS2(units, s)
		units = units[:n]
		dst := make([]byte, 3*len(units))
		m := UCS2ToUTF8(dst, units)
		_ = m
		_ = nonconv
		// Only checks that conversion in both directions does not panic on
		// arbitrary input; the decoded output is not compared.
	})
}
