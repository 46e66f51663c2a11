package lfn

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// maxFoldScalars bounds the number of scalars a single Unicode full
// case-fold can expand into. Unicode guarantees at most 3; 10 leaves slack
// for future fold-table growth.
const maxFoldScalars = 10

// UTF8ToUCS2 decodes UTF-8 text in src into UCS-2 LE code units written to
// dst, which must be long enough to hold len(src) code units (the worst
// case: every scalar is one UTF-8 byte). It returns the number of code units
// written. Scalars outside the Basic Multilingual Plane (>= 0x10000,
// i.e. anything that would need a UTF-16 surrogate pair) are not
// convertible: they are skipped and their UTF-8 byte length is added to the
// returned non-convertible count.
func UTF8ToUCS2(dst []uint16, src string) (n, nonconv int) {
	for len(src) > 0 {
		r, size := utf8.DecodeRuneInString(src)
		if r == utf8.RuneError && size <= 1 {
			nonconv += max(size, 1)
			src = src[max(size, 1):]
			continue
		}
		if r <= 0xFFFF {
			dst[n] = uint16(r)
			n++
		} else {
			nonconv += size
		}
		src = src[size:]
	}
	return n, nonconv
}

// UCS2ToUTF8 encodes UCS-2 LE code units in src as UTF-8 into dst, which
// must be at least 3*len(src) bytes. Surrogate halves are encoded as plain
// 16-bit values (1/2/3-byte UTF-8, whichever the numeric value calls for)
// without pairing, reproducing on-disk behavior when a chain was written by
// something that used real UTF-16: a lone surrogate round-trips as
// ill-formed UTF-8 rather than being rejected.
func UCS2ToUTF8(dst []byte, src []uint16) (n int) {
	for _, u := range src {
		switch {
		case u < 0x80:
			dst[n] = byte(u)
			n++
		case u < 0x800:
			dst[n] = 0xC0 | byte(u>>6)
			dst[n+1] = 0x80 | byte(u&0x3F)
			n += 2
		default:
			dst[n] = 0xE0 | byte(u>>12)
			dst[n+1] = 0x80 | byte((u>>6)&0x3F)
			dst[n+2] = 0x80 | byte(u&0x3F)
			n += 3
		}
	}
	return n
}

// ASCIIToUTF8 copies ascii to a UTF-8 string unchanged: every ASCII byte is
// already valid, single-byte UTF-8.
func ASCIIToUTF8(ascii []byte) string {
	return string(ascii)
}

// UTF8ToASCII copies the ASCII-range bytes of s into dst, which must be at
// least len(s) bytes. Any non-ASCII UTF-8 byte is skipped and counted as
// non-convertible.
func UTF8ToASCII(dst []byte, s string) (n, nonconv int) {
	for i := 0; i < len(s); i++ {
		if s[i]&0x80 != 0 {
			nonconv++
			continue
		}
		dst[n] = s[i]
		n++
	}
	return n, nonconv
}

// utf8cmp returns the signed difference between the first differing scalar
// (or terminator) of a and b, in codepoint order. It implements a total
// order on well-formed UTF-8 and agrees with strings.Compare's sign.
func utf8cmp(a, b string) int {
	for {
		if len(a) == 0 || len(b) == 0 {
			return len(a) - len(b)
		}
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			return int(ra) - int(rb)
		}
		a, b = a[sa:], b[sb:]
	}
}

// UTF8Cmp is the exported form of utf8cmp.
func UTF8Cmp(a, b string) int { return utf8cmp(a, b) }

var caseFolder = cases.Fold()

// foldScalars returns the up-to-maxFoldScalars-rune full case fold of r.
func foldScalars(r rune) []rune {
	folded := caseFolder.String(string(r))
	out := make([]rune, 0, maxFoldScalars)
	for _, fr := range folded {
		if len(out) == maxFoldScalars {
			break
		}
		out = append(out, fr)
	}
	return out
}

// UTF8CaseCmp performs a Unicode full case-fold comparison of a and b: each
// scalar is decomposed to its case fold (bounded at maxFoldScalars runes)
// and the two folded rune streams are compared rune by rune, so a scalar
// that folds to several runes (ß to "ss") matches the same runes on the
// other side. If one folded stream is a prefix of the other, the shorter is
// "less".
func UTF8CaseCmp(a, b string) int {
	var fa, fb []rune // folded runes not yet compared.
	for {
		for len(fa) == 0 && len(a) > 0 {
			r, s := utf8.DecodeRuneInString(a)
			fa, a = foldScalars(r), a[s:]
		}
		for len(fb) == 0 && len(b) > 0 {
			r, s := utf8.DecodeRuneInString(b)
			fb, b = foldScalars(r), b[s:]
		}
		if len(fa) == 0 || len(fb) == 0 {
			return len(fa) - len(fb)
		}
		if fa[0] != fb[0] {
			return int(fa[0]) - int(fb[0])
		}
		fa, fb = fa[1:], fb[1:]
	}
}
