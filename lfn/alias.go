package lfn

import (
	"strconv"
	"strings"
)

// dotShortName and dotdotShortName are the canonical packed forms of "." and
// "..": they bypass the alias generator entirely and never get an LFN chain.
var (
	dotShortName    = [11]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
	dotdotShortName = [11]byte{'.', '.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
)

// GenerateAlias derives an 8.3 short name and NT case byte for longName.
// exists is called with each candidate 11-byte short name and must report
// whether that name is already taken in the target directory. It drives the
// slow path's numeric-tail collision search, and a fast-path candidate it
// reports as taken sends the name down the slow path.
//
// "." and ".." are passed through as their canonical forms with no lowercase
// bits and no collision search, since they never collide (a directory holds
// at most one of each).
func GenerateAlias(longName string, exists func([11]byte) bool) (shortName [11]byte, caseByte byte, err error) {
	switch longName {
	case ".":
		return dotShortName, 0, nil
	case "..":
		return dotdotShortName, 0, nil
	}

	if short, cb, ok := fastAlias(longName); ok && !exists(short) {
		return short, cb, nil
	}
	return slowAlias(longName, exists)
}

// fastAlias handles a name that already fits the 8.3 shape (one dot at most, stem 1..8 bytes, extension
// 0..3 bytes, each half uniformly upper- or lower-case) is packed directly,
// recording any all-lowercase half as a case-byte bit instead of going
// through the slow, collision-checked path.
func fastAlias(name string) (shortName [11]byte, caseByte byte, ok bool) {
	if name == "" || strings.Count(name, ".") > 1 {
		return shortName, 0, false
	}
	stem, ext, hasExt := strings.Cut(name, ".")
	if stem == "" || len(stem) > 8 || len(ext) > 3 {
		return shortName, 0, false
	}
	if !isShortNameSafe(stem) || !isShortNameSafe(ext) {
		return shortName, 0, false
	}

	stemUpper, stemLower := halfCase(stem)
	if !stemUpper && !stemLower {
		return shortName, 0, false // mixed case disqualifies the fast path.
	}
	extUpper, extLower := halfCase(ext)
	if hasExt && ext != "" && !extUpper && !extLower {
		return shortName, 0, false
	}

	for i := range shortName {
		shortName[i] = ' '
	}
	copy(shortName[:8], strings.ToUpper(stem))
	copy(shortName[8:11], strings.ToUpper(ext))
	if stemLower {
		caseByte |= caseLowerBase
	}
	if hasExt && ext != "" && extLower {
		caseByte |= caseLowerExt
	}
	return shortName, caseByte, true
}

// halfCase classifies an 8.3 stem or extension: allUpper and allLower are
// both true for a half with no cased letters at all (e.g. all digits).
func halfCase(s string) (allUpper, allLower bool) {
	allUpper, allLower = true, true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			allUpper = false
		}
		if c >= 'A' && c <= 'Z' {
			allLower = false
		}
	}
	return allUpper, allLower
}

// isShortNameSafe reports whether every byte of s can be stored in an 8.3
// field without transliteration: printable ASCII, no space, none of the
// bytes forbidden in a name.
func isShortNameSafe(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x21 || c >= 0x7F || c == '.' || strings.IndexByte(forbiddenNameBytes, c) >= 0 {
			return false
		}
	}
	return true
}

const maxNumericTail = 99999

// slowAlias builds an uppercased, transliterated 8.3 candidate from the raw
// input, always appending a numeric tail "~1".."~99999" overlaid onto the
// rightmost stem columns. The tail is not conditioned on an actual directory
// collision: any name that needed the slow path in the first place (it
// didn't already fit 8.3) gets at least "~1", so a lone long-named file in
// an empty directory still receives "LONGFI~1TXT" rather than the bare
// truncated "LONGFILETXT".
func slowAlias(longName string, exists func([11]byte) bool) (shortName [11]byte, caseByte byte, err error) {
	stemSrc, extSrc := splitLastDot(longName)
	stem := sanitizeShortPart(stemSrc, 8)
	ext := sanitizeShortPart(extSrc, 3)

	for n := 1; n <= maxNumericTail; n++ {
		tail := "~" + strconv.Itoa(n)
		prefixLen := 8 - len(tail)
		if prefixLen < 0 {
			continue
		}
		var out [11]byte
		for i := range out {
			out[i] = ' '
		}
		copy(out[:prefixLen], stem)
		copy(out[prefixLen:8], tail)
		copy(out[8:11], ext)
		if !exists(out) {
			return out, 0, nil
		}
	}
	return shortName, 0, ErrCollision
}

// splitLastDot splits name into stem/extension at the final '.', matching
// FAT's extension rule (everything after the last dot is the extension). A
// name with no dot has an empty extension.
func splitLastDot(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// sanitizeShortPart uppercases s and replaces any non-alphanumeric byte with
// '_', truncated to n bytes.
func sanitizeShortPart(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			buf[i] = c - ('a' - 'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			buf[i] = c
		default:
			buf[i] = '_'
		}
	}
	return string(buf)
}
