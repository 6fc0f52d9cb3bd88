// Package position converts between the UTF-8 byte offsets tree-sitter and
// Go strings use and the UTF-16 code units LSP positions count.
package position

import (
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset returns the byte offset of UTF-16 column col in s.
// Columns past the end clamp to len(s), and a column that falls inside a
// surrogate pair clamps to the start of that rune. Invalid bytes count as
// one unit each.
func UTF16ToByteOffset(s string, col int) int {
	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if units+n > col {
			return i
		}
		units += n
	}
	return len(s)
}

// ByteOffsetToUTF16 returns the UTF-16 column of byte offset in s. An offset
// inside a multi-byte rune counts only the runes before it.
func ByteOffsetToUTF16(s string, offset int) int {
	offset = min(offset, len(s))
	units := 0
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(s[i:])
		if i+size > offset {
			break
		}
		units += utf16.RuneLen(r)
		i += size
	}
	return units
}

// StringLengthUTF16 returns the length of s in UTF-16 code units
func StringLengthUTF16(s string) int {
	return ByteOffsetToUTF16(s, len(s))
}

func clampUint32(n int) uint32 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(n) //nolint:gosec // G115: clamped above
}
