package position

import "strings"

// Lines indexes a document by line so byte columns reported by tree-sitter
// can be converted to UTF-16 characters
type Lines []string

// NewLines splits source on "\n"
func NewLines(source string) Lines {
	return strings.Split(source, "\n")
}

// Column converts a byte column on row to UTF-16 code units. Rows past the
// end of the document keep the byte column.
func (l Lines) Column(row, byteCol uint) uint32 {
	if int(row) >= len(l) {
		return uint32(byteCol) //nolint:gosec // G115: columns are bounded by file size
	}
	return clampUint32(ByteOffsetToUTF16(l[row], int(byteCol)))
}
