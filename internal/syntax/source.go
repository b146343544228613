package syntax

import "sort"

// LineIndex maps byte offsets in a source buffer to line/column positions.
// It records the offset of every line start once, so lookups do not
// rescan the buffer.
type LineIndex struct {
	filename string
	src      string
	lines    []uint32 // offset of the first byte of each line
}

// NewLineIndex builds the line table for src.
func NewLineIndex(filename, src string) *LineIndex {
	ix := &LineIndex{
		filename: filename,
		src:      src,
		lines:    []uint32{0},
	}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			ix.lines = append(ix.lines, uint32(i+1))
		}
	}
	return ix
}

// Position returns the 1-based line and column of offset.
// Offsets past the end of the buffer clamp to the end.
func (ix *LineIndex) Position(offset uint32) Pos {
	if int(offset) > len(ix.src) {
		offset = uint32(len(ix.src))
	}
	// Last line start <= offset.
	n := sort.Search(len(ix.lines), func(i int) bool { return ix.lines[i] > offset }) - 1
	return NewPos(ix.filename, uint32(n+1), offset-ix.lines[n]+1)
}

// Line returns the text of the 1-based line n without its newline.
func (ix *LineIndex) Line(n uint32) string {
	if n == 0 || int(n) > len(ix.lines) {
		return ""
	}
	start := ix.lines[n-1]
	end := uint32(len(ix.src))
	if int(n) < len(ix.lines) {
		end = ix.lines[n] - 1
	}
	line := ix.src[start:end]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line
}

// ValidateASCII reports the first byte of src outside the 7-bit ASCII range.
// The scanner treats every byte as one character; multi-byte UTF-8
// sequences would be split into Unknown tokens, so callers reject them
// here before tokenizing.
func ValidateASCII(src string) error {
	for i := 0; i < len(src); i++ {
		if src[i] >= 0x80 {
			return &EncodingError{Offset: uint32(i), Byte: src[i]}
		}
	}
	return nil
}

// Character classification helpers

// isLetter reports whether c is a letter (a-z, A-Z, or _).
func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

// isDigit reports whether c is a decimal digit (0-9).
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// boundaryChars lists every byte that ends a word, sorted ascending.
const boundaryChars = "\t\n\r \"'()*+,-/:;=>{}"

// boundary is the byte-indexed lookup table for boundaryChars.
var boundary [256]bool

func init() {
	for i := 0; i < len(boundaryChars); i++ {
		boundary[boundaryChars[i]] = true
	}
}

// isBoundary reports whether c delimits words.
func isBoundary(c byte) bool {
	return boundary[c]
}

// isBoundarySorted is the binary-search form of isBoundary. Both must
// agree for every byte.
func isBoundarySorted(c byte) bool {
	i := sort.Search(len(boundaryChars), func(i int) bool { return boundaryChars[i] >= c })
	return i < len(boundaryChars) && boundaryChars[i] == c
}
