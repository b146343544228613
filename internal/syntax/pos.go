package syntax

import "fmt"

// Pos represents a position in a source file.
type Pos struct {
	filename string // source file name
	line     uint32 // 1-based line number
	col      uint32 // 1-based column number (byte offset in line)
}

// NewPos creates a new Pos with the given filename, line, and column.
// Line and column numbers are 1-based.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String returns a string representation of the position in the format
// "filename:line:col" or "line:col" if filename is empty.
func (p Pos) String() string {
	if p.filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// Line returns the 1-based line number.
func (p Pos) Line() uint32 {
	return p.line
}

// Col returns the 1-based column number (byte offset in line).
func (p Pos) Col() uint32 {
	return p.col
}

// Filename returns the source file name.
func (p Pos) Filename() string {
	return p.filename
}

// Span is a byte range [Offset, Offset+Len) in the source buffer.
// A zero-length span marks a point, e.g. the end of input.
type Span struct {
	Offset uint32
	Len    uint32
}

// End returns the offset one past the span.
func (s Span) End() uint32 {
	return s.Offset + s.Len
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Len == 0
}

// After returns the zero-length span at the end of s.
func (s Span) After() Span {
	return Span{Offset: s.End()}
}

func (s Span) String() string {
	return fmt.Sprintf("%d+%d", s.Offset, s.Len)
}
