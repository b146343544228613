// Package diag renders parse errors against the source they came from.
//
// A rendered diagnostic has three lines:
//
//	input.src:2:7: unexpected ";" at byte 15, expected ): "(" at byte 10 is still open
//	   2 | y = (a;
//	     |       ^
//
// The header uses syntax.Pos formatting. The caret line underlines the
// span of the offending token, at least one column wide.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/flatc/internal/syntax"
)

// SpanOf returns the source range an error refers to, if it has one.
func SpanOf(err error) (syntax.Span, bool) {
	var ut *syntax.UnexpectedToken
	if errors.As(err, &ut) {
		return ut.Span, true
	}
	var ee *syntax.EncodingError
	if errors.As(err, &ee) {
		return ee.Span(), true
	}
	var le *syntax.LimitError
	if errors.As(err, &le) {
		return le.At.Span(), true
	}
	return syntax.Span{}, false
}

// Render writes err to w. Errors without a span are written as a single
// "filename: message" line.
func Render(w io.Writer, filename, src string, err error) {
	span, ok := SpanOf(err)
	if !ok {
		if filename != "" {
			fmt.Fprintf(w, "%s: %v\n", filename, err)
		} else {
			fmt.Fprintf(w, "error: %v\n", err)
		}
		return
	}

	ix := syntax.NewLineIndex(filename, src)
	pos := ix.Position(span.Offset)
	line := ix.Line(pos.Line())

	fmt.Fprintf(w, "%s: %v\n", pos, err)
	fmt.Fprintf(w, "%4d | %s\n", pos.Line(), line)
	fmt.Fprintf(w, "     | %s%s\n", padding(line, int(pos.Col())-1), carets(line, int(pos.Col())-1, span))
}

// Sprint is like Render but returns the text.
func Sprint(filename, src string, err error) string {
	var b strings.Builder
	Render(&b, filename, src, err)
	return b.String()
}

// padding returns the indentation that puts a caret under column col
// (0-based) of line. Tabs are kept so the caret lines up in a terminal.
func padding(line string, col int) string {
	if col > len(line) {
		col = len(line)
	}
	var b strings.Builder
	for i := 0; i < col; i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// carets underlines span starting at col, clipped to the end of line. An
// empty span, such as the end of input, gets a single caret.
func carets(line string, col int, span syntax.Span) string {
	if span.IsEmpty() {
		return "^"
	}
	n := int(span.Len)
	if rest := len(line) - col; n > rest {
		n = rest
	}
	if n < 1 {
		n = 1
	}
	return strings.Repeat("^", n)
}
