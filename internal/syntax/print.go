package syntax

import (
	"fmt"
	"io"
	"strings"
)

// FprintTokens writes one line per token: position, kind and quoted text.
// Positions come from ix; a nil ix prints raw byte offsets.
func FprintTokens(w io.Writer, toks []Token, ix *LineIndex) {
	fmt.Fprintf(w, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(w, "%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for _, tok := range toks {
		pos := fmt.Sprintf("@%d", tok.Loc)
		if ix != nil {
			pos = ix.Position(tok.Loc).String()
		}
		fmt.Fprintf(w, "%-20s %-12s %s\n", pos, tok.Kind, QuoteLiteral(tok.Slice))
	}
}

// FprintTrace writes the flattened output with a newline after every
// top-level statement.
func FprintTrace(w io.Writer, out []Token) {
	var open []Token // initiators not yet closed
	start := true
	for _, tok := range out {
		if !start {
			io.WriteString(w, " ")
		}
		io.WriteString(w, tok.String())
		start = false

		switch {
		case tok.IsInitial():
			open = append(open, tok)
		case tok.IsTerminal():
			if n := len(open); n > 0 && tok.Terminates(open[n-1]) {
				open = open[:n-1]
			} else if n > 0 {
				// ';' separating statements inside braces
				break
			}
			if tok.Kind == SemiColon && len(open) == 0 {
				io.WriteString(w, "\n")
				start = true
			}
		}
	}
	if !start {
		io.WriteString(w, "\n")
	}
}

// QuoteLiteral formats a token text for display, escaping special characters.
func QuoteLiteral(lit string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(lit); i++ {
		switch c := lit[i]; c {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, "\\x%02x", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Fprint writes a textual representation of a tree to w, one node per
// line, indented by depth.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	stack := []printItem{{node: node}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.node == nil {
			continue
		}
		p.indent = it.indent
		p.print(it.node)

		kids := children(it.node)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, printItem{kids[i], it.indent + 1})
		}
	}
}

type printer struct {
	w      io.Writer
	indent int
}

// printItem is a node waiting to be printed at a given depth.
type printItem struct {
	node   Node
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// print writes the line for node itself; Fprint handles its children.
func (p *printer) print(node Node) {
	switch n := node.(type) {
	case *File:
		p.printf("File %s\n", n.span)

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.span)

	case *DeclStmt:
		p.printf("DeclStmt %s %s\n", n.Keyword.Slice, n.span)

	case *Group:
		p.printf("Group %s%s %s\n", n.Open.Slice, n.Close.Slice, n.span)

	case *Operation:
		p.printf("Operation %s %s\n", n.Op.Slice, n.span)

	case *Name:
		p.printf("Name %q %s\n", n.Tok.Slice, n.span)

	case *BasicLit:
		p.printf("BasicLit %s %s\n", n.Tok.Slice, n.span)

	default:
		p.printf("%T\n", n)
	}
}
