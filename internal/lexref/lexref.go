// Package lexref is a second, regexp-driven lexer for the flat language,
// built on participle's lexer. It exists to cross-check syntax.Tokenize:
// both lexers must produce the same kinds, offsets and text for any
// ASCII input.
package lexref

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/you-not-fish/flatc/internal/syntax"
)

// Lexer holds the reference rules. Arrow must come before Punct so "->"
// is not split.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Arrow", Pattern: `->`, Action: nil},
		{Name: "Punct", Pattern: `[-+*/>=:,(){};"']`, Action: nil},
		{Name: "Newline", Pattern: `\n`, Action: nil},
		{Name: "Space", Pattern: `[ \t\r]`, Action: nil},

		// Words run to the next boundary byte; the first byte decides the kind.
		{Name: "Ident", Pattern: `[A-Za-z_][^-+*/>=:,(){};"' \t\r\n]*`, Action: nil},
		{Name: "Number", Pattern: `[0-9][^-+*/>=:,(){};"' \t\r\n]*`, Action: nil},
		{Name: "Unknown", Pattern: `[^-+*/>=:,(){};"' \t\r\n]+`, Action: nil},
	},
})

var punct = map[string]syntax.Kind{
	"+":  syntax.Plus,
	"-":  syntax.Minus,
	"*":  syntax.Star,
	"/":  syntax.Slash,
	">":  syntax.GreaterThan,
	"=":  syntax.Equals,
	":":  syntax.Colon,
	",":  syntax.Comma,
	"(":  syntax.OpenBracket,
	")":  syntax.CloseBracket,
	"{":  syntax.OpenCurly,
	"}":  syntax.CloseCurly,
	";":  syntax.SemiColon,
	`"`:  syntax.DoubleQuote,
	"'":  syntax.SingleQuote,
	"->": syntax.Arrow,
}

var keywords = map[string]syntax.Kind{
	"fun": syntax.FunctionDeclaration,
	"var": syntax.VariableDeclaration,
}

// Lex tokenizes src with the reference rules.
func Lex(filename, src string) ([]syntax.Token, error) {
	lex, err := Lexer.LexString(filename, src)
	if err != nil {
		return nil, err
	}
	ptoks, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}

	names := lexer.SymbolsByRune(Lexer)
	out := make([]syntax.Token, 0, len(ptoks))
	for _, pt := range ptoks {
		if pt.EOF() {
			break
		}
		kind, err := kindOf(names[pt.Type], pt.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pt.Pos, err)
		}
		out = append(out, syntax.Token{Kind: kind, Loc: uint32(pt.Pos.Offset), Slice: pt.Value})
	}
	return out, nil
}

func kindOf(rule, value string) (syntax.Kind, error) {
	switch rule {
	case "Arrow", "Punct":
		if k, ok := punct[value]; ok {
			return k, nil
		}
	case "Newline":
		return syntax.Newline, nil
	case "Space":
		return syntax.Space, nil
	case "Ident":
		if k, ok := keywords[value]; ok {
			return k, nil
		}
		return syntax.Identifier, nil
	case "Number":
		return syntax.NumericLiteral, nil
	case "Unknown":
		return syntax.Unknown, nil
	}
	return syntax.Unknown, fmt.Errorf("no kind for %s token %q", rule, value)
}

// ----------------------------------------------------------------------------
// Diffing

// Row is one index-aligned pair of tokens. A missing side is the zero Token
// with its Has flag unset.
type Row struct {
	Index   int
	Got     syntax.Token // from syntax.Tokenize
	Want    syntax.Token // from Lex
	HasGot  bool
	HasWant bool
}

// Match reports whether both sides agree on kind, offset and text.
func (r Row) Match() bool {
	return r.HasGot && r.HasWant &&
		r.Got.Kind == r.Want.Kind && r.Got.Loc == r.Want.Loc && r.Got.Slice == r.Want.Slice
}

// Diff lexes src with both lexers and aligns the results by index. The
// number of rows is the longer of the two token lists.
func Diff(src string) ([]Row, error) {
	want, err := Lex("", src)
	if err != nil {
		return nil, err
	}
	got := syntax.Tokenize(src)

	n := len(got)
	if len(want) > n {
		n = len(want)
	}
	rows := make([]Row, n)
	for i := range rows {
		rows[i].Index = i
		if i < len(got) {
			rows[i].Got, rows[i].HasGot = got[i], true
		}
		if i < len(want) {
			rows[i].Want, rows[i].HasWant = want[i], true
		}
	}
	return rows, nil
}

// Mismatches returns the rows where the lexers disagree.
func Mismatches(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if !r.Match() {
			out = append(out, r)
		}
	}
	return out
}

// FormatDiff writes a side-by-side table of rows. Disagreeing rows are
// marked with '!'. If limit > 0, at most limit rows are written.
func FormatDiff(w io.Writer, rows []Row, limit int) {
	fmt.Fprintf(w, "  %-6s | %-8s | %-12s | %-16s || %-8s | %-12s | %-16s\n",
		"idx", "loc", "scan KIND", "scan TEXT", "loc", "ref KIND", "ref TEXT")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 2+6+3+8+3+12+3+16+4+8+3+12+3+16))

	n := len(rows)
	if limit > 0 && limit < n {
		n = limit
	}
	for _, r := range rows[:n] {
		mark := " "
		if !r.Match() {
			mark = "!"
		}
		gLoc, gKind, gText := side(r.Got, r.HasGot)
		wLoc, wKind, wText := side(r.Want, r.HasWant)
		fmt.Fprintf(w, "%s %-6d | %-8s | %-12s | %-16s || %-8s | %-12s | %-16s\n",
			mark, r.Index, gLoc, gKind, gText, wLoc, wKind, wText)
	}
}

func side(tok syntax.Token, ok bool) (loc, kind, text string) {
	if !ok {
		return "-", "-", "-"
	}
	return fmt.Sprintf("@%d", tok.Loc), tok.Kind.String(), syntax.QuoteLiteral(tok.Slice)
}
