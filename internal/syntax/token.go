// Package syntax implements lexical analysis and precedence parsing for the
// flat source language.
package syntax

import "fmt"

// Kind represents the lexical category of a token.
type Kind uint8

const (
	// Operators
	Plus        Kind = iota // +
	Minus                   // -
	Star                    // *
	Slash                   // /
	GreaterThan             // >
	Equals                  // =
	Arrow                   // ->
	Colon                   // :
	Comma                   // ,

	// Scope delimiters
	OpenBracket  // (
	CloseBracket // )
	OpenCurly    // {
	CloseCurly   // }

	// Statement terminator
	SemiColon // ;

	// Scope-introducing keywords
	FunctionDeclaration // fun
	VariableDeclaration // var

	// Quotes
	DoubleQuote // "
	SingleQuote // '

	// Whitespace
	Space   // space, tab, carriage return
	Newline // \n

	// Words
	Identifier
	NumericLiteral
	Unknown

	kindCount
)

// kindNames maps kinds to their string representation.
var kindNames = [...]string{
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	GreaterThan: ">",
	Equals:      "=",
	Arrow:       "->",
	Colon:       ":",
	Comma:       ",",

	OpenBracket:  "(",
	CloseBracket: ")",
	OpenCurly:    "{",
	CloseCurly:   "}",

	SemiColon: ";",

	FunctionDeclaration: "fun",
	VariableDeclaration: "var",

	DoubleQuote: `"`,
	SingleQuote: "'",

	Space:   "SPACE",
	Newline: "NEWLINE",

	Identifier:     "IDENT",
	NumericLiteral: "NUMBER",
	Unknown:        "UNKNOWN",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Static classification tables. Indexed by Kind.
var (
	operators = [kindCount]bool{
		Plus: true, Minus: true, Star: true, Slash: true,
		GreaterThan: true, Equals: true, Arrow: true, Colon: true, Comma: true,
	}
	initials = [kindCount]bool{
		OpenBracket: true, OpenCurly: true,
		FunctionDeclaration: true, VariableDeclaration: true,
	}
	terminals = [kindCount]bool{
		CloseBracket: true, CloseCurly: true, SemiColon: true,
	}
)

// bindingPower holds the (left, right) binding powers of operator kinds.
// Left-associative operators use (p, p+1), right-associative ones (p+1, p).
//
//	,        (1, 2)   left
//	=        (4, 3)   right
//	->       (6, 5)   right
//	:        (7, 8)   left
//	>        (9, 10)  left
//	+ -      (11, 12) left
//	* /      (13, 14) left
var bindingPower = [kindCount][2]uint8{
	Comma:       {1, 2},
	Equals:      {4, 3},
	Arrow:       {6, 5},
	Colon:       {7, 8},
	GreaterThan: {9, 10},
	Plus:        {11, 12},
	Minus:       {11, 12},
	Star:        {13, 14},
	Slash:       {13, 14},
}

// closers maps each initiator to the kind that terminates its scope.
var closers = [kindCount]Kind{
	OpenBracket:         CloseBracket,
	OpenCurly:           CloseCurly,
	FunctionDeclaration: SemiColon,
	VariableDeclaration: SemiColon,
}

// IsOperator reports whether k is a binary operator.
func (k Kind) IsOperator() bool { return k < kindCount && operators[k] }

// IsInitial reports whether k opens a nested scope.
func (k Kind) IsInitial() bool { return k < kindCount && initials[k] }

// IsTerminal reports whether k closes a nested scope.
func (k Kind) IsTerminal() bool { return k < kindCount && terminals[k] }

// IsWhitespace reports whether k is a space or newline marker.
func (k Kind) IsWhitespace() bool { return k == Space || k == Newline }

// IsDecl reports whether k is a declaration keyword.
func (k Kind) IsDecl() bool { return k == FunctionDeclaration || k == VariableDeclaration }

// IsOperand reports whether k is a leaf value.
func (k Kind) IsOperand() bool { return k == Identifier || k == NumericLiteral }

// Precedence returns the (left, right) binding powers of k.
// Non-operators yield (0, 0); check IsOperator before comparing.
func (k Kind) Precedence() (left, right uint8) {
	if k >= kindCount {
		return 0, 0
	}
	bp := bindingPower[k]
	return bp[0], bp[1]
}

// Closer returns the kind that terminates a scope opened by k.
// The second result is false if k is not an initiator.
func (k Kind) Closer() (Kind, bool) {
	if !k.IsInitial() {
		return Unknown, false
	}
	return closers[k], true
}

// Token is a single lexical token: its kind, the byte offset of its first
// byte in the source and the exact source text it spans.
//
// Slice is a substring of the source buffer and shares its memory.
type Token struct {
	Kind  Kind
	Loc   uint32
	Slice string
}

// IsOperator reports whether t is a binary operator.
func (t Token) IsOperator() bool { return t.Kind.IsOperator() }

// IsInitial reports whether t opens a nested scope.
func (t Token) IsInitial() bool { return t.Kind.IsInitial() }

// IsTerminal reports whether t closes a nested scope.
func (t Token) IsTerminal() bool { return t.Kind.IsTerminal() }

// IsDecl reports whether t is a declaration keyword.
func (t Token) IsDecl() bool { return t.Kind.IsDecl() }

// IsSignificant reports whether the parser looks at t.
func (t Token) IsSignificant() bool { return !t.Kind.IsWhitespace() }

// Precedence returns the binding powers of t's kind.
func (t Token) Precedence() (left, right uint8) { return t.Kind.Precedence() }

// Terminates reports whether t closes a scope opened by initiator.
func (t Token) Terminates(initiator Token) bool {
	c, ok := initiator.Kind.Closer()
	return ok && c == t.Kind
}

// End returns the offset one past the last byte of t.
func (t Token) End() uint32 { return t.Loc + uint32(len(t.Slice)) }

// Span returns the source span covered by t.
func (t Token) Span() Span { return Span{Offset: t.Loc, Len: uint32(len(t.Slice))} }

// Compare orders tokens by source offset. It returns -1, 0 or +1.
func (t Token) Compare(u Token) int {
	switch {
	case t.Loc < u.Loc:
		return -1
	case t.Loc > u.Loc:
		return 1
	}
	return 0
}

// Equal reports whether t and u start at the same source offset.
// Two tokens are the same token exactly when they share a location.
func (t Token) Equal(u Token) bool { return t.Loc == u.Loc }

// String returns the token text, or the kind name for whitespace.
func (t Token) String() string {
	if t.Kind.IsWhitespace() || t.Slice == "" {
		return t.Kind.String()
	}
	return t.Slice
}

// words maps exact source words to their kind.
var words = map[string]Kind{
	"+":  Plus,
	"-":  Minus,
	"*":  Star,
	"/":  Slash,
	">":  GreaterThan,
	"=":  Equals,
	"->": Arrow,
	":":  Colon,
	",":  Comma,

	"(": OpenBracket,
	")": CloseBracket,
	"{": OpenCurly,
	"}": CloseCurly,
	";": SemiColon,

	"fun": FunctionDeclaration,
	"var": VariableDeclaration,

	`"`: DoubleQuote,
	"'": SingleQuote,

	" ":  Space,
	"\t": Space,
	"\r": Space,
	"\n": Newline,
}

// LookupWord returns the kind of word. Exact matches from the word table
// win; otherwise the first byte decides between NumericLiteral and
// Identifier, and anything else is Unknown.
func LookupWord(word string) Kind {
	if k, ok := words[word]; ok {
		return k
	}
	if word == "" {
		return Unknown
	}
	switch c := word[0]; {
	case isDigit(c):
		return NumericLiteral
	case isLetter(c):
		return Identifier
	}
	return Unknown
}

// Classify builds the token for word found at byte offset loc.
func Classify(loc uint32, word string) Token {
	return Token{Kind: LookupWord(word), Loc: loc, Slice: word}
}
