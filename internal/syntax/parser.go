package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Parser converts a token sequence into flattened evaluation order.
//
// It owns a cursor into the borrowed token slice, a work stack of pending
// operators and scope initiators, and the output sequence. A Parser
// serves one parse at a time; Parse resets all three before it starts.
type Parser struct {
	toks  []Token
	index int // cursor into toks

	stack  []Token // operators and initiators awaiting resolution
	output []Token // tokens in final order
	scopes []scope // open nesting levels, root first

	last     Token // last significant token consumed
	consumed int   // significant tokens consumed

	// Configuration
	maxTokens int       // 0 means unlimited
	trace     io.Writer // step trace, nil to disable
}

// NewParser creates a Parser over toks.
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// SetMaxTokens bounds the number of significant tokens a parse may
// consume. Zero disables the limit.
func (p *Parser) SetMaxTokens(n int) {
	p.maxTokens = n
}

// SetTrace makes the parser write one line per consumed token showing the
// work stack and output so far. A nil writer disables tracing.
func (p *Parser) SetTrace(w io.Writer) {
	p.trace = w
}

// ----------------------------------------------------------------------------
// Token navigation

// peek returns the next significant token without consuming it.
func (p *Parser) peek() (Token, bool) {
	for i := p.index; i < len(p.toks); i++ {
		if p.toks[i].IsSignificant() {
			return p.toks[i], true
		}
	}
	return Token{}, false
}

// advance consumes and returns the next significant token.
func (p *Parser) advance() (Token, bool) {
	for p.index < len(p.toks) {
		tok := p.toks[p.index]
		p.index++
		if tok.IsSignificant() {
			p.last = tok
			p.consumed++
			return tok, true
		}
	}
	return Token{}, false
}

// ----------------------------------------------------------------------------
// Work stack and output

func (p *Parser) push(tok Token) {
	p.stack = append(p.stack, tok)
}

func (p *Parser) pop() (Token, bool) {
	n := len(p.stack)
	if n == 0 {
		return Token{}, false
	}
	tok := p.stack[n-1]
	p.stack = p.stack[:n-1]
	return tok, true
}

func (p *Parser) top() (Token, bool) {
	n := len(p.stack)
	if n == 0 {
		return Token{}, false
	}
	return p.stack[n-1], true
}

// mustPop pops a token the caller has proven to be there.
func (p *Parser) mustPop() Token {
	tok, ok := p.pop()
	if !ok {
		panic("syntax: pop from empty work stack")
	}
	return tok
}

func (p *Parser) emit(tok Token) {
	p.output = append(p.output, tok)
}

// Stack returns the current work stack, bottom first.
func (p *Parser) Stack() []Token {
	return p.stack
}

// Output returns the tokens emitted so far.
func (p *Parser) Output() []Token {
	return p.output
}

// ----------------------------------------------------------------------------
// Tracing

func (p *Parser) traceStep(tok Token) {
	if p.trace == nil {
		return
	}
	fmt.Fprintf(p.trace, "%-8s stack: [%s] output: [%s]\n", tok, joinTokens(p.stack), joinTokens(p.output))
}

// joinTokens renders toks separated by single spaces.
func joinTokens(toks []Token) string {
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.String())
	}
	return b.String()
}

// ----------------------------------------------------------------------------
// Entry points

// Parse flattens toks into evaluation order.
func Parse(toks []Token) ([]Token, error) {
	return NewParser(toks).Parse()
}

// ParseSource validates, tokenizes and parses src.
func ParseSource(src string) ([]Token, error) {
	if err := ValidateASCII(src); err != nil {
		return nil, err
	}
	return Parse(Tokenize(src))
}
