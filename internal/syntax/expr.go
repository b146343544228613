package syntax

import "fmt"

// scope is one open nesting level. The root scope has no initiator and
// holds a list of ';'-separated statements.
type scope struct {
	initiator    Token
	hasInitiator bool
	base         int  // stack depth just above the initiator
	operand      bool // a complete operand was seen since the last operator
	pending      bool // an operator is waiting for its right operand
}

// statements reports whether ';' separates statements inside s instead
// of closing it.
func (s *scope) statements() bool {
	return !s.hasInitiator || s.initiator.Kind == OpenCurly
}

// closers lists the terminators s accepts.
func (s *scope) closers() []Kind {
	if !s.hasInitiator {
		return []Kind{SemiColon}
	}
	c, _ := s.initiator.Kind.Closer()
	if c != SemiColon && s.statements() {
		return []Kind{c, SemiColon}
	}
	return []Kind{c}
}

// follow lists what may come next in s: an operand, or once one is
// complete, an operator or a terminator.
func (s *scope) follow() []Kind {
	if !s.operand {
		return operandKinds
	}
	return append(append([]Kind(nil), operatorKinds...), s.closers()...)
}

var (
	operandKinds  = []Kind{Identifier, NumericLiteral}
	operatorKinds = []Kind{Plus, Minus, Star, Slash, GreaterThan, Equals, Arrow, Colon, Comma}
)

func (p *Parser) scope() *scope {
	return &p.scopes[len(p.scopes)-1]
}

// Parse runs the precedence-climbing pass over the parser's tokens and
// returns them in flattened order: every operator follows its operands,
// initiators and terminators stay where their scopes begin and end.
//
// Nesting is tracked on the heap (p.scopes), never on the call stack, so
// depth is bounded only by memory.
func (p *Parser) Parse() ([]Token, error) {
	p.index, p.consumed, p.last = 0, 0, Token{}
	p.stack = p.stack[:0]
	p.output = make([]Token, 0, len(p.toks)/2+1)
	p.scopes = append(p.scopes[:0], scope{})

	for {
		if p.maxTokens > 0 && p.consumed >= p.maxTokens {
			if tok, ok := p.peek(); ok {
				return nil, &LimitError{Limit: p.maxTokens, At: tok}
			}
		}

		tok, ok := p.advance()
		if !ok {
			return p.finish()
		}

		var err error
		switch {
		case tok.IsTerminal():
			err = p.terminal(tok)
		case tok.Kind.IsOperand():
			err = p.operand(tok)
		case tok.IsInitial():
			err = p.open(tok)
		case tok.IsOperator():
			err = p.operator(tok)
		default:
			err = unexpected(tok, "not valid in an expression", operandKinds...)
		}
		if err != nil {
			return nil, err
		}
		p.traceStep(tok)
	}
}

// terminal handles ')', '}' and ';'.
func (p *Parser) terminal(tok Token) error {
	sc := p.scope()
	if sc.pending {
		return unexpected(tok, "operator is missing its right operand", operandKinds...)
	}
	if sc.hasInitiator && tok.Terminates(sc.initiator) {
		p.close(tok)
		return nil
	}
	if tok.Kind == SemiColon && sc.statements() {
		p.separate(tok)
		return nil
	}
	if !sc.hasInitiator {
		return unexpected(tok, "no open scope to close", sc.follow()...)
	}
	return unexpected(tok,
		fmt.Sprintf("%q at byte %d is still open", sc.initiator.Slice, sc.initiator.Loc),
		sc.closers()...)
}

// close ends the current scope: pending operators are written out, the
// initiator is dropped from the stack (it was written when the scope
// opened) and the terminator is written.
func (p *Parser) close(tok Token) {
	sc := p.scope()
	for len(p.stack) > sc.base {
		p.emit(p.mustPop())
	}
	p.mustPop()
	p.emit(tok)
	p.scopes = p.scopes[:len(p.scopes)-1]

	parent := p.scope()
	parent.pending = false
	// A declaration closed by ';' ends a statement; a bracket pair is an
	// operand of the enclosing expression.
	parent.operand = tok.Kind != SemiColon
}

// separate ends a statement inside the root or a brace scope.
func (p *Parser) separate(tok Token) {
	sc := p.scope()
	for len(p.stack) > sc.base {
		p.emit(p.mustPop())
	}
	p.emit(tok)
	sc.operand = false
}

// operand writes a leaf immediately.
func (p *Parser) operand(tok Token) error {
	sc := p.scope()
	if sc.operand {
		return unexpected(tok, "missing operator between operands", sc.follow()...)
	}
	p.emit(tok)
	sc.operand = true
	sc.pending = false
	return nil
}

// open starts a nested scope at tok. Declarations only begin a statement;
// brackets may also follow an operand.
func (p *Parser) open(tok Token) error {
	if sc := p.scope(); tok.IsDecl() {
		switch {
		case sc.pending:
			return unexpected(tok, "declaration cannot be an operand", operandKinds...)
		case sc.operand:
			return unexpected(tok, "declaration must start a statement", sc.follow()...)
		}
	}
	p.emit(tok)
	p.push(tok)
	p.scopes = append(p.scopes, scope{
		initiator:    tok,
		hasInitiator: true,
		base:         len(p.stack),
	})
	return nil
}

// operator writes out every stacked operator that binds tighter than tok
// from the right, then stacks tok.
func (p *Parser) operator(tok Token) error {
	sc := p.scope()
	if !sc.operand {
		return unexpected(tok, "operator needs a left operand", operandKinds...)
	}
	lp, _ := tok.Precedence()
	for len(p.stack) > sc.base {
		top, _ := p.top()
		if !top.IsOperator() {
			break
		}
		if _, rp := top.Precedence(); lp >= rp {
			break
		}
		p.emit(p.mustPop())
	}
	p.push(tok)
	sc.operand = false
	sc.pending = true
	return nil
}

// finish handles the end of input: open scopes and dangling operators
// are errors, otherwise the stack is flushed.
func (p *Parser) finish() ([]Token, error) {
	sc := p.scope()
	if sc.hasInitiator {
		c, _ := sc.initiator.Kind.Closer()
		return nil, unexpectedEOF(p.last,
			fmt.Sprintf("%q at byte %d is never closed", sc.initiator.Slice, sc.initiator.Loc), c)
	}
	if sc.pending {
		return nil, unexpectedEOF(p.last, "operator is missing its right operand", operandKinds...)
	}
	for {
		tok, ok := p.pop()
		if !ok {
			break
		}
		p.emit(tok)
	}
	out := p.output
	p.output = nil
	return out, nil
}
