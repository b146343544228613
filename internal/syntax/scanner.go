package syntax

// Scanner splits a source buffer into tokens.
//
// Words run until the next boundary byte (see boundaryChars); each boundary
// byte becomes a one-byte token of its own. Scanning never fails: bytes that
// fit no category become Unknown tokens, and every byte of the input is
// covered by exactly one token.
type Scanner struct {
	src   string
	offs  int     // scan position
	start int     // first byte of the pending word
	buf   []Token // emitted tokens not yet returned by Next
}

// NewScanner creates a Scanner over src. The returned tokens slice src
// directly; src is never copied.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next token, or false when the input is exhausted.
// The last emitted token is held back until the following one is known,
// since a later '>' may still merge into it.
func (s *Scanner) Next() (Token, bool) {
	for len(s.buf) < 2 && s.step() {
	}
	if len(s.buf) == 0 {
		return Token{}, false
	}
	tok := s.buf[0]
	s.buf = s.buf[1:]
	return tok, true
}

// step scans up to and including the next boundary byte.
// It reports false once nothing is left to emit.
func (s *Scanner) step() bool {
	for s.offs < len(s.src) {
		if !isBoundary(s.src[s.offs]) {
			s.offs++
			continue
		}
		s.flushWord()
		s.emit(Classify(uint32(s.offs), s.src[s.offs:s.offs+1]))
		s.offs++
		s.start = s.offs
		return true
	}
	return s.flushWord()
}

// flushWord emits the text between the last boundary and the scan position.
func (s *Scanner) flushWord() bool {
	if s.start >= s.offs {
		return false
	}
	s.emit(Classify(uint32(s.start), s.src[s.start:s.offs]))
	s.start = s.offs
	return true
}

// emit appends tok, merging it into the previous token when the pair
// forms a two-character operator.
func (s *Scanner) emit(tok Token) {
	if n := len(s.buf); n > 0 {
		last := s.buf[n-1]
		if merged, ok := s.merge(last, tok); ok {
			s.buf[n-1] = merged
			return
		}
	}
	s.buf = append(s.buf, tok)
}

// merge implements the lookback rules keyed on the new token's kind.
// The only rule is '-' '>' → "->".
func (s *Scanner) merge(last, tok Token) (Token, bool) {
	switch tok.Kind {
	case GreaterThan:
		if last.Kind == Minus && last.End() == tok.Loc {
			return Token{Kind: Arrow, Loc: last.Loc, Slice: s.src[last.Loc:tok.End()]}, true
		}
	}
	return Token{}, false
}

// Tokenize scans all of src and returns its tokens in source order.
// Concatenating the Slice of every token reproduces src exactly.
func Tokenize(src string) []Token {
	s := NewScanner(src)
	toks := make([]Token, 0, len(src)/2+1)
	for {
		tok, ok := s.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}
