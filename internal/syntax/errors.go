package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// UnexpectedToken reports a token that cannot continue the current
// production, or the end of input while scopes are still open.
type UnexpectedToken struct {
	Found    string // token text, or "end of input"
	Span     Span   // source range of the found token; empty at end of input
	Expected []Kind // kinds that would have been accepted, if known
	Hint     string // optional human-readable explanation
	EOF      bool   // set when the input ended early
}

func (e *UnexpectedToken) Error() string {
	var b strings.Builder
	if e.EOF {
		fmt.Fprintf(&b, "unexpected end of input at byte %d", e.Span.Offset)
	} else {
		fmt.Fprintf(&b, "unexpected %q at byte %d", e.Found, e.Span.Offset)
	}
	if len(e.Expected) > 0 {
		b.WriteString(", expected ")
		b.WriteString(kindList(e.Expected))
	}
	if e.Hint != "" {
		b.WriteString(": ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// kindList renders kinds as `a`, `a or b`, `a, b or c`.
func kindList(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// unexpected builds the diagnostic for tok.
func unexpected(tok Token, hint string, expected ...Kind) *UnexpectedToken {
	return &UnexpectedToken{
		Found:    tok.String(),
		Span:     tok.Span(),
		Expected: expected,
		Hint:     hint,
	}
}

// unexpectedEOF builds the end-of-input diagnostic anchored at the end
// of the last consumed token.
func unexpectedEOF(last Token, hint string, expected ...Kind) *UnexpectedToken {
	return &UnexpectedToken{
		Found:    "end of input",
		Span:     last.Span().After(),
		Expected: expected,
		Hint:     hint,
		EOF:      true,
	}
}

// IsIncomplete reports whether err means the input stopped before all
// scopes were closed, so more input could still make it valid.
func IsIncomplete(err error) bool {
	var ut *UnexpectedToken
	return errors.As(err, &ut) && ut.EOF
}

// EncodingError reports a byte outside the ASCII range.
type EncodingError struct {
	Offset uint32
	Byte   byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("non-ASCII input: byte 0x%02x at offset %d", e.Byte, e.Offset)
}

// Span returns the one-byte span of the offending byte.
func (e *EncodingError) Span() Span {
	return Span{Offset: e.Offset, Len: 1}
}

// LimitError reports that a parse consumed more tokens than allowed.
type LimitError struct {
	Limit int
	At    Token
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("token limit of %d exceeded at byte %d", e.Limit, e.At.Loc)
}
