package syntax

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Test helpers

func flatten(t *testing.T, src string) string {
	t.Helper()
	out, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource(%q): %v", src, err)
	}
	return joinTokens(out)
}

// evalOrder keeps only operands and operators, the order a stack machine
// would see them.
func evalOrder(out []Token) string {
	var kept []Token
	for _, tok := range out {
		if tok.Kind.IsOperand() || tok.IsOperator() {
			kept = append(kept, tok)
		}
	}
	return joinTokens(kept)
}

func parseError(t *testing.T, src string) *UnexpectedToken {
	t.Helper()
	out, err := ParseSource(src)
	if err == nil {
		t.Fatalf("ParseSource(%q) = %q, want error", src, joinTokens(out))
	}
	var ut *UnexpectedToken
	if !errors.As(err, &ut) {
		t.Fatalf("ParseSource(%q) error = %T %v, want *UnexpectedToken", src, err, err)
	}
	return ut
}

// ----------------------------------------------------------------------------
// Parser core primitives

func TestParserNavigation(t *testing.T) {
	p := NewParser(Tokenize("  a \n+\tb"))

	tok, ok := p.peek()
	if !ok || tok.Slice != "a" {
		t.Fatalf("peek() = %q, %v; want \"a\", true", tok.Slice, ok)
	}
	if tok2, _ := p.peek(); !tok2.Equal(tok) {
		t.Error("peek advanced the cursor")
	}

	var got []string
	for {
		tok, ok := p.advance()
		if !ok {
			break
		}
		got = append(got, tok.Slice)
	}
	if want := []string{"a", "+", "b"}; !equalStrings(got, want) {
		t.Errorf("advance sequence = %q, want %q", got, want)
	}
	if _, ok := p.peek(); ok {
		t.Error("peek at end returned a token")
	}
	if p.last.Slice != "b" {
		t.Errorf("last consumed = %q, want \"b\"", p.last.Slice)
	}
}

func TestParserStack(t *testing.T) {
	p := NewParser(nil)

	if _, ok := p.pop(); ok {
		t.Error("pop on empty stack succeeded")
	}
	if _, ok := p.top(); ok {
		t.Error("top on empty stack succeeded")
	}

	a := Token{Kind: Plus, Loc: 1, Slice: "+"}
	b := Token{Kind: Star, Loc: 5, Slice: "*"}
	p.push(a)
	p.push(b)
	if top, _ := p.top(); !top.Equal(b) {
		t.Errorf("top = %v, want %v", top, b)
	}
	if got := p.mustPop(); !got.Equal(b) {
		t.Errorf("pop = %v, want %v", got, b)
	}
	if got, _ := p.pop(); !got.Equal(a) {
		t.Errorf("pop = %v, want %v", got, a)
	}

	p.emit(a)
	if len(p.Output()) != 1 {
		t.Errorf("Output() has %d tokens, want 1", len(p.Output()))
	}
}

func TestMustPopPanicsOnEmptyStack(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mustPop on empty stack did not panic")
		}
	}()
	NewParser(nil).mustPop()
}

// ----------------------------------------------------------------------------
// Flattening

func TestParseFlatten(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace_only", " \n\t", ""},
		{"single_operand", "x;", "x ;"},
		{"precedence", "1 + 2 * 3;", "1 2 3 * + ;"},
		{"precedence_reversed", "1 * 2 + 3;", "1 2 * 3 + ;"},
		{"left_assoc_add", "1 + 2 + 3;", "1 2 + 3 + ;"},
		{"left_assoc_sub", "a - b - c;", "a b - c - ;"},
		{"left_assoc_mixed", "a / b * c;", "a b / c * ;"},
		{"right_assoc_assign", "a = b = c;", "a b c = = ;"},
		{"right_assoc_arrow", "a -> b -> c;", "a b c -> -> ;"},
		{"comparison", "a + b > c * d;", "a b + c d * > ;"},
		{"colon_binds_tighter_than_assign", "x: int = 5;", "x int : 5 = ;"},
		{"comma_lowest", "a = 1, b = 2;", "a 1 = b 2 = , ;"},
		{"no_terminator", "1 + 2", "1 2 +"},
		{"two_statements", "a; b;", "a ; b ;"},
		{"empty_statements", ";;", "; ;"},
		{"nested_example", "A * (B + C * D) + E;", "A ( B C D * + ) * E + ;"},
		{"parens_right", "1 * (2 + 3)", "1 ( 2 3 + ) *"},
		{"double_parens", "((1));", "( ( 1 ) ) ;"},
		{"empty_parens", "f();", "f ( ) ;"},
		{"call_args", "f(a, b);", "f ( a b , ) ;"},
		{"var_decl", "var x = 1;", "var x 1 = ;"},
		{"var_decls", "var x = 1; var y = x * 2;", "var x 1 = ; var y x 2 * = ;"},
		{"statement_after_decl", "var x = 1; x;", "var x 1 = ; x ;"},
		{"decl_in_parens", "var f = (var g;);", "var f ( var g ; ) = ;"},
		{"decl_in_decl", "var fun f; ;", "var fun f ; ;"},
		{"block", "{ x; y }", "{ x ; y }"},
		{"block_expr", "{ a + b; c = d; }", "{ a b + ; c d = ; }"},
		{"fun_decl", "fun add(a, b) { a + b; };", "fun add ( a b , ) { a b + ; } ;"},
		{"fun_typed", "fun f(a: int) -> int { a; };", "fun f ( a int : ) int { a ; } -> ;"},
		{"newlines", "a\n+\nb\n;", "a b + ;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flatten(t, tt.src); got != tt.want {
				t.Errorf("flatten(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseEvaluationOrder(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"A * (B + C * D) + E;", "A B C D * + * E +"},
		{"((A * (B + (C * D))) + E);", "A B C D * + * E +"},
		{"1 + 2 * 3;", "1 2 3 * +"},
		{"(1 + 2) * 3;", "1 2 + 3 *"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			out, err := ParseSource(tt.src)
			if err != nil {
				t.Fatalf("ParseSource: %v", err)
			}
			if got := evalOrder(out); got != tt.want {
				t.Errorf("evaluation order = %q, want %q", got, tt.want)
			}
			if last := out[len(out)-1]; last.Kind != SemiColon {
				t.Errorf("last token = %v, want ;", last)
			}
		})
	}
}

func TestParseKeepsSourceLocations(t *testing.T) {
	src := "b + c;"
	out, err := ParseSource(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range out {
		if src[tok.Loc:tok.End()] != tok.Slice {
			t.Errorf("token %q has location %d not matching source", tok.Slice, tok.Loc)
		}
	}
}

func TestParseDrainsStack(t *testing.T) {
	p := NewParser(Tokenize("a = b + c * d"))
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if n := len(p.Stack()); n != 0 {
		t.Errorf("stack has %d tokens after parse", n)
	}
	if n := len(p.scopes); n != 1 {
		t.Errorf("%d scopes open after parse, want only the root", n)
	}
}

func TestParseReuse(t *testing.T) {
	p := NewParser(Tokenize("(1 + 2) * 3;"))
	first, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	if joinTokens(first) != joinTokens(second) {
		t.Errorf("second parse = %q, first = %q", joinTokens(second), joinTokens(first))
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 100000
	src := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";"
	out, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if len(out) != 2*depth+2 {
		t.Errorf("output has %d tokens, want %d", len(out), 2*depth+2)
	}
}

// ----------------------------------------------------------------------------
// Diagnostics

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		found    string
		span     Span
		expected []Kind
		eof      bool
	}{
		{"semi_in_parens", "(1 + 2;", ";", Span{6, 1}, []Kind{CloseBracket}, false},
		{"close_at_root", "1 + 2);", ")", Span{5, 1}, append(operatorKinds, SemiColon), false},
		{"bare_close_at_root", ")", ")", Span{0, 1}, []Kind{Identifier, NumericLiteral}, false},
		{"brace_closes_paren", "(a}", "}", Span{2, 1}, []Kind{CloseBracket}, false},
		{"brace_closes_var", "var x = 1 }", "}", Span{10, 1}, []Kind{SemiColon}, false},
		{"paren_closes_brace", "{ a; ) }", ")", Span{5, 1}, []Kind{CloseCurly, SemiColon}, false},
		{"dangling_operator", "1 + ;", ";", Span{4, 1}, []Kind{Identifier, NumericLiteral}, false},
		{"missing_operator", "1 2;", "2", Span{2, 1}, append(operatorKinds, SemiColon), false},
		{"missing_operator_in_parens", "(a b)", "b", Span{3, 1}, append(operatorKinds, CloseBracket), false},
		{"var_as_operand", "1 + var x;", "var", Span{4, 3}, []Kind{Identifier, NumericLiteral}, false},
		{"fun_as_operand", "x = fun f;", "fun", Span{4, 3}, []Kind{Identifier, NumericLiteral}, false},
		{"var_inside_var_value", "var x = var y; ;", "var", Span{8, 3}, []Kind{Identifier, NumericLiteral}, false},
		{"var_after_operand", "1 + f var x;", "var", Span{6, 3}, append(operatorKinds, SemiColon), false},
		{"missing_left_operand", "* 2;", "*", Span{0, 1}, []Kind{Identifier, NumericLiteral}, false},
		{"unknown_token", "a @ b;", "@", Span{2, 1}, []Kind{Identifier, NumericLiteral}, false},
		{"quote", `a = "b";`, `"`, Span{4, 1}, []Kind{Identifier, NumericLiteral}, false},
		{"unclosed_paren", "(1 + 2", "end of input", Span{6, 0}, []Kind{CloseBracket}, true},
		{"unclosed_brace", "{ a", "end of input", Span{3, 0}, []Kind{CloseCurly}, true},
		{"unclosed_var", "var x = 1\n", "end of input", Span{9, 0}, []Kind{SemiColon}, true},
		{"trailing_operator", "1 +", "end of input", Span{3, 0}, []Kind{Identifier, NumericLiteral}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ut := parseError(t, tt.src)
			if ut.Found != tt.found {
				t.Errorf("Found = %q, want %q", ut.Found, tt.found)
			}
			if ut.Span != tt.span {
				t.Errorf("Span = %v, want %v", ut.Span, tt.span)
			}
			if !equalKinds(ut.Expected, tt.expected) {
				t.Errorf("Expected = %v, want %v", ut.Expected, tt.expected)
			}
			if ut.EOF != tt.eof {
				t.Errorf("EOF = %v, want %v", ut.EOF, tt.eof)
			}
			if IsIncomplete(ut) != tt.eof {
				t.Errorf("IsIncomplete = %v, want %v", IsIncomplete(ut), tt.eof)
			}
		})
	}
}

func TestUnexpectedTokenMessage(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(1 + 2;", `unexpected ";" at byte 6, expected ): "(" at byte 0 is still open`},
		{"1 + 2);", `unexpected ")" at byte 5, expected +, -, *, /, >, =, ->, :, , or ;: no open scope to close`},
		{");", `unexpected ")" at byte 0, expected IDENT or NUMBER: no open scope to close`},
		{"1 + var x;", `unexpected "var" at byte 4, expected IDENT or NUMBER: declaration cannot be an operand`},
		{"{ a", `unexpected end of input at byte 3, expected }: "{" at byte 0 is never closed`},
		{"1 +", `unexpected end of input at byte 3, expected IDENT or NUMBER: operator is missing its right operand`},
		{"{ a; ) }", `unexpected ")" at byte 5, expected } or ;: "{" at byte 0 is still open`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := parseError(t, tt.src).Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsIncomplete(t *testing.T) {
	if IsIncomplete(nil) {
		t.Error("IsIncomplete(nil) = true")
	}
	if IsIncomplete(errors.New("other")) {
		t.Error("IsIncomplete(other) = true")
	}
	_, err := ParseSource("fun f(a) {")
	if !IsIncomplete(err) {
		t.Errorf("IsIncomplete(%v) = false", err)
	}
}

func TestParseSourceRejectsNonASCII(t *testing.T) {
	_, err := ParseSource("x = 'é';")
	var ee *EncodingError
	if !errors.As(err, &ee) {
		t.Fatalf("ParseSource error = %v, want *EncodingError", err)
	}
	if ee.Offset != 5 {
		t.Errorf("Offset = %d, want 5", ee.Offset)
	}
}

func TestParseTokenLimit(t *testing.T) {
	p := NewParser(Tokenize("1 + 2 * 3;"))
	p.SetMaxTokens(3)
	_, err := p.Parse()
	var le *LimitError
	if !errors.As(err, &le) {
		t.Fatalf("Parse error = %v, want *LimitError", err)
	}
	if le.At.Slice != "*" || le.At.Loc != 6 {
		t.Errorf("limit hit at %q@%d, want \"*\"@6", le.At.Slice, le.At.Loc)
	}

	p.SetMaxTokens(6)
	if _, err := p.Parse(); err != nil {
		t.Errorf("Parse with exact limit: %v", err)
	}
}

func TestParseTrace(t *testing.T) {
	var buf bytes.Buffer
	p := NewParser(Tokenize("1 + 2;"))
	p.SetTrace(&buf)
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("trace has %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if want := "stack: [+] output: [1 2]"; !strings.Contains(lines[2], want) {
		t.Errorf("trace line 3 = %q, want it to contain %q", lines[2], want)
	}
	if want := "stack: [] output: [1 2 + ;]"; !strings.Contains(lines[3], want) {
		t.Errorf("trace line 4 = %q, want it to contain %q", lines[3], want)
	}
}

// ----------------------------------------------------------------------------
// Scope balance

// genBalanced writes a random expression with balanced brackets.
func genBalanced(r *rand.Rand, b *strings.Builder, depth int) {
	operands := []string{"a", "b", "1", "42", "x1"}
	ops := []string{"+", "-", "*", "/", ">", "=", "->", ":", ","}
	n := 1 + r.Intn(3)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(" " + ops[r.Intn(len(ops))] + " ")
		}
		if depth > 0 && r.Intn(3) == 0 {
			b.WriteString("(")
			genBalanced(r, b, depth-1)
			b.WriteString(")")
		} else {
			b.WriteString(operands[r.Intn(len(operands))])
		}
	}
}

func TestScopeBalance(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		var b strings.Builder
		genBalanced(r, &b, 5)
		src := b.String() + ";"

		p := NewParser(Tokenize(src))
		if _, err := p.Parse(); err != nil {
			t.Fatalf("balanced %q: %v", src, err)
		}
		if len(p.scopes) != 1 || len(p.Stack()) != 0 {
			t.Fatalf("balanced %q: %d scopes, %d stacked", src, len(p.scopes), len(p.Stack()))
		}

		// An extra closer is reported at its own offset.
		extra := b.String() + ")"
		ut := parseError(t, extra)
		if ut.Span.Offset != uint32(len(extra)-1) {
			t.Errorf("%q: error at %d, want %d", extra, ut.Span.Offset, len(extra)-1)
		}

		// An extra opener leaves the input incomplete.
		open := "(" + b.String()
		ut = parseError(t, open)
		if !ut.EOF || ut.Span.Offset != uint32(len(open)) {
			t.Errorf("%q: got %v, want end of input at %d", open, ut, len(open))
		}
	}
}

// ----------------------------------------------------------------------------
// Fuzz test

func FuzzParse(f *testing.F) {
	seeds := []string{
		"1 + 2 * 3;",
		"A * (B + C * D) + E;",
		"a = b = c -> d;",
		"x: int = 5, y: int = 6;",
		"var x = 1;",
		"var x = 1; var y = x * 2;",
		"fun add(a, b) { a + b; };",
		"fun f(a: int) -> int { a; };",
		"var f = (var g;);",
		"1 + var x;",
		"x = fun f;",
		"1 + f var x;",
		"{ a; var b; } + c;",
		"((1 + 2);",
		"f(a, b) (c)",
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		// Syntax errors are acceptable, but parser should not panic
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", src, r)
			}
		}()

		out, err := ParseSource(src)
		if err != nil {
			return
		}
		if _, err := Build(out); err != nil {
			t.Errorf("ParseSource(%q) = %q, but Build failed: %v", src, joinTokens(out), err)
		}
	})
}

func BenchmarkParse(b *testing.B) {
	src := strings.Repeat("var total = price * (count + 1) -> result;\n", 1000)
	toks := Tokenize(src)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(toks); err != nil {
			b.Fatal(err)
		}
	}
}
