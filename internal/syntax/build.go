package syntax

import "fmt"

// frame is an open scope while folding a flattened sequence.
type frame struct {
	open    Token
	hasOpen bool
	items   []Node
	mark    int // first item of the current statement
}

// Build folds the flattened output of Parse back into a tree. Operators
// take the two most recent operands of their scope; initiators and
// terminators delimit Groups and DeclStmts; ';' closes ExprStmts in the
// root and in brace scopes.
//
// Build expects well-formed parser output and reports an error for
// anything else.
func Build(out []Token) (*File, error) {
	frames := []frame{{}}

	for _, tok := range out {
		fr := &frames[len(frames)-1]

		switch {
		case tok.Kind == Identifier:
			fr.items = append(fr.items, &Name{node{tok.Span()}, tok})

		case tok.Kind == NumericLiteral:
			fr.items = append(fr.items, &BasicLit{node{tok.Span()}, tok})

		case tok.IsOperator():
			if len(fr.items)-fr.mark < 2 {
				return nil, fmt.Errorf("build: operator %q at byte %d has fewer than two operands", tok.Slice, tok.Loc)
			}
			n := len(fr.items)
			x, y := fr.items[n-2], fr.items[n-1]
			op := &Operation{node{cover(x.Span(), y.Span())}, tok, x, y}
			fr.items = append(fr.items[:n-2], op)

		case tok.IsInitial():
			frames = append(frames, frame{open: tok, hasOpen: true})

		case tok.Kind == SemiColon && fr.hasOpen && !fr.open.IsDecl():
			if fr.open.Kind != OpenCurly {
				return nil, fmt.Errorf("build: %q at byte %d inside %q", tok.Slice, tok.Loc, fr.open.Slice)
			}
			fr.endStmt(tok)

		case tok.Kind == SemiColon && !fr.hasOpen:
			fr.endStmt(tok)

		case tok.IsTerminal():
			if !fr.hasOpen || !tok.Terminates(fr.open) {
				return nil, fmt.Errorf("build: unbalanced %q at byte %d", tok.Slice, tok.Loc)
			}
			var n Node
			span := cover(fr.open.Span(), tok.Span())
			if fr.open.IsDecl() {
				n = &DeclStmt{node{span}, fr.open, fr.items, tok}
			} else {
				n = &Group{node{span}, fr.open, tok, fr.items}
			}
			frames = frames[:len(frames)-1]
			parent := &frames[len(frames)-1]
			parent.items = append(parent.items, n)
			if tok.Kind == SemiColon {
				parent.mark = len(parent.items)
			}

		default:
			return nil, fmt.Errorf("build: unexpected %q at byte %d", tok.String(), tok.Loc)
		}
	}

	if len(frames) != 1 {
		open := frames[len(frames)-1].open
		return nil, fmt.Errorf("build: %q at byte %d is never closed", open.Slice, open.Loc)
	}
	root := frames[0].items
	f := &File{Stmts: root}
	if len(root) > 0 {
		f.span = listSpan(root, root[0].Span())
	}
	return f, nil
}

// endStmt wraps the items of the current statement into an ExprStmt.
func (fr *frame) endStmt(semi Token) {
	list := append([]Node(nil), fr.items[fr.mark:]...)
	stmt := &ExprStmt{node{listSpan(list, semi.Span())}, list, semi}
	fr.items = append(fr.items[:fr.mark], stmt)
	fr.mark = len(fr.items)
}
